package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/sofs91/InspectWise3.0/internal/domains"
	"github.com/sofs91/InspectWise3.0/internal/report"
)

type ReportGenerator interface {
	Generate(w io.Writer, inspection domains.Inspection, template domains.Template) error
}

type ReportService struct {
	workspaces Workspaces
	generator  ReportGenerator
}

func NewReportService(workspaces Workspaces, generator ReportGenerator) *ReportService {
	return &ReportService{workspaces: workspaces, generator: generator}
}

// Report is a rendered document and the file name it should be saved under.
type Report struct {
	FileName string
	Content  []byte
}

func (s *ReportService) Render(ctx context.Context, organizationID, inspectionID string) (Report, error) {
	ws, err := openWorkspace(ctx, s.workspaces, organizationID)
	if err != nil {
		return Report{}, err
	}
	inspection, ok := ws.Inspections.Get(inspectionID)
	if !ok {
		return Report{}, ErrInspectionNotFound
	}
	template, ok := ws.Templates.Get(inspection.TemplateID)
	if !ok {
		return Report{}, ErrTemplateNotFound
	}

	var buf bytes.Buffer
	if err := s.generator.Generate(&buf, inspection, template); err != nil {
		slog.Error("report generation failed", "inspection_id", inspectionID, "err", err)
		return Report{}, fmt.Errorf("generate report: %w", err)
	}
	return Report{FileName: report.FileName(inspection), Content: buf.Bytes()}, nil
}
