package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sofs91/InspectWise3.0/internal/domains"
)

type InspectionService struct {
	workspaces Workspaces
	now        func() time.Time
}

func NewInspectionService(workspaces Workspaces) *InspectionService {
	return &InspectionService{
		workspaces: workspaces,
		now:        time.Now,
	}
}

func (s *InspectionService) List(ctx context.Context, organizationID string) ([]domains.Inspection, error) {
	ws, err := openWorkspace(ctx, s.workspaces, organizationID)
	if err != nil {
		return nil, err
	}
	return ws.Inspections.List(), nil
}

func (s *InspectionService) Get(ctx context.Context, organizationID, id string) (domains.Inspection, error) {
	ws, err := openWorkspace(ctx, s.workspaces, organizationID)
	if err != nil {
		return domains.Inspection{}, err
	}
	inspection, ok := ws.Inspections.Get(id)
	if !ok {
		return domains.Inspection{}, ErrInspectionNotFound
	}
	return inspection, nil
}

// Create starts an incomplete inspection against one of the organization's templates.
func (s *InspectionService) Create(ctx context.Context, organizationID string, draft domains.InspectionCreate) (domains.Inspection, error) {
	inspector := strings.TrimSpace(draft.InspectorName)
	location := strings.TrimSpace(draft.Location)
	if inspector == "" || location == "" {
		return domains.Inspection{}, invalid("inspector name and location are required")
	}

	ws, err := openWorkspace(ctx, s.workspaces, organizationID)
	if err != nil {
		return domains.Inspection{}, err
	}
	template, ok := ws.Templates.Get(draft.TemplateID)
	if !ok {
		return domains.Inspection{}, ErrTemplateNotFound
	}
	if err := domains.CheckResponses(template, draft.Responses); err != nil {
		return domains.Inspection{}, invalid("%v", err)
	}

	responses := draft.Responses
	if responses == nil {
		responses = map[string]domains.Response{}
	}
	inspection := domains.Inspection{
		ID:             uuid.NewString(),
		TemplateID:     template.ID,
		OrganizationID: organizationID,
		InspectorName:  inspector,
		Location:       location,
		Status:         domains.StatusIncomplete,
		Date:           s.now().UTC(),
		Responses:      responses,
	}
	ws.Inspections.Add(inspection)
	slog.Info("inspection started", "organization_id", organizationID, "id", inspection.ID, "template_id", template.ID)
	return inspection, nil
}

// Update merges patch into the inspection. Responses are merged by question
// id. Completing requires every required question still on the template to be answered.
func (s *InspectionService) Update(ctx context.Context, organizationID, id string, patch domains.InspectionUpdate) (domains.Inspection, error) {
	ws, err := openWorkspace(ctx, s.workspaces, organizationID)
	if err != nil {
		return domains.Inspection{}, err
	}
	current, ok := ws.Inspections.Get(id)
	if !ok {
		return domains.Inspection{}, ErrInspectionNotFound
	}

	next := current
	if patch.InspectorName != nil {
		next.InspectorName = strings.TrimSpace(*patch.InspectorName)
		if next.InspectorName == "" {
			return domains.Inspection{}, invalid("inspector name is required")
		}
	}
	if patch.Location != nil {
		next.Location = strings.TrimSpace(*patch.Location)
		if next.Location == "" {
			return domains.Inspection{}, invalid("location is required")
		}
	}
	if patch.Status != nil {
		if !patch.Status.Valid() {
			return domains.Inspection{}, invalid("unknown status %q", *patch.Status)
		}
		next.Status = *patch.Status
	}
	if patch.Responses != nil {
		merged := make(map[string]domains.Response, len(current.Responses)+len(patch.Responses))
		for k, v := range current.Responses {
			merged[k] = v
		}
		for k, v := range patch.Responses {
			merged[k] = v
		}
		next.Responses = merged
	}

	template, hasTemplate := ws.Templates.Get(next.TemplateID)
	if hasTemplate {
		if err := domains.CheckResponses(template, patch.Responses); err != nil {
			return domains.Inspection{}, invalid("%v", err)
		}
	}
	if next.Status == domains.StatusComplete && current.Status != domains.StatusComplete {
		if !hasTemplate {
			return domains.Inspection{}, ErrTemplateNotFound
		}
		if missing := domains.MissingRequired(template, next.Responses); len(missing) > 0 {
			return domains.Inspection{}, fmt.Errorf("%w: %s", ErrRequiredQuestionsMissing, strings.Join(missing, ", "))
		}
	}

	if !ws.Inspections.Update(id, next) {
		return domains.Inspection{}, ErrInspectionNotFound
	}
	return next, nil
}

func (s *InspectionService) Delete(ctx context.Context, organizationID, id string) error {
	ws, err := openWorkspace(ctx, s.workspaces, organizationID)
	if err != nil {
		return err
	}
	ws.Inspections.Delete(id)
	return nil
}
