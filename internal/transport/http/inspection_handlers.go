package httptransport

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/sofs91/InspectWise3.0/internal/domains"
	"github.com/sofs91/InspectWise3.0/internal/httpx"
	"github.com/sofs91/InspectWise3.0/internal/service"
)

type InspectionHandlers struct {
	inspections InspectionServices
	reports     ReportServices
}

type InspectionServices interface {
	List(ctx context.Context, organizationID string) ([]domains.Inspection, error)
	Get(ctx context.Context, organizationID, id string) (domains.Inspection, error)
	Create(ctx context.Context, organizationID string, draft domains.InspectionCreate) (domains.Inspection, error)
	Update(ctx context.Context, organizationID, id string, patch domains.InspectionUpdate) (domains.Inspection, error)
	Delete(ctx context.Context, organizationID, id string) error
}

type ReportServices interface {
	Render(ctx context.Context, organizationID, inspectionID string) (service.Report, error)
}

func NewInspectionHandlers(inspections InspectionServices, reports ReportServices) *InspectionHandlers {
	return &InspectionHandlers{inspections: inspections, reports: reports}
}

func (h *InspectionHandlers) List(w http.ResponseWriter, r *http.Request) {
	inspections, err := h.inspections.List(r.Context(), httpx.OrganizationID(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, inspections)
}

func (h *InspectionHandlers) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.PathID(w, r)
	if !ok {
		return
	}
	inspection, err := h.inspections.Get(r.Context(), httpx.OrganizationID(r.Context()), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, inspection)
}

func (h *InspectionHandlers) Create(w http.ResponseWriter, r *http.Request) {
	draft, err := httpx.ReadBody[domains.InspectionCreate](r)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	created, err := h.inspections.Create(r.Context(), httpx.OrganizationID(r.Context()), draft)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *InspectionHandlers) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.PathID(w, r)
	if !ok {
		return
	}
	patch, err := httpx.ReadBody[domains.InspectionUpdate](r)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	updated, err := h.inspections.Update(r.Context(), httpx.OrganizationID(r.Context()), id, patch)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, updated)
}

func (h *InspectionHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.PathID(w, r)
	if !ok {
		return
	}
	if err := h.inspections.Delete(r.Context(), httpx.OrganizationID(r.Context()), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Report downloads the inspection as a PDF attachment.
func (h *InspectionHandlers) Report(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.PathID(w, r)
	if !ok {
		return
	}
	rep, err := h.reports.Render(r.Context(), httpx.OrganizationID(r.Context()), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", rep.FileName))
	w.Header().Set("Content-Length", strconv.Itoa(len(rep.Content)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(rep.Content)
}
