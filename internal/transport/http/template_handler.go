package httptransport

import (
	"context"
	"net/http"

	"github.com/sofs91/InspectWise3.0/internal/domains"
	"github.com/sofs91/InspectWise3.0/internal/httpx"
	"github.com/sofs91/InspectWise3.0/internal/store"
)

type TemplateHandlers struct {
	service TemplateServices
}

type TemplateServices interface {
	List(ctx context.Context, organizationID string) (store.State[domains.Template], error)
	Get(ctx context.Context, organizationID, id string) (domains.Template, error)
	Create(ctx context.Context, organizationID string, draft domains.TemplateCreate) (domains.Template, error)
	Update(ctx context.Context, organizationID, id string, patch domains.TemplateUpdate) (domains.Template, error)
	Delete(ctx context.Context, organizationID, id string) error
}

func NewTemplateHandlers(service TemplateServices) *TemplateHandlers {
	return &TemplateHandlers{
		service: service,
	}
}

func (h *TemplateHandlers) List(w http.ResponseWriter, r *http.Request) {
	state, err := h.service.List(r.Context(), httpx.OrganizationID(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, state)
}

func (h *TemplateHandlers) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.PathID(w, r)
	if !ok {
		return
	}
	template, err := h.service.Get(r.Context(), httpx.OrganizationID(r.Context()), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, template)
}

func (h *TemplateHandlers) Create(w http.ResponseWriter, r *http.Request) {
	templateData, err := httpx.ReadBody[domains.TemplateCreate](r)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := h.service.Create(r.Context(), httpx.OrganizationID(r.Context()), templateData)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *TemplateHandlers) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.PathID(w, r)
	if !ok {
		return
	}
	patch, err := httpx.ReadBody[domains.TemplateUpdate](r)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := h.service.Update(r.Context(), httpx.OrganizationID(r.Context()), id, patch)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, updated)
}

func (h *TemplateHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.PathID(w, r)
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), httpx.OrganizationID(r.Context()), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
