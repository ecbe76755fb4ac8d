package httptransport

import (
	"context"
	"net/http"

	"github.com/sofs91/InspectWise3.0/internal/domains"
	"github.com/sofs91/InspectWise3.0/internal/httpx"
	"github.com/sofs91/InspectWise3.0/internal/store"
)

type ConfigurationHandlers struct {
	service ConfigurationServices
}

type ConfigurationServices interface {
	List(ctx context.Context, organizationID string) (store.State[domains.Configuration], error)
	Get(ctx context.Context, organizationID, id string) (domains.Configuration, error)
	Create(ctx context.Context, organizationID string, draft domains.ConfigurationCreate) (domains.Configuration, error)
	Update(ctx context.Context, organizationID, id string, patch domains.ConfigurationUpdate) (domains.Configuration, error)
	Delete(ctx context.Context, organizationID, id string) error
}

func NewConfigurationHandlers(service ConfigurationServices) *ConfigurationHandlers {
	return &ConfigurationHandlers{service: service}
}

func (h *ConfigurationHandlers) List(w http.ResponseWriter, r *http.Request) {
	state, err := h.service.List(r.Context(), httpx.OrganizationID(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, state)
}

func (h *ConfigurationHandlers) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.PathID(w, r)
	if !ok {
		return
	}
	c, err := h.service.Get(r.Context(), httpx.OrganizationID(r.Context()), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, c)
}

func (h *ConfigurationHandlers) Create(w http.ResponseWriter, r *http.Request) {
	draft, err := httpx.ReadBody[domains.ConfigurationCreate](r)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	created, err := h.service.Create(r.Context(), httpx.OrganizationID(r.Context()), draft)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *ConfigurationHandlers) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.PathID(w, r)
	if !ok {
		return
	}
	patch, err := httpx.ReadBody[domains.ConfigurationUpdate](r)
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

func (h *ConfigurationHandlers) Delete(w http.ResponseWriter, r *http.Request) {
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
