package httptransport

import (
	"context"
	"net/http"

	"github.com/sofs91/InspectWise3.0/internal/domains"
	"github.com/sofs91/InspectWise3.0/internal/httpx"
)

type OrganizationHandlers struct {
	organizations OrganizationServices
	profiles      MemberServices
}

type OrganizationServices interface {
	Create(ctx context.Context, name string, userID string) (domains.Organization, error)
	Join(ctx context.Context, organizationID string, userID string) error
	Get(ctx context.Context, id string) (domains.Organization, error)
}

type MemberServices interface {
	Members(ctx context.Context, organizationID string) ([]domains.UserProfile, error)
}

func NewOrganizationHandlers(organizations OrganizationServices, profiles MemberServices) *OrganizationHandlers {
	return &OrganizationHandlers{organizations: organizations, profiles: profiles}
}

func (h *OrganizationHandlers) Create(w http.ResponseWriter, r *http.Request) {
	sub, ok := httpx.UserIDFromContext(r.Context())
	if !ok {
		httpx.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	body, err := httpx.ReadBody[OrganizationCreate](r)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	org, err := h.organizations.Create(r.Context(), body.Name, sub)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, org)
}

func (h *OrganizationHandlers) Join(w http.ResponseWriter, r *http.Request) {
	sub, ok := httpx.UserIDFromContext(r.Context())
	if !ok {
		httpx.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	id, ok := httpx.PathID(w, r)
	if !ok {
		return
	}

	if err := h.organizations.Join(r.Context(), id, sub); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Get only returns the caller's own organization.
func (h *OrganizationHandlers) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.PathID(w, r)
	if !ok {
		return
	}
	if id != httpx.OrganizationID(r.Context()) {
		httpx.Error(w, http.StatusNotFound, "Organization not found")
		return
	}

	org, err := h.organizations.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, org)
}

func (h *OrganizationHandlers) Members(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.PathID(w, r)
	if !ok {
		return
	}
	if id != httpx.OrganizationID(r.Context()) {
		httpx.Error(w, http.StatusNotFound, "Organization not found")
		return
	}

	members, err := h.profiles.Members(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, members)
}
