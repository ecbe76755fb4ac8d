package httptransport

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/sofs91/InspectWise3.0/internal/httpx"
	"github.com/sofs91/InspectWise3.0/internal/service"
	"github.com/sofs91/InspectWise3.0/internal/storage"
)

// writeError maps service and storage errors to responses. Validation
// messages are returned to the client, anything unexpected is logged.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrValidation), errors.Is(err, service.ErrRequiredQuestionsMissing):
		httpx.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrPasswordIncorrect):
		httpx.Error(w, http.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, storage.ErrUserNotFound):
		httpx.Error(w, http.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, service.ErrTokenIncorrect):
		httpx.Error(w, http.StatusUnauthorized, "Token is incorrect")
	case errors.Is(err, service.ErrNoOrganization):
		httpx.Error(w, http.StatusForbidden, "Organization setup required")
	case errors.Is(err, service.ErrAlreadyInOrganization):
		httpx.Error(w, http.StatusConflict, "You already belong to an organization")
	case errors.Is(err, storage.ErrUserExist):
		httpx.Error(w, http.StatusConflict, "User already exists")
	case errors.Is(err, storage.ErrConflict):
		httpx.Error(w, http.StatusConflict, "Conflict")
	case errors.Is(err, service.ErrOrganizationNotFound):
		httpx.Error(w, http.StatusNotFound, "Organization not found")
	case errors.Is(err, service.ErrTemplateNotFound):
		httpx.Error(w, http.StatusNotFound, "Template not found")
	case errors.Is(err, service.ErrConfigurationNotFound):
		httpx.Error(w, http.StatusNotFound, "Configuration not found")
	case errors.Is(err, service.ErrInspectionNotFound):
		httpx.Error(w, http.StatusNotFound, "Inspection not found")
	case errors.Is(err, storage.ErrNotFound):
		httpx.Error(w, http.StatusNotFound, "Not found")
	default:
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path,
			"request_id", httpx.GetRequestID(r.Context()), "err", err)
		httpx.Error(w, http.StatusInternalServerError, "Internal server error")
	}
}
