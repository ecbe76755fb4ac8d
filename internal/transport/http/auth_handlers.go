package httptransport

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/sofs91/InspectWise3.0/internal/domains"
	"github.com/sofs91/InspectWise3.0/internal/httpx"
	"github.com/sofs91/InspectWise3.0/internal/service"
)

const refreshCookie = "refreshToken"

type AuthHandlers struct {
	service AuthServices
}

type AuthServices interface {
	Register(ctx context.Context, user domains.Registration) (domains.UserProfile, error)
	Login(ctx context.Context, email string, password string) (service.Tokens, error)
	Refresh(ctx context.Context, token string) (service.Tokens, error)
	Me(ctx context.Context, userID string) (domains.UserProfile, error)
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token string, newPassword string) error
}

func NewAuthHandlers(service AuthServices) *AuthHandlers {
	return &AuthHandlers{
		service: service,
	}
}

func (h *AuthHandlers) Register(w http.ResponseWriter, r *http.Request) {
	userData, err := httpx.ReadBody[domains.Registration](r)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	profile, err := h.service.Register(r.Context(), userData)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, profile)
}

func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	loginData, err := httpx.ReadBody[LoginData](r)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	tokens, err := h.service.Login(r.Context(), loginData.Email, loginData.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	setRefreshCookie(w, tokens.RefreshToken)
	httpx.JSON(w, http.StatusOK, tokens)
}

// Refresh takes the refresh token from the cookie, falling back to the body.
func (h *AuthHandlers) Refresh(w http.ResponseWriter, r *http.Request) {
	token := ""
	if c, err := r.Cookie(refreshCookie); err == nil {
		token = c.Value
	}
	if token == "" {
		body, err := httpx.ReadBody[TokenRefreshRequest](r)
		if err != nil && !errors.Is(err, io.EOF) {
			httpx.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		token = body.RefreshToken
	}
	if token == "" {
		httpx.Error(w, http.StatusBadRequest, "Refresh token is required")
		return
	}

	tokens, err := h.service.Refresh(r.Context(), token)
	if err != nil {
		writeError(w, r, err)
		return
	}
	setRefreshCookie(w, tokens.RefreshToken)
	httpx.JSON(w, http.StatusOK, tokens)
}

func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandlers) Me(w http.ResponseWriter, r *http.Request) {
	sub, ok := httpx.UserIDFromContext(r.Context())
	if !ok {
		httpx.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	user, err := h.service.Me(r.Context(), sub)
	if err != nil {
		httpx.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	httpx.JSON(w, http.StatusOK, user)
}

func (h *AuthHandlers) RequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	body, err := httpx.ReadBody[PasswordResetRequest](r)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.service.RequestPasswordReset(r.Context(), body.Email); err != nil {
		slog.Error("password reset request failed", "err", err)
		httpx.Error(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func (h *AuthHandlers) ResetPassword(w http.ResponseWriter, r *http.Request) {
	body, err := httpx.ReadBody[PasswordResetConfirm](r)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.service.ResetPassword(r.Context(), body.Token, body.Password); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func setRefreshCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   60 * 60 * 24 * 7,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
