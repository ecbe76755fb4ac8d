package httpx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/sofs91/InspectWise3.0/internal/domains"
)

const profileContextKey contextKey = "profile"

type ProfileLoader interface {
	Profile(ctx context.Context, id string) (domains.UserProfile, error)
}

// Profile loads the authenticated user's profile into the request context.
// It must run after Protected.
func Profile(loader ProfileLoader) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sub, ok := UserIDFromContext(r.Context())
			if !ok {
				Error(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			profile, err := loader.Profile(r.Context(), sub)
			if err != nil {
				slog.Warn("profile lookup failed", "user_id", sub, "err", err)
				Error(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithProfile(r.Context(), profile)))
		})
	}
}

// RequireOrganization rejects users who have not created or joined an organization yet.
func RequireOrganization(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		profile, ok := ProfileFromContext(r.Context())
		if !ok {
			Error(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		if profile.OrganizationID == nil || *profile.OrganizationID == "" {
			Error(w, http.StatusForbidden, "Organization setup required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func WithProfile(ctx context.Context, profile domains.UserProfile) context.Context {
	return context.WithValue(ctx, profileContextKey, profile)
}

func ProfileFromContext(ctx context.Context) (domains.UserProfile, bool) {
	profile, ok := ctx.Value(profileContextKey).(domains.UserProfile)
	return profile, ok
}

// OrganizationID is the current user's organization, empty when unset.
func OrganizationID(ctx context.Context) string {
	profile, ok := ProfileFromContext(ctx)
	if !ok || profile.OrganizationID == nil {
		return ""
	}
	return *profile.OrganizationID
}
