package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
)

type contextKey string

const userIDContextKey contextKey = "userID"

// Authenticator resolves an access token to a user id.
type Authenticator interface {
	Authenticate(accessToken string) (string, error)
}

// Protected requires a valid bearer access token. EventSource clients cannot
// set headers, so an access_token query parameter is accepted as well.
func Protected(auth Authenticator) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := bearerToken(r)
			if tokenString == "" {
				Error(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			sub, err := auth.Authenticate(tokenString)
			if err != nil {
				Error(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			ctx := WithUserID(r.Context(), sub)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	}
	return r.URL.Query().Get("access_token")
}

func WithUserID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, userIDContextKey, id)
}

func UserIDFromContext(ctx context.Context) (string, bool) {
	sub, ok := ctx.Value(userIDContextKey).(string)
	return sub, ok && sub != ""
}
