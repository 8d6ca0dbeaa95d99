package middleware

import (
	"context"
	"net/http"

	"github.com/jcastillo/fittrack/internal/api"
	"github.com/jcastillo/fittrack/internal/models"
)

// TokenHeader carries the bearer token on requests and on login/register
// responses.
const TokenHeader = "x-auth-token"

// TokenVerifier validates a token and returns the embedded user id.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// UserSource loads users by id.
type UserSource interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
}

type ctxKey struct{}

// UserFrom returns the authenticated user attached by RequireAuth, or nil.
func UserFrom(ctx context.Context) *models.User {
	u, _ := ctx.Value(ctxKey{}).(*models.User)
	return u
}

// RequireAuth validates the token header, re-verifies it on every request,
// re-fetches the user, and injects the full record into the request context.
// Nothing is cached across requests.
func RequireAuth(tokens TokenVerifier, users UserSource) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get(TokenHeader)
			if token == "" {
				api.Error(w, http.StatusUnauthorized, "No token, authorization denied")
				return
			}

			userID, err := tokens.Verify(token)
			if err != nil {
				api.Error(w, http.StatusUnauthorized, "Token is not valid")
				return
			}

			user, err := users.GetByID(r.Context(), userID)
			if err != nil {
				api.Error(w, http.StatusUnauthorized, "User no longer exists")
				return
			}

			ctx := context.WithValue(r.Context(), ctxKey{}, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin gates a route to admin users. Must run after RequireAuth.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := UserFrom(r.Context())
		if user == nil {
			api.Error(w, http.StatusUnauthorized, "No token, authorization denied")
			return
		}
		if !user.IsAdmin {
			api.Error(w, http.StatusForbidden, "Access denied. Admin privileges required.")
			return
		}
		next.ServeHTTP(w, r)
	})
}
