package auth

import (
	"context"
	"net/http"
	"strings"

	"authgate/internal/httputil"
	"authgate/internal/user"
)

// ContextKey is a type for context keys to avoid collisions
type ContextKey string

const UserContextKey ContextKey = "auth_user"

// Middleware guards protected routes. A request either comes out the
// other side with the resolved user in its context, or is rejected
// with a 401 whose body never reveals which check failed.
type Middleware struct {
	service *Service
}

func NewMiddleware(service *Service) *Middleware {
	return &Middleware{service: service}
}

// RequireAuth extracts the bearer token, resolves it to a user, and
// attaches the user to the request context. Missing header, malformed
// header, and invalid token all short-circuit with the same response.
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			rejectRequest(w)
			return
		}

		u, err := m.service.ResolveFromToken(r.Context(), token)
		if err != nil {
			rejectRequest(w)
			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, u)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}

	return parts[1], true
}

func rejectRequest(w http.ResponseWriter) {
	httputil.RespondError(w, "invalid token", http.StatusUnauthorized)
}

// UserFromContext extracts the authenticated user from the request
// context.
func UserFromContext(ctx context.Context) (*user.User, bool) {
	u, ok := ctx.Value(UserContextKey).(*user.User)
	return u, ok
}
