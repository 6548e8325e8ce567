package identity

import (
	"context"
	"net/http"

	"blog-platform/internal/auth"
	"blog-platform/internal/domain/models"
	resp "blog-platform/internal/lib/api/response"

	"github.com/go-chi/jwtauth/v5"
	"github.com/go-chi/render"
)

type contextKey struct{}

var userKey contextKey

// Middleware runs after the jwtauth verifier: it takes the verified token's
// subject, resolves it to a stored user and puts the user into the request
// context. Any failure answers a uniform 401.
func Middleware(resolver *auth.Resolver) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, claims, err := jwtauth.FromContext(r.Context())
			if err != nil {
				unauthenticated(w, r)
				return
			}

			subject, ok := claims["sub"].(string)
			if !ok || subject == "" {
				unauthenticated(w, r)
				return
			}

			user, err := resolver.ResolveSubject(r.Context(), subject)
			if err != nil {
				unauthenticated(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CurrentUser returns the user resolved by Middleware.
func CurrentUser(ctx context.Context) (models.User, bool) {
	user, ok := ctx.Value(userKey).(models.User)
	return user, ok
}

func unauthenticated(w http.ResponseWriter, r *http.Request) {
	render.Status(r, http.StatusUnauthorized)
	render.JSON(w, r, resp.Err("unauthenticated"))
}
