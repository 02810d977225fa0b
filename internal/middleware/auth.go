// Package middleware provides HTTP middleware for taskhive.
package middleware

import (
	"context"
	"net/http"

	"github.com/taskhive/taskhive/internal/domain/access"
	"github.com/taskhive/taskhive/internal/service"
)

type actorCtxKey struct{}

// publicPaths are exempt from authentication.
var publicPaths = map[string]bool{
	"/health":               true,
	"/api/v1/auth/register": true,
	"/api/v1/auth/login":    true,
}

// Auth returns middleware that resolves the Authorization header to an
// actor and stores it in the request context. Requests to public paths
// pass through untouched; everything else without a valid bearer token
// gets a 401.
func Auth(ac *service.AccessController) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if publicPaths[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			actor, err := ac.Authenticate(r.Header.Get("Authorization"))
			if err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"authentication required"}`))
				return
			}

			ctx := context.WithValue(r.Context(), actorCtxKey{}, actor)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ActorFromContext returns the authenticated actor, or nil outside the
// Auth middleware.
func ActorFromContext(ctx context.Context) *access.Actor {
	actor, _ := ctx.Value(actorCtxKey{}).(*access.Actor)
	return actor
}
