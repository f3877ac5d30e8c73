package middleware

import (
	"context"
	"net/http"
	"strings"

	"folha/internal/domain/auth"
	"folha/internal/requestctx"
	"folha/internal/transport/http/api"
)

type ctxKey string

const ctxKeyActor ctxKey = "actor"

// Auth parses a bearer token into the request context. Requests without a
// valid token pass through unauthenticated; route guards decide access.
func Auth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(w, r)
				return
			}
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := auth.ParseToken(secret, parts[1])
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			actor := auth.Actor{
				Role:         claims.Role,
				WorksiteID:   claims.WorksiteID,
				WorksiteName: claims.WorksiteName,
			}
			ctx := context.WithValue(r.Context(), ctxKeyActor, actor)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetActor(ctx context.Context) (auth.Actor, bool) {
	actor, ok := ctx.Value(ctxKeyActor).(auth.Actor)
	return actor, ok
}

// WithActor is used by handler tests to seed an authenticated context.
func WithActor(ctx context.Context, actor auth.Actor) context.Context {
	return context.WithValue(ctx, ctxKeyActor, actor)
}

// RequireActor rejects unauthenticated requests.
func RequireActor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetActor(r.Context()); !ok {
			api.Fail(w, http.StatusUnauthorized, "AUTH_ERROR", "login required", requestctx.GetRequestID(r.Context()))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAuditor rejects everything but the auditor.
func RequireAuditor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := GetActor(r.Context())
		if !ok {
			api.Fail(w, http.StatusUnauthorized, "AUTH_ERROR", "login required", requestctx.GetRequestID(r.Context()))
			return
		}
		if !actor.IsAuditor() {
			api.Fail(w, http.StatusForbidden, "AUTH_ERROR", "auditor access required", requestctx.GetRequestID(r.Context()))
			return
		}
		next.ServeHTTP(w, r)
	})
}
