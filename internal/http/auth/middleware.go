package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/MrJamesThe3rd/billed/internal/bill"
	"github.com/MrJamesThe3rd/billed/internal/user"
)

type actorKey struct{}

// WithActor returns a copy of ctx carrying the authenticated caller.
func WithActor(ctx context.Context, a bill.Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, a)
}

func ActorFrom(ctx context.Context) (bill.Actor, bool) {
	a, ok := ctx.Value(actorKey{}).(bill.Actor)
	return a, ok
}

// Middleware rejects requests without a valid bearer token and stores the
// caller in the request context.
func Middleware(tokens *user.Tokens) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || raw == "" {
				http.Error(w, "missing bearer token", http.StatusUnauthorized)
				return
			}

			claims, err := tokens.Parse(raw)
			if err != nil {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}

			actor := bill.Actor{Email: claims.Email, Admin: claims.Type == user.TypeAdmin}

			next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
		})
	}
}
