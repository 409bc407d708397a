package middleware

import (
	"context"
	"net/http"

	"github.com/brightvolt/backoffice-backend/pkg/logger"
)

const actorIDHeader = "X-Actor-Id"

type actorKey struct{}

// Actor extracts the X-Actor-Id header into the request context. The actor is
// recorded as the performer on stock transactions; this layer does not
// authenticate it.
func Actor(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor := r.Header.Get(actorIDHeader)
			ctx := r.Context()
			if actor != "" {
				ctx = context.WithValue(ctx, actorKey{}, actor)
				if logg != nil {
					ctx = logg.WithActorID(ctx, actor)
				}
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ActorFrom returns the actor recorded on the context, if any.
func ActorFrom(ctx context.Context) string {
	actor, _ := ctx.Value(actorKey{}).(string)
	return actor
}
