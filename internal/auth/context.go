package auth

import (
	"context"

	"github.com/newsroom-cms/api/internal/policy"
)

type actorKey struct{}

// WithActor returns a copy of ctx carrying actor
func WithActor(ctx context.Context, actor policy.Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFrom returns the actor stored in ctx, if any
func ActorFrom(ctx context.Context) (policy.Actor, bool) {
	actor, ok := ctx.Value(actorKey{}).(policy.Actor)
	return actor, ok
}
