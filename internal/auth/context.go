package auth

import (
	"context"

	"github.com/google/uuid"
)

// Actor is the authenticated identity behind a request. The engine never
// reads ambient state; handlers extract the actor and pass it in explicitly.
type Actor struct {
	UserID uuid.UUID
	Email  string
}

type actorKey struct{}

func ContextWithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, a)
}

func ActorFromContext(ctx context.Context) (Actor, bool) {
	a, ok := ctx.Value(actorKey{}).(Actor)
	return a, ok
}
