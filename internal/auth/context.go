package auth

import "context"

// Actor is the immutable authenticated context handed to guarded handlers.
// Admin is nil when the route only required authentication.
type Actor struct {
	Identity Identity
	Admin    *AdminRecord
}

type actorContextKey struct{}

// ContextWithActor stores the actor in context.
func ContextWithActor(ctx context.Context, actor *Actor) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

// ActorFromContext extracts the actor from context, nil when absent.
func ActorFromContext(ctx context.Context) *Actor {
	actor, _ := ctx.Value(actorContextKey{}).(*Actor)
	return actor
}
