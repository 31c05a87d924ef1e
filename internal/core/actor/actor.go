// Package actor carries the identity of the user performing a request.
// The ID travels in context.Context from the HTTP layer down to the
// services, so there is no "current user" global anywhere.
package actor

import (
	"context"
)

// Actor identifies who initiated an operation.
type Actor struct {
	ID       string
	Username string
}

type actorKey struct{}

// System is the actor recorded for operations with no request context
// (seeding, maintenance jobs).
var System = Actor{ID: "system", Username: "system"}

// WithActor returns a context carrying the given actor.
func WithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, a)
}

// FromContext returns the actor from context, or the zero Actor if
// none was set.
func FromContext(ctx context.Context) Actor {
	if a, ok := ctx.Value(actorKey{}).(Actor); ok {
		return a
	}
	return Actor{}
}

// IDFromContext returns the actor ID from context or empty string.
func IDFromContext(ctx context.Context) string {
	return FromContext(ctx).ID
}
