// Package identity resolves who is performing a request. Audit stamps and
// stage history use the actor id; an unauthenticated caller is "anonymous".
package identity

import (
	"context"
	"strconv"
)

const Anonymous = "anonymous"

type actorKey struct{}

// Provider yields the current actor id for a context.
type Provider interface {
	CurrentActorID(ctx context.Context) string
}

// WithActor stores the actor id on the context.
func WithActor(ctx context.Context, actorID string) context.Context {
	return context.WithValue(ctx, actorKey{}, actorID)
}

// WithUserID stores a numeric user id as the actor.
func WithUserID(ctx context.Context, userID uint) context.Context {
	return WithActor(ctx, strconv.FormatUint(uint64(userID), 10))
}

// ActorFromContext returns the stored actor id or Anonymous.
func ActorFromContext(ctx context.Context) string {
	if ctx == nil {
		return Anonymous
	}
	if id, ok := ctx.Value(actorKey{}).(string); ok && id != "" {
		return id
	}
	return Anonymous
}

// ContextProvider reads the actor placed on the context by the auth middleware.
type ContextProvider struct{}

func (ContextProvider) CurrentActorID(ctx context.Context) string {
	return ActorFromContext(ctx)
}

// Fixed always returns the same actor; used by jobs and the seeder.
type Fixed string

func (f Fixed) CurrentActorID(context.Context) string {
	if f == "" {
		return Anonymous
	}
	return string(f)
}
