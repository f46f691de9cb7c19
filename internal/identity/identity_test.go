package identity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestActorFromContext(t *testing.T) {
	assert.Equal(t, Anonymous, ActorFromContext(context.Background()))
	assert.Equal(t, Anonymous, ActorFromContext(WithActor(context.Background(), "")))
	assert.Equal(t, "u-1", ActorFromContext(WithActor(context.Background(), "u-1")))
	assert.Equal(t, "42", ActorFromContext(WithUserID(context.Background(), 42)))
}

func TestProviders(t *testing.T) {
	ctx := WithActor(context.Background(), "manager")
	assert.Equal(t, "manager", ContextProvider{}.CurrentActorID(ctx))
	assert.Equal(t, "seed", Fixed("seed").CurrentActorID(ctx))
	assert.Equal(t, Anonymous, Fixed("").CurrentActorID(ctx))
}
