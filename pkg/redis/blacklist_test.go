package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryBlacklist(t *testing.T) {
	ctx := context.Background()
	clock := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	bl := NewMemoryBlacklist()
	bl.now = func() time.Time { return clock }

	require.NoError(t, bl.Revoke(ctx, "jti-1", time.Minute))
	require.NoError(t, bl.Revoke(ctx, "jti-expired", 0))

	revoked, err := bl.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, _ = bl.IsRevoked(ctx, "jti-expired")
	assert.False(t, revoked, "zero ttl is not stored")

	revoked, _ = bl.IsRevoked(ctx, "unknown")
	assert.False(t, revoked)

	clock = clock.Add(2 * time.Minute)
	revoked, _ = bl.IsRevoked(ctx, "jti-1")
	assert.False(t, revoked, "entry lapses with the token")
}

func TestBlacklistImplementations(t *testing.T) {
	var _ Blacklist = NewMemoryBlacklist()
	var _ Blacklist = (*RedisBlacklist)(nil)
}
