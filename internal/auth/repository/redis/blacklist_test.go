package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i-himanshu29/Authentication-System/internal/auth/repository/redis"
)

func newBlacklistStore(t *testing.T) (*redis.BlacklistStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return redis.NewBlacklistStore(client), mr
}

func TestBlacklistInsertAndExists(t *testing.T) {
	store, _ := newBlacklistStore(t)
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, "access-token", "user-123", time.Now().Add(10*time.Minute)))

	found, err := store.Exists(ctx, "access-token")
	require.NoError(t, err)
	assert.True(t, found)

	found, err = store.Exists(ctx, "other-token")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestBlacklistEntryExpiresWithToken(t *testing.T) {
	store, mr := newBlacklistStore(t)
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, "access-token", "user-123", time.Now().Add(5*time.Minute)))

	mr.FastForward(5*time.Minute + time.Second)

	found, err := store.Exists(ctx, "access-token")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestBlacklistAlreadyExpiredTokenIsNoOp(t *testing.T) {
	store, _ := newBlacklistStore(t)
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, "stale-token", "user-123", time.Now().Add(-time.Minute)))

	found, err := store.Exists(ctx, "stale-token")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestBlacklistTokensDoNotCollide(t *testing.T) {
	store, _ := newBlacklistStore(t)
	ctx := context.Background()
	expiresAt := time.Now().Add(10 * time.Minute)

	require.NoError(t, store.Insert(ctx, "token-a", "user-1", expiresAt))
	require.NoError(t, store.Insert(ctx, "token-b", "user-2", expiresAt))

	found, err := store.Exists(ctx, "token-a")
	require.NoError(t, err)
	assert.True(t, found)

	found, err = store.Exists(ctx, "token-b")
	require.NoError(t, err)
	assert.True(t, found)
}
