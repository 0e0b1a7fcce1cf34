package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"alphaDash/internal/session"
)

func newTestCache(t *testing.T, ttl time.Duration) (*SessionCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return &SessionCache{RDB: rdb, TTL: ttl}, mr
}

func TestSessionKey(t *testing.T) {
	require.Equal(t, "alpha:session:abc", sessionKey("abc"))
}

func TestSessionCacheSaveLoadClear(t *testing.T) {
	ctx := context.Background()
	cache, mr := newTestCache(t, time.Hour)

	values := map[string]string{session.KeyToken: "acc", session.KeyAlpha: `{"_id":"a1"}`}
	require.NoError(t, cache.Save(ctx, "s1", values))
	require.Equal(t, time.Hour, mr.TTL(sessionKey("s1")))

	got, err := cache.Load(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, values, got)

	require.NoError(t, cache.Clear(ctx, "s1"))
	got, err = cache.Load(ctx, "s1")
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestSessionCacheExpires(t *testing.T) {
	ctx := context.Background()
	cache, mr := newTestCache(t, time.Minute)

	require.NoError(t, cache.Save(ctx, "s1", map[string]string{session.KeyToken: "acc"}))
	mr.FastForward(2 * time.Minute)

	got, err := cache.Load(ctx, "s1")
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestSessionCacheUpdate(t *testing.T) {
	ctx := context.Background()
	cache, mr := newTestCache(t, time.Hour)

	err := cache.Update(ctx, "gone", map[string]string{session.KeyToken: "acc"})
	require.ErrorIs(t, err, session.ErrNotStored)
	require.False(t, mr.Exists(sessionKey("gone")))

	require.NoError(t, cache.Save(ctx, "s1", map[string]string{session.KeyToken: "acc", session.KeyAlpha: "{}"}))
	mr.FastForward(30 * time.Minute)

	require.NoError(t, cache.Update(ctx, "s1", map[string]string{session.KeyAlpha: `{"_id":"a1"}`}))
	require.Equal(t, time.Hour, mr.TTL(sessionKey("s1")))
	require.Equal(t, `{"_id":"a1"}`, mr.HGet(sessionKey("s1"), session.KeyAlpha))
	require.Equal(t, "acc", mr.HGet(sessionKey("s1"), session.KeyToken))
}
