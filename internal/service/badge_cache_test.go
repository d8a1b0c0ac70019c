package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBadgeCacheForTest(t *testing.T) (*BadgeCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewBadgeCache(rdb, 5*time.Minute), mr
}

func TestBadgeCache(t *testing.T) {
	ctx := context.Background()

	t.Run("MissThenHit", func(t *testing.T) {
		cache, _ := newBadgeCacheForTest(t)
		_, ok := cache.Get(ctx, 1)
		assert.False(t, ok)
		cache.Set(ctx, 1, 7)
		n, ok := cache.Get(ctx, 1)
		assert.True(t, ok)
		assert.Equal(t, int64(7), n)
	})

	t.Run("InvalidateDropsTheEntry", func(t *testing.T) {
		cache, _ := newBadgeCacheForTest(t)
		cache.Set(ctx, 2, 3)
		cache.Invalidate(ctx, 2)
		_, ok := cache.Get(ctx, 2)
		assert.False(t, ok)
	})

	t.Run("EntriesExpire", func(t *testing.T) {
		cache, mr := newBadgeCacheForTest(t)
		cache.Set(ctx, 3, 1)
		mr.FastForward(6 * time.Minute)
		_, ok := cache.Get(ctx, 3)
		assert.False(t, ok)
	})

	t.Run("NilCacheIsANoop", func(t *testing.T) {
		var cache *BadgeCache
		_, ok := cache.Get(ctx, 4)
		assert.False(t, ok)
		cache.Set(ctx, 4, 9)
		cache.Invalidate(ctx, 4)
	})
}

func TestUnreadBadgeUsesCache(t *testing.T) {
	db := newTestDB(t)
	cache, mr := newBadgeCacheForTest(t)
	svc := newChatServiceForTest(t, db)
	svc.badge = cache

	alice := seedUser(t, db, "alice@test.local", "Alice")
	bob := seedUser(t, db, "bob@test.local", "Bob")
	conv, _, err := svc.StartConversation(alice.ID, bob.ID, nil)
	require.NoError(t, err)
	seedMessage(t, db, conv.ID, bob.ID, "hi", time.Now().Add(-time.Minute))

	n, err := svc.UnreadBadge(alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	// second read is served from the cache
	require.True(t, mr.Exists(fmt.Sprintf("badge:%d", alice.ID)))
	n, err = svc.UnreadBadge(alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	// marking read invalidates and recomputes to zero
	require.NoError(t, svc.MarkRead(conv.ID, alice.ID))
	n, err = svc.UnreadBadge(alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}
