package service

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// BadgeCache keeps each user's total unread-message count in Redis so
// the navbar badge doesn't re-run the per-conversation counts on every
// poll. Entries are invalidated on message insert and read-cursor
// advance; a short TTL bounds staleness if an invalidation is missed.
// A nil *BadgeCache disables caching entirely.
type BadgeCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewBadgeCache(rdb *redis.Client, ttl time.Duration) *BadgeCache {
	if rdb == nil {
		return nil
	}
	return &BadgeCache{rdb: rdb, ttl: ttl}
}

func badgeKey(userID uint) string { return fmt.Sprintf("badge:%d", userID) }

func (c *BadgeCache) Get(ctx context.Context, userID uint) (int64, bool) {
	if c == nil {
		return 0, false
	}
	n, err := c.rdb.Get(ctx, badgeKey(userID)).Int64()
	if err != nil {
		return 0, false
	}
	return n, true
}

func (c *BadgeCache) Set(ctx context.Context, userID uint, count int64) {
	if c == nil {
		return
	}
	c.rdb.Set(ctx, badgeKey(userID), count, c.ttl)
}

func (c *BadgeCache) Invalidate(ctx context.Context, userID uint) {
	if c == nil {
		return
	}
	c.rdb.Del(ctx, badgeKey(userID))
}
