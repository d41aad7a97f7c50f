package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Key prefixes for cached counters.
const (
	FollowersCountKey = "user:followers:count:"
	FollowingCountKey = "user:following:count:"
	PostLikesCountKey = "post:likes:count:"
)

const counterTTL = time.Hour

// CounterCache is a best-effort read-side cache for derived counters.
// The backing tables stay the source of truth: a miss or an unreachable
// Redis simply falls through to a recomputation, and every mutation
// invalidates the affected keys synchronously.
type CounterCache struct {
	client *redis.Client
}

// NewCounterCache wraps a Redis client. A nil client disables caching.
func NewCounterCache(client *redis.Client) *CounterCache {
	return &CounterCache{client: client}
}

// GetInt64 returns the cached counter and whether it was present
func (c *CounterCache) GetInt64(ctx context.Context, key string) (int64, bool) {
	if c == nil || c.client == nil {
		return 0, false
	}
	val, err := c.client.Get(ctx, key).Int64()
	if err != nil {
		return 0, false
	}
	return val, true
}

// SetInt64 stores a recomputed counter with a TTL
func (c *CounterCache) SetInt64(ctx context.Context, key string, value int64) {
	if c == nil || c.client == nil {
		return
	}
	c.client.Set(ctx, key, value, counterTTL)
}

// Invalidate drops the given counter keys
func (c *CounterCache) Invalidate(ctx context.Context, keys ...string) {
	if c == nil || c.client == nil || len(keys) == 0 {
		return
	}
	c.client.Del(ctx, keys...)
}

// UserCounterKeys returns the follower and following counter keys for a user
func UserCounterKeys(userID uint) (followersKey, followingKey string) {
	return fmt.Sprintf("%s%d", FollowersCountKey, userID), fmt.Sprintf("%s%d", FollowingCountKey, userID)
}

// PostLikesKey returns the like counter key for a post
func PostLikesKey(postID string) string {
	return PostLikesCountKey + postID
}
