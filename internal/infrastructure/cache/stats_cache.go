package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/adhd-helper/pkg/helpers"
)

// RedisStats keeps one hash per user and stats kind; fields are query variants
// such as the window in days, so a write can drop every variant at once.
type RedisStats struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStats(rdb *redis.Client, ttl time.Duration) *RedisStats {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &RedisStats{rdb: rdb, ttl: ttl}
}

func statsKey(userID, kind string) string {
	return "stats:" + kind + ":" + userID
}

func (c *RedisStats) Load(ctx context.Context, userID, kind, variant string, dest any) (bool, error) {
	return helpers.RedisHGetJSON(ctx, c.rdb, statsKey(userID, kind), variant, dest)
}

func (c *RedisStats) Store(ctx context.Context, userID, kind, variant string, v any) error {
	return helpers.RedisHSetJSON(ctx, c.rdb, statsKey(userID, kind), variant, v, c.ttl)
}

func (c *RedisStats) Invalidate(ctx context.Context, userID, kind string) error {
	return helpers.RedisDel(ctx, c.rdb, statsKey(userID, kind))
}
