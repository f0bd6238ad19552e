package managers

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"dev-castle-server/internal/schemas"
)

const feedCacheKey = "feed:posts"
const feedCacheTTL = 30 * time.Second

// CacheMgr is a best-effort read-through cache for the post feed. A cache
// failure is never surfaced to the caller, the store remains the source of
// truth. Embedded-list mutations (likes, comments) are covered by the short
// TTL rather than by invalidation.
type CacheMgr interface {
	GetFeed(ctx context.Context) ([]schemas.Post, bool)
	SetFeed(ctx context.Context, posts []schemas.Post)
	InvalidateFeed(ctx context.Context)
}

// RedisCacheManager caches the feed in Redis as a single JSON value.
type RedisCacheManager struct {
	Client *redis.Client
}

func (cm *RedisCacheManager) GetFeed(ctx context.Context) ([]schemas.Post, bool) {
	payload, err := cm.Client.Get(ctx, feedCacheKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Warn("Feed cache read failed: ", err)
		}
		return nil, false
	}

	var posts []schemas.Post
	if err := json.Unmarshal(payload, &posts); err != nil {
		log.Warn("Feed cache payload corrupt: ", err)
		return nil, false
	}

	return posts, true
}

func (cm *RedisCacheManager) SetFeed(ctx context.Context, posts []schemas.Post) {
	payload, err := json.Marshal(posts)
	if err != nil {
		log.Warn("Feed cache encode failed: ", err)
		return
	}

	if err := cm.Client.Set(ctx, feedCacheKey, payload, feedCacheTTL).Err(); err != nil {
		log.Warn("Feed cache write failed: ", err)
	}
}

func (cm *RedisCacheManager) InvalidateFeed(ctx context.Context) {
	if err := cm.Client.Del(ctx, feedCacheKey).Err(); err != nil {
		log.Warn("Feed cache invalidation failed: ", err)
	}
}

// NoopCacheManager is used when no Redis instance is configured.
type NoopCacheManager struct{}

func (cm *NoopCacheManager) GetFeed(context.Context) ([]schemas.Post, bool) { return nil, false }
func (cm *NoopCacheManager) SetFeed(context.Context, []schemas.Post)        {}
func (cm *NoopCacheManager) InvalidateFeed(context.Context)                 {}

// NewCacheManager creates a Redis-backed cache when REDIS_URL is set and a
// no-op cache otherwise, so the server runs without Redis.
func NewCacheManager() CacheMgr {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		log.Info("REDIS_URL not set, feed caching disabled")
		return &NoopCacheManager{}
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Warn("Invalid REDIS_URL, feed caching disabled: ", err)
		return &NoopCacheManager{}
	}

	log.Info("Initializing feed cache")
	return &RedisCacheManager{Client: redis.NewClient(opts)}
}
