package cache

import (
	"context"
	"os"
	"time"

	"github.com/jomonde/the-ammo-guys-lite/utils"

	"github.com/redis/go-redis/v9"
)

var client *redis.Client

// InitRedis connects the optional webhook de-duplication cache. The reconciler
// is idempotent either way, so the service runs without it and a missing or
// unreachable Redis only logs a notice.
func InitRedis() {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		utils.LogInfo("REDIS_ADDR not set, webhook de-duplication disabled")
		return
	}

	c := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := c.Ping(ctx).Err(); err != nil {
		utils.LogError(err, "Redis unreachable, webhook de-duplication disabled")
		return
	}

	client = c
	utils.LogSuccess("Redis connection successful")
}

// GetClient returns the shared Redis client, or nil when the cache is
// disabled.
func GetClient() *redis.Client {
	return client
}

const eventKeyPrefix = "stripe:event:"

// SeenEvent reports whether the given Stripe event ID was already fully
// processed. Cache errors count as unseen so a delivery is never dropped
// because of the cache.
func SeenEvent(ctx context.Context, eventID string) bool {
	if client == nil || eventID == "" {
		return false
	}
	n, err := client.Exists(ctx, eventKeyPrefix+eventID).Result()
	if err != nil {
		utils.LogError(err, "Redis lookup failed for event "+eventID)
		return false
	}
	return n > 0
}

// MarkEventProcessed records a fully processed Stripe event ID. Called only
// after the reconciler succeeds, so a failed delivery stays retryable.
func MarkEventProcessed(ctx context.Context, eventID string, ttl time.Duration) {
	if client == nil || eventID == "" {
		return
	}
	if err := client.Set(ctx, eventKeyPrefix+eventID, 1, ttl).Err(); err != nil {
		utils.LogError(err, "Redis write failed for event "+eventID)
	}
}
