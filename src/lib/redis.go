package lib

import (
	"context"
	"log"
	"os"

	"github.com/redis/go-redis/v9"
)

var redisClient *redis.Client

func GetRedisClient() *redis.Client {
	if redisClient != nil {
		return redisClient
	}
	redisHost := os.Getenv("REDIS_HOST")
	opt, err := redis.ParseURL(redisHost)
	if err != nil {
		log.Printf("[redis] Error parsing connection string: %s\n", err.Error())
		return nil
	}
	rdb := redis.NewClient(opt)
	redisClient = rdb
	return rdb
}

// NewRedisClient Replace redis instance with custom client implementation
func NewRedisClient(c *redis.Client) *redis.Client {
	redisClient = c
	return redisClient
}

// MarkProviderEventSeen records a provider event id and reports whether it
// was already seen. Reconciliation stays idempotent without this; the key
// only short-circuits obvious duplicates, so a nil client is fine.
func MarkProviderEventSeen(ctx context.Context, eventID string) bool {
	rdb := GetRedisClient()
	if rdb == nil {
		return false
	}
	set, err := rdb.SetNX(ctx, "stripe:event:"+eventID, 1, 0).Result()
	if err != nil {
		log.Printf("[redis] Error recording provider event %s: %s\n", eventID, err.Error())
		return false
	}
	return !set
}
