package client

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// InitRedisClient returns nil when redis is unreachable; callers fall
// back to process-local alternatives.
func InitRedisClient(addr string) *redis.Client {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Println("redis not reachable, OTP rate limiting degrades to in-memory:", err)
		return nil
	}

	return rdb
}
