package utils

import (
	"context"
	"fmt"
	"time"

	"github.com/Riyasingh139/DigitalReviverBackend/internal/config"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient creates a new Redis client and checks the connection
func NewRedisClient(cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		Username: cfg.Username,
		DB:       cfg.DB,

		// Connection pool settings
		PoolSize:     10,
		MinIdleConns: 2,

		// Timeout settings
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,

		// Retry settings
		MaxRetries:      3,
		MinRetryBackoff: 8 * time.Millisecond,
		MaxRetryBackoff: 512 * time.Millisecond,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return client, nil
}

// RateLimitKey returns the Redis key for a client/endpoint counter
func RateLimitKey(clientID, endpointKey string) string {
	return fmt.Sprintf("rate_limit:%s:%s", clientID, endpointKey)
}

// IncrementRateLimit increments the counter for key, starting the window on
// the first hit, and returns the new count and the remaining TTL.
func IncrementRateLimit(ctx context.Context, client *redis.Client, key string, window time.Duration) (int, time.Duration, error) {
	pipe := client.TxPipeline()
	incrCmd := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, window)
	ttlCmd := pipe.TTL(ctx, key)

	if _, err := pipe.Exec(ctx); err != nil {
		return 0, 0, err
	}

	ttl := ttlCmd.Val()
	if ttl < 0 {
		ttl = window
	}
	return int(incrCmd.Val()), ttl, nil
}
