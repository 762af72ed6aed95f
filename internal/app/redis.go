package app

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/guttosm/equifolio/config"
)

// redisPingTimeout bounds the connectivity check at startup.
const redisPingTimeout = 3 * time.Second

// InitRedis opens a Redis client using the provided configuration.
//
// Behavior:
//   - Returns (nil, nil) when no Redis host is configured; caching is then disabled.
//   - Pings the server once so a wrong address fails at startup.
//   - Closes the client if the ping fails.
//
// Example usage:
//
//	rdb, err := app.InitRedis(config.AppConfig.Redis)
//	if err != nil {
//	    log.Fatalf("❌ failed to connect: %v", err)
//	}
func InitRedis(cfg config.RedisConfig) (*redis.Client, error) {
	if !cfg.Enabled() {
		return nil, nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to ping redis at %s: %w", cfg.Addr, err)
	}
	return rdb, nil
}

// redisOpener is an indirection used by InitializeApp; overridden in tests to avoid real connections.
var redisOpener = InitRedis
