// Package redis backs the user snapshot with one JSON value under a fixed
// key. It is the portal's default store.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/superinternet/portal-api/internal/infrastructure/config"
)

// connectTimeout bounds the startup ping, mirroring the mongo backend.
const connectTimeout = 5 * time.Second

// Connect opens the configured Redis and verifies it with a ping. The caller
// owns the client's lifecycle and closes it on shutdown.
func Connect(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr: cfg.Addr,
		DB:   cfg.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}
