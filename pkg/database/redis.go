package database

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/sql-ball/sqlball-engine/pkg/config"
)

// NewRedisClient connects to the Redis instance backing the dashboard
// cache. An empty host means Redis is disabled; the caller falls back to
// the in-memory store and nil, nil is returned.
func NewRedisClient(cfg *config.RedisConfig) (*redis.Client, error) {
	if cfg.Host == "" {
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return client, nil
}
