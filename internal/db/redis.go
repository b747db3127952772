package db

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/yigit/examseating/internal/config"
	"github.com/yigit/examseating/internal/pkg/logger"
)

const redisPingTimeout = 2 * time.Second

// NewRedisClient connects to the configured Redis server. It returns nil when
// the server cannot be reached; callers treat a nil client as "rate limiting
// off".
func NewRedisClient(ctx context.Context, cfg *config.Config) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("Redis unavailable, continuing without it")
		_ = client.Close()
		return nil
	}
	return client
}
