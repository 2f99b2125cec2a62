// Package redis keeps short-lived webhook claims so concurrent deliveries of
// the same provider event are processed by one request at a time.
package redis

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/DanielPopoola/coursepay/internal/config"
	"github.com/redis/go-redis/v9"
)

type Claimer struct {
	client *redis.Client
	logger *slog.Logger
}

// Connect parses the Redis URL and checks the server answers.
func Connect(ctx context.Context, cfg config.RedisConfig, logger *slog.Logger) (*Claimer, error) {
	opt, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	logger.Info("redis connection established", "addr", opt.Addr)
	return NewClaimer(client, logger), nil
}

func NewClaimer(client *redis.Client, logger *slog.Logger) *Claimer {
	return &Claimer{client: client, logger: logger}
}

// Claim sets key if it is absent. It returns false when another holder has it.
func (c *Claimer) Claim(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := c.client.SetNX(ctx, key, time.Now().UTC().Format(time.RFC3339Nano), ttl).Result()
	if err != nil {
		return false, fmt.Errorf("claim %s: %w", key, err)
	}
	return ok, nil
}

func (c *Claimer) Release(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("release %s: %w", key, err)
	}
	return nil
}

func (c *Claimer) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *Claimer) Close() error {
	return c.client.Close()
}
