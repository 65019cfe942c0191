package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"highspirit-app-go/internal/config"
	dashboarddomain "highspirit-app-go/internal/domain/dashboard"
	"highspirit-app-go/pkg/logger"
)

// NewClient connects to Redis when an address is configured. It returns nil,
// nil when Redis is disabled.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*goredis.Client, error) {
	if cfg.Addr == "" {
		return nil, nil
	}

	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

// DashboardCache keeps summaries as JSON strings. Backend errors are logged
// and reported as misses.
type DashboardCache struct {
	client *goredis.Client
	log    logger.Logger
}

func NewDashboardCache(client *goredis.Client, log logger.Logger) *DashboardCache {
	return &DashboardCache{client: client, log: log}
}

func (c *DashboardCache) Get(ctx context.Context, key string) (*dashboarddomain.Summary, bool) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, goredis.Nil) {
			c.log.InternalError("redis: dashboard get failed", err, "key", key)
		}
		return nil, false
	}

	var summary dashboarddomain.Summary
	if err := json.Unmarshal(raw, &summary); err != nil {
		c.log.InternalError("redis: dashboard decode failed", err, "key", key)
		return nil, false
	}
	return &summary, true
}

func (c *DashboardCache) Set(ctx context.Context, key string, summary dashboarddomain.Summary, ttl time.Duration) {
	if ttl <= 0 {
		return
	}

	raw, err := json.Marshal(summary)
	if err != nil {
		c.log.InternalError("redis: dashboard encode failed", err, "key", key)
		return
	}
	if err := c.client.Set(ctx, key, raw, ttl).Err(); err != nil {
		c.log.InternalError("redis: dashboard set failed", err, "key", key)
	}
}

func (c *DashboardCache) Delete(ctx context.Context, key string) {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		c.log.InternalError("redis: dashboard delete failed", err, "key", key)
	}
}
