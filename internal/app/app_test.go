package app

import (
	"context"
	"testing"
	"time"

	"highspirit-app-go/internal/config"
	"highspirit-app-go/internal/repository/inmemory"
	"highspirit-app-go/pkg/logger"
)

func TestDashboardCacheFallsBackWhenRedisIsDown(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	cache, client := newDashboardCache(ctx, config.RedisConfig{Addr: "127.0.0.1:1"}, logger.Nop())
	if client != nil {
		t.Fatalf("expected no redis client, got %v", client)
	}
	if _, ok := cache.(*inmemory.DashboardCache); !ok {
		t.Fatalf("expected in-memory cache, got %T", cache)
	}
}

func TestDashboardCacheWithoutRedisAddr(t *testing.T) {
	cache, client := newDashboardCache(context.Background(), config.RedisConfig{}, logger.Nop())
	if client != nil {
		t.Fatalf("expected no redis client, got %v", client)
	}
	if _, ok := cache.(*inmemory.DashboardCache); !ok {
		t.Fatalf("expected in-memory cache, got %T", cache)
	}
}
