package inmemory

import (
	"context"
	"testing"
	"time"

	dashboarddomain "highspirit-app-go/internal/domain/dashboard"
)

func TestDashboardCacheExpires(t *testing.T) {
	now := time.Date(2024, 6, 10, 8, 0, 0, 0, time.UTC)
	cache := NewDashboardCache()
	cache.now = func() time.Time { return now }

	cache.Set(context.Background(), "k", dashboarddomain.Summary{TotalCustomers: 3}, time.Minute)

	got, ok := cache.Get(context.Background(), "k")
	if !ok || got.TotalCustomers != 3 {
		t.Fatalf("expected cached summary, got %v %v", got, ok)
	}

	now = now.Add(2 * time.Minute)
	if _, ok := cache.Get(context.Background(), "k"); ok {
		t.Fatalf("expected entry to expire")
	}
	if len(cache.items) != 0 {
		t.Fatalf("expected expired entry to be removed")
	}
}

func TestDashboardCacheZeroTTLDeletes(t *testing.T) {
	cache := NewDashboardCache()
	cache.Set(context.Background(), "k", dashboarddomain.Summary{}, time.Minute)
	cache.Set(context.Background(), "k", dashboarddomain.Summary{}, 0)

	if _, ok := cache.Get(context.Background(), "k"); ok {
		t.Fatalf("expected zero ttl to delete the entry")
	}
}

func TestDashboardCacheDropsStaleKeysOnSet(t *testing.T) {
	now := time.Date(2024, 6, 10, 8, 0, 0, 0, time.UTC)
	cache := NewDashboardCache()
	cache.now = func() time.Time { return now }

	cache.Set(context.Background(), "yesterday", dashboarddomain.Summary{}, time.Minute)
	now = now.Add(time.Hour)
	cache.Set(context.Background(), "today", dashboarddomain.Summary{}, time.Minute)

	if _, ok := cache.items["yesterday"]; ok {
		t.Fatalf("expected stale key to be dropped")
	}
}

func TestDashboardCacheDelete(t *testing.T) {
	cache := NewDashboardCache()
	cache.Set(context.Background(), "a", dashboarddomain.Summary{}, time.Minute)
	cache.Set(context.Background(), "b", dashboarddomain.Summary{}, time.Minute)

	cache.Delete(context.Background(), "a")

	if _, ok := cache.Get(context.Background(), "a"); ok {
		t.Fatalf("expected deleted entry to be gone")
	}
	if _, ok := cache.Get(context.Background(), "b"); !ok {
		t.Fatalf("expected other entry to stay")
	}
}
