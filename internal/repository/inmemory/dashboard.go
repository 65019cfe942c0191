package inmemory

import (
	"context"
	"sync"
	"time"

	dashboarddomain "highspirit-app-go/internal/domain/dashboard"
)

type DashboardCache struct {
	mu    sync.RWMutex
	items map[string]summaryItem
	now   func() time.Time
}

type summaryItem struct {
	value     dashboarddomain.Summary
	expiresAt time.Time
}

func NewDashboardCache() *DashboardCache {
	return &DashboardCache{
		items: make(map[string]summaryItem),
		now:   time.Now,
	}
}

func (c *DashboardCache) Get(ctx context.Context, key string) (*dashboarddomain.Summary, bool) {
	now := c.now()

	c.mu.RLock()
	item, ok := c.items[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}

	if !item.expiresAt.After(now) {
		c.mu.Lock()
		item, ok = c.items[key]
		if ok && !item.expiresAt.After(now) {
			delete(c.items, key)
		}
		c.mu.Unlock()
		return nil, false
	}

	value := item.value
	return &value, true
}

// Set replaces the entry and drops every other entry that has expired.
func (c *DashboardCache) Set(ctx context.Context, key string, summary dashboarddomain.Summary, ttl time.Duration) {
	if ttl <= 0 {
		c.Delete(ctx, key)
		return
	}

	now := c.now()
	c.mu.Lock()
	for existing, item := range c.items {
		if !item.expiresAt.After(now) {
			delete(c.items, existing)
		}
	}
	c.items[key] = summaryItem{
		value:     summary,
		expiresAt: now.Add(ttl),
	}
	c.mu.Unlock()
}

func (c *DashboardCache) Delete(ctx context.Context, key string) {
	c.mu.Lock()
	delete(c.items, key)
	c.mu.Unlock()
}
