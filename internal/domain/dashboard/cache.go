package dashboard

import (
	"context"
	"time"
)

// Cache stores computed summaries for a short time. Implementations must be
// safe for concurrent use; a miss or a broken backend just means recompute.
type Cache interface {
	Get(ctx context.Context, key string) (*Summary, bool)
	Set(ctx context.Context, key string, summary Summary, ttl time.Duration)
	Delete(ctx context.Context, key string)
}

type noopCache struct{}

func (noopCache) Get(ctx context.Context, key string) (*Summary, bool) {
	return nil, false
}

func (noopCache) Set(ctx context.Context, key string, summary Summary, ttl time.Duration) {}

func (noopCache) Delete(ctx context.Context, key string) {}

func cacheKey(today time.Time) string {
	return cacheKeyPrefix + today.Format("2006-01-02")
}
