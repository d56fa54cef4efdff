package cache

import (
	"context"
	"time"
)

// StatsCache holds precomputed dashboard payloads. A miss is not an
// error; callers fall through to the database.
type StatsCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// NoopStatsCache is used when no Redis address is configured.
type NoopStatsCache struct{}

func (NoopStatsCache) Get(_ context.Context, _ string) ([]byte, bool, error) {
	return nil, false, nil
}

func (NoopStatsCache) Set(_ context.Context, _ string, _ []byte, _ time.Duration) error {
	return nil
}
