package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nebulaops/backend/internal/config"
	"github.com/nebulaops/backend/internal/domain"
)

const dashboardKeyPrefix = "dashboard:result"

// DashboardCache memoizes full dashboard payloads per date range.
type DashboardCache interface {
	Get(ctx context.Context, rng domain.DateRange) (*domain.DashboardResult, bool, error)
	Set(ctx context.Context, rng domain.DateRange, result *domain.DashboardResult) error
	InvalidateAll(ctx context.Context) error
}

type redisDashboardCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopDashboardCache struct{}

func NewDashboardCache(cfg config.CacheConfig) (DashboardCache, error) {
	if !cfg.Enabled {
		return &noopDashboardCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisDashboardCache{client: client, ttl: ttl}, nil
}

func NewNoopDashboardCache() DashboardCache {
	return &noopDashboardCache{}
}

func (c *redisDashboardCache) Get(ctx context.Context, rng domain.DateRange) (*domain.DashboardResult, bool, error) {
	payload, err := c.client.Get(ctx, buildDashboardKey(rng)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var result domain.DashboardResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, false, fmt.Errorf("decode dashboard cache: %w", err)
	}
	return &result, true, nil
}

func (c *redisDashboardCache) Set(ctx context.Context, rng domain.DateRange, result *domain.DashboardResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode dashboard cache: %w", err)
	}

	if err := c.client.Set(ctx, buildDashboardKey(rng), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisDashboardCache) InvalidateAll(ctx context.Context) error {
	return deleteKeysWithPrefix(ctx, c.client, dashboardKeyPrefix, scanBatchSize)
}

func (n *noopDashboardCache) Get(ctx context.Context, rng domain.DateRange) (*domain.DashboardResult, bool, error) {
	return nil, false, nil
}

func (n *noopDashboardCache) Set(ctx context.Context, rng domain.DateRange, result *domain.DashboardResult) error {
	return nil
}

func (n *noopDashboardCache) InvalidateAll(ctx context.Context) error {
	return nil
}

func buildDashboardKey(rng domain.DateRange) string {
	span := rng.Start.Format("2006-01-02") + ".." + rng.End.Format("2006-01-02")
	sum := sha1.Sum([]byte(span))
	return fmt.Sprintf("%s:%s", dashboardKeyPrefix, hex.EncodeToString(sum[:]))
}
