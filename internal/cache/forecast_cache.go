package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nebulaops/backend/internal/config"
	"github.com/nebulaops/backend/internal/domain"
)

const forecastKeyPrefix = "forecast:list"

// ForecastCache memoizes whole forecast listings. Entries are keyed by
// the as-of date plus the search filter, so a day rollover naturally
// misses; any write to the ledger, snapshots or settings must invalidate.
type ForecastCache interface {
	Get(ctx context.Context, asOf time.Time, filter domain.ForecastFilter) ([]domain.SKUForecast, bool, error)
	Set(ctx context.Context, asOf time.Time, filter domain.ForecastFilter, forecasts []domain.SKUForecast) error
	InvalidateAll(ctx context.Context) error
}

type redisForecastCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopForecastCache struct{}

func NewForecastCache(cfg config.CacheConfig) (ForecastCache, error) {
	if !cfg.Enabled {
		return &noopForecastCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisForecastCache{client: client, ttl: ttl}, nil
}

func NewNoopForecastCache() ForecastCache {
	return &noopForecastCache{}
}

func (c *redisForecastCache) Get(ctx context.Context, asOf time.Time, filter domain.ForecastFilter) ([]domain.SKUForecast, bool, error) {
	payload, err := c.client.Get(ctx, buildForecastKey(asOf, filter)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var forecasts []domain.SKUForecast
	if err := json.Unmarshal(payload, &forecasts); err != nil {
		return nil, false, fmt.Errorf("decode forecast cache: %w", err)
	}
	return forecasts, true, nil
}

func (c *redisForecastCache) Set(ctx context.Context, asOf time.Time, filter domain.ForecastFilter, forecasts []domain.SKUForecast) error {
	payload, err := json.Marshal(forecasts)
	if err != nil {
		return fmt.Errorf("encode forecast cache: %w", err)
	}

	if err := c.client.Set(ctx, buildForecastKey(asOf, filter), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisForecastCache) InvalidateAll(ctx context.Context) error {
	return deleteKeysWithPrefix(ctx, c.client, forecastKeyPrefix, scanBatchSize)
}

func (n *noopForecastCache) Get(ctx context.Context, asOf time.Time, filter domain.ForecastFilter) ([]domain.SKUForecast, bool, error) {
	return nil, false, nil
}

func (n *noopForecastCache) Set(ctx context.Context, asOf time.Time, filter domain.ForecastFilter, forecasts []domain.SKUForecast) error {
	return nil
}

func (n *noopForecastCache) InvalidateAll(ctx context.Context) error {
	return nil
}

func buildForecastKey(asOf time.Time, filter domain.ForecastFilter) string {
	parts := []string{"as_of=" + asOf.Format("2006-01-02")}
	if search := strings.TrimSpace(strings.ToLower(filter.Search)); search != "" {
		parts = append(parts, "search="+search)
	}

	sum := sha1.Sum([]byte(strings.Join(parts, "&")))
	return fmt.Sprintf("%s:%s", forecastKeyPrefix, hex.EncodeToString(sum[:]))
}
