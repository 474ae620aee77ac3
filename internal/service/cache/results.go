package cache

import (
	"context"
	"errors"
	"time"

	"StockCast/internal/domain/models"
	pkgcache "StockCast/pkg/cache"
	"StockCast/pkg/util"
)

const keyPrefix = "prediction"

// Key identifies a generated result. Output only changes with the civil date.
func Key(ticker string, days int, today time.Time) string {
	return pkgcache.GenerateKeyWithParams(keyPrefix, ticker, days, util.FormatDate(today))
}

// ResultCache adapts a pkg/cache backend to repository.ResultCache.
type ResultCache struct {
	backend pkgcache.Service
}

func NewResultCache(backend pkgcache.Service) *ResultCache {
	return &ResultCache{backend: backend}
}

func (c *ResultCache) Get(ctx context.Context, key string) (*models.PredictionResult, bool, error) {
	var r models.PredictionResult
	if err := c.backend.Get(ctx, key, &r); err != nil {
		if errors.Is(err, pkgcache.ErrCacheMiss) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return &r, true, nil
}

func (c *ResultCache) Set(ctx context.Context, key string, r *models.PredictionResult, ttl time.Duration) error {
	return c.backend.Set(ctx, key, r, ttl)
}

// Backend exposes the underlying store, e.g. for distributed locks.
func (c *ResultCache) Backend() pkgcache.Service { return c.backend }

// Nop never stores anything.
type Nop struct{}

func (Nop) Get(context.Context, string) (*models.PredictionResult, bool, error) { return nil, false, nil }

func (Nop) Set(context.Context, string, *models.PredictionResult, time.Duration) error { return nil }
