// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"stockdata_backend/internal/feature/candlesticks/domain/entity"
	"stockdata_backend/internal/feature/candlesticks/usecase"
)

// CachingCandlestickRepository decorates a CandlestickRepository with Redis
// caching on the symbol-range read path, which backs both the candlestick
// listing screens and pattern detection. Writes delegate to the inner
// repository and invalidate the affected symbol's entries. A nil Redis client
// turns the decorator into a transparent pass-through.
type CachingCandlestickRepository struct {
	inner     usecase.CandlestickRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var _ usecase.CandlestickRepository = (*CachingCandlestickRepository)(nil)

// NewCachingCandlestickRepository decorates a CandlestickRepository with Redis caching.
// If ttl is 0, it defaults to 5 minutes. If namespace is empty, it uses "candlesticks".
func NewCachingCandlestickRepository(rdb *redis.Client, ttl time.Duration, inner usecase.CandlestickRepository, namespace string) *CachingCandlestickRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if namespace == "" {
		namespace = "candlesticks"
	}
	return &CachingCandlestickRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// ListBySymbol retrieves candles, checking cache first then falling back to the database.
func (c *CachingCandlestickRepository) ListBySymbol(ctx context.Context, symbol, exchange string, from, to time.Time) ([]entity.Candlestick, error) {
	// Bypass cache if Redis is not configured
	if c.rdb == nil {
		return c.inner.ListBySymbol(ctx, symbol, exchange, from, to)
	}

	key := c.cacheKey(symbol, exchange, from, to)

	// 1) Check cache
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out []entity.Candlestick
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	// 2) Fallback to database
	out, err := c.inner.ListBySymbol(ctx, symbol, exchange, from, to)
	if err != nil {
		return nil, err
	}

	// 3) Store in cache (best effort)
	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}

	return out, nil
}

// Invalidate removes all cached entries for one (symbol, exchange) pair.
// The ingestion engine calls this after a file transaction commits.
func (c *CachingCandlestickRepository) Invalidate(ctx context.Context, symbol, exchange string) {
	if c.rdb == nil {
		return
	}
	// Best effort: don't fail ingestion if cache deletion fails
	_ = c.deleteByPattern(ctx, c.cacheKeyPrefix(symbol, exchange)+"*")
}

// List delegates to the inner repository. ID-keyed listings are not cached.
func (c *CachingCandlestickRepository) List(ctx context.Context, stockID uint, from, to time.Time) ([]entity.Candlestick, error) {
	return c.inner.List(ctx, stockID, from, to)
}

// Get delegates to the inner repository.
func (c *CachingCandlestickRepository) Get(ctx context.Context, id uint) (entity.Candlestick, error) {
	return c.inner.Get(ctx, id)
}

// Create inserts through the inner repository, then drops the whole namespace.
// Manual entry carries no symbol, so per-symbol invalidation is not possible here.
func (c *CachingCandlestickRepository) Create(ctx context.Context, cd entity.Candlestick) (entity.Candlestick, error) {
	out, err := c.inner.Create(ctx, cd)
	if err != nil {
		return entity.Candlestick{}, err
	}
	c.invalidateAll(ctx)
	return out, nil
}

// Update updates through the inner repository, then drops the whole namespace.
func (c *CachingCandlestickRepository) Update(ctx context.Context, cd entity.Candlestick) (entity.Candlestick, error) {
	out, err := c.inner.Update(ctx, cd)
	if err != nil {
		return entity.Candlestick{}, err
	}
	c.invalidateAll(ctx)
	return out, nil
}

// Delete deletes through the inner repository, then drops the whole namespace.
func (c *CachingCandlestickRepository) Delete(ctx context.Context, id uint) error {
	if err := c.inner.Delete(ctx, id); err != nil {
		return err
	}
	c.invalidateAll(ctx)
	return nil
}

// ExistsOther delegates to the inner repository.
func (c *CachingCandlestickRepository) ExistsOther(ctx context.Context, stockID uint, date time.Time, excludeID uint) (bool, error) {
	return c.inner.ExistsOther(ctx, stockID, date, excludeID)
}

func (c *CachingCandlestickRepository) invalidateAll(ctx context.Context) {
	if c.rdb == nil {
		return
	}
	_ = c.deleteByPattern(ctx, c.namespace+":*")
}

// cacheKey generates a cache key for a specific symbol-range query.
func (c *CachingCandlestickRepository) cacheKey(symbol, exchange string, from, to time.Time) string {
	return fmt.Sprintf("%s:%s:%s:%d:%d",
		c.namespace,
		safe(symbol),
		safe(exchange),
		from.Unix(),
		to.Unix(),
	)
}

// cacheKeyPrefix generates a prefix for invalidating related cache entries.
func (c *CachingCandlestickRepository) cacheKeyPrefix(symbol, exchange string) string {
	return fmt.Sprintf("%s:%s:%s:",
		c.namespace,
		safe(symbol),
		safe(exchange),
	)
}

// deleteByPattern deletes all cache keys matching a given pattern using SCAN.
func (c *CachingCandlestickRepository) deleteByPattern(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, cur, err := c.rdb.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = cur
		if cursor == 0 {
			break
		}
	}
	return nil
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	return s
}
