// Package di provides dependency injection factories for creating application components.
package di

import (
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	candleadapters "stockdata_backend/internal/feature/candlesticks/adapters"
	"stockdata_backend/internal/platform/cache"
)

// NewCandlestickStore wires the gorm candlestick repository behind the Redis
// cache decorator. With a nil Redis client the decorator is a transparent
// pass-through, so callers never need to branch on cache availability.
func NewCandlestickStore(rdb *redis.Client, db *gorm.DB) *cache.CachingCandlestickRepository {
	ttl := cache.TimeUntilNextSevenPMIST()
	return cache.NewCachingCandlestickRepository(rdb, ttl, candleadapters.NewCandlestickRepository(db), "candlesticks")
}
