package adapters

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	candleadapters "stockdata_backend/internal/feature/candlesticks/adapters"
	candleentity "stockdata_backend/internal/feature/candlesticks/domain/entity"
	"stockdata_backend/internal/feature/ingestion/usecase"
	stockadapters "stockdata_backend/internal/feature/stocks/adapters"
	stockentity "stockdata_backend/internal/feature/stocks/domain/entity"
)

// setupTestDB prepares an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to initialize test database")

	err = db.AutoMigrate(&stockadapters.StockModel{}, &candleadapters.CandlestickModel{}, &ImportRecordModel{})
	require.NoError(t, err, "failed to migrate tables")

	return db
}

func testCandle(stockID uint, date time.Time) candleentity.Candlestick {
	return candleentity.Candlestick{
		StockID:    stockID,
		CandleDate: date,
		Open:       decimal.NewFromInt(100),
		High:       decimal.NewFromInt(110),
		Low:        decimal.NewFromInt(90),
		Close:      decimal.NewFromInt(105),
		PrevClose:  decimal.NewFromInt(99),
	}
}

func TestIngestTx_GetOrCreateStock(t *testing.T) {
	db := setupTestDB(t)
	store := NewIngestStore(db)
	ctx := context.Background()

	err := store.WithinTx(ctx, func(tx usecase.IngestTx) error {
		first, created, err := tx.GetOrCreateStock(ctx, stockentity.Stock{
			Symbol: "TCS", Exchange: "NSE", Name: "TATA CONSULTANCY", Group: "EQ",
		})
		require.NoError(t, err)
		assert.True(t, created)
		assert.NotZero(t, first.ID)

		// 2回目は既存行が返り、フィールドは上書きされない
		second, created, err := tx.GetOrCreateStock(ctx, stockentity.Stock{
			Symbol: "TCS", Exchange: "NSE", Name: "DIFFERENT NAME", Group: "BE",
		})
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, "TATA CONSULTANCY", second.Name)
		assert.Equal(t, "EQ", second.Group)

		// 別の取引所なら新規作成される
		_, created, err = tx.GetOrCreateStock(ctx, stockentity.Stock{
			Symbol: "TCS", Exchange: "BSE", Name: "TATA CONSULTANCY",
		})
		require.NoError(t, err)
		assert.True(t, created)
		return nil
	})
	require.NoError(t, err)

	var count int64
	db.Model(&stockadapters.StockModel{}).Count(&count)
	assert.Equal(t, int64(2), count)
}

func TestIngestTx_GetOrCreateCandlestick(t *testing.T) {
	db := setupTestDB(t)
	store := NewIngestStore(db)
	ctx := context.Background()

	date := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	err := store.WithinTx(ctx, func(tx usecase.IngestTx) error {
		stock, _, err := tx.GetOrCreateStock(ctx, stockentity.Stock{Symbol: "TCS", Exchange: "NSE"})
		require.NoError(t, err)

		first, created, err := tx.GetOrCreateCandlestick(ctx, testCandle(stock.ID, date))
		require.NoError(t, err)
		assert.True(t, created)

		// 同じ(stock, date)の再投入は既存行を返し、価格は上書きされない
		dup := testCandle(stock.ID, date)
		dup.Close = decimal.NewFromInt(999)
		second, created, err := tx.GetOrCreateCandlestick(ctx, dup)
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, first.ID, second.ID)
		assert.True(t, second.Close.Equal(decimal.NewFromInt(105)))

		// 別日なら新規作成
		_, created, err = tx.GetOrCreateCandlestick(ctx, testCandle(stock.ID, date.AddDate(0, 0, 1)))
		require.NoError(t, err)
		assert.True(t, created)
		return nil
	})
	require.NoError(t, err)
}

func TestIngestStore_WithinTx_RollbackOnError(t *testing.T) {
	db := setupTestDB(t)
	store := NewIngestStore(db)
	ctx := context.Background()

	sentinel := errors.New("structural failure")
	err := store.WithinTx(ctx, func(tx usecase.IngestTx) error {
		_, _, err := tx.GetOrCreateStock(ctx, stockentity.Stock{Symbol: "TCS", Exchange: "NSE"})
		require.NoError(t, err)
		return sentinel
	})
	assert.ErrorIs(t, err, sentinel)

	var count int64
	db.Model(&stockadapters.StockModel{}).Count(&count)
	assert.Equal(t, int64(0), count, "writes must roll back when fn fails")
}
