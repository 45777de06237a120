// Package usecase implements the business logic for manual candlestick CRUD.
//
// The OHLC price-relationship rules live here, on the manual-entry path only.
// Bulk CSV ingestion accepts whatever the exchange feed says, matching the
// behavior of the data-entry screens this backend serves.
package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"stockdata_backend/internal/feature/candlesticks/domain"
	"stockdata_backend/internal/feature/candlesticks/domain/entity"
)

// CandlestickRepository abstracts the persistence layer for candlestick data.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type CandlestickRepository interface {
	List(ctx context.Context, stockID uint, from, to time.Time) ([]entity.Candlestick, error)
	ListBySymbol(ctx context.Context, symbol, exchange string, from, to time.Time) ([]entity.Candlestick, error)
	Get(ctx context.Context, id uint) (entity.Candlestick, error)
	Create(ctx context.Context, c entity.Candlestick) (entity.Candlestick, error)
	Update(ctx context.Context, c entity.Candlestick) (entity.Candlestick, error)
	Delete(ctx context.Context, id uint) error
	ExistsOther(ctx context.Context, stockID uint, date time.Time, excludeID uint) (bool, error)
}

// CandlestickUsecase provides business logic for candlestick CRUD operations.
type CandlestickUsecase struct {
	repo CandlestickRepository
}

// NewCandlestickUsecase creates a new CandlestickUsecase with the given repository.
func NewCandlestickUsecase(r CandlestickRepository) *CandlestickUsecase {
	return &CandlestickUsecase{repo: r}
}

// ListCandlesticks returns candlesticks for a stock, optionally bounded by dates.
func (u *CandlestickUsecase) ListCandlesticks(ctx context.Context, stockID uint, from, to time.Time) ([]entity.Candlestick, error) {
	return u.repo.List(ctx, stockID, from, to)
}

// GetCandlestick returns one candlestick by id.
func (u *CandlestickUsecase) GetCandlestick(ctx context.Context, id uint) (entity.Candlestick, error) {
	return u.repo.Get(ctx, id)
}

// CreateCandlestick validates the manual-entry rules and persists the candle.
// Duplicate (stock, date) pairs are rejected.
func (u *CandlestickUsecase) CreateCandlestick(ctx context.Context, c entity.Candlestick) (entity.Candlestick, error) {
	if err := Validate(c); err != nil {
		return entity.Candlestick{}, err
	}
	exists, err := u.repo.ExistsOther(ctx, c.StockID, c.CandleDate, 0)
	if err != nil {
		return entity.Candlestick{}, err
	}
	if exists {
		return entity.Candlestick{}, domain.ErrDuplicateCandlestick
	}
	return u.repo.Create(ctx, c)
}

// UpdateCandlestick validates the manual-entry rules and persists the update.
func (u *CandlestickUsecase) UpdateCandlestick(ctx context.Context, c entity.Candlestick) (entity.Candlestick, error) {
	if err := Validate(c); err != nil {
		return entity.Candlestick{}, err
	}
	exists, err := u.repo.ExistsOther(ctx, c.StockID, c.CandleDate, c.ID)
	if err != nil {
		return entity.Candlestick{}, err
	}
	if exists {
		return entity.Candlestick{}, domain.ErrDuplicateCandlestick
	}
	return u.repo.Update(ctx, c)
}

// DeleteCandlestick removes one candlestick.
func (u *CandlestickUsecase) DeleteCandlestick(ctx context.Context, id uint) error {
	return u.repo.Delete(ctx, id)
}

// Validate enforces the manual-entry price rules:
// no negative prices, high >= max(open, low, close) and
// low <= min(open, high, close).
func Validate(c entity.Candlestick) error {
	zero := decimal.Zero
	for _, p := range []decimal.Decimal{c.Open, c.High, c.Low, c.Close, c.PrevClose} {
		if p.LessThan(zero) {
			return domain.ErrNegativePrice
		}
	}
	if c.High.LessThan(c.Open) || c.High.LessThan(c.Low) || c.High.LessThan(c.Close) {
		return domain.ErrHighPriceRelation
	}
	if c.Low.GreaterThan(c.Open) || c.Low.GreaterThan(c.High) || c.Low.GreaterThan(c.Close) {
		return domain.ErrLowPriceRelation
	}
	return nil
}
