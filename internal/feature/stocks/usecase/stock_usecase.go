// Package usecase implements the business logic for stock CRUD operations.
package usecase

import (
	"context"
	"strings"

	"stockdata_backend/internal/feature/stocks/domain"
	"stockdata_backend/internal/feature/stocks/domain/entity"
)

// StockRepository abstracts the persistence layer for stock data.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type StockRepository interface {
	List(ctx context.Context, exchange, query string) ([]entity.Stock, error)
	Get(ctx context.Context, id uint) (entity.Stock, error)
	Create(ctx context.Context, s entity.Stock) (entity.Stock, error)
	Update(ctx context.Context, s entity.Stock) (entity.Stock, error)
	Delete(ctx context.Context, id uint) error
	ExistsOther(ctx context.Context, symbol, exchange string, excludeID uint) (bool, error)
}

// StockUsecase provides business logic for stock CRUD operations.
type StockUsecase struct {
	repo StockRepository
}

// NewStockUsecase creates a new StockUsecase with the given repository.
func NewStockUsecase(r StockRepository) *StockUsecase {
	return &StockUsecase{repo: r}
}

// ListStocks returns stocks, optionally filtered by exchange and a
// symbol/name substring.
func (u *StockUsecase) ListStocks(ctx context.Context, exchange, query string) ([]entity.Stock, error) {
	return u.repo.List(ctx, strings.ToUpper(strings.TrimSpace(exchange)), strings.TrimSpace(query))
}

// GetStock returns one stock by id.
func (u *StockUsecase) GetStock(ctx context.Context, id uint) (entity.Stock, error) {
	return u.repo.Get(ctx, id)
}

// CreateStock normalizes and validates the stock, rejects duplicate
// (symbol, exchange) pairs, then persists it.
func (u *StockUsecase) CreateStock(ctx context.Context, s entity.Stock) (entity.Stock, error) {
	normalized, err := normalize(s)
	if err != nil {
		return entity.Stock{}, err
	}
	exists, err := u.repo.ExistsOther(ctx, normalized.Symbol, normalized.Exchange, 0)
	if err != nil {
		return entity.Stock{}, err
	}
	if exists {
		return entity.Stock{}, domain.ErrDuplicateStock
	}
	return u.repo.Create(ctx, normalized)
}

// UpdateStock normalizes and validates the stock, rejects (symbol, exchange)
// collisions with other rows, then persists the update.
func (u *StockUsecase) UpdateStock(ctx context.Context, s entity.Stock) (entity.Stock, error) {
	normalized, err := normalize(s)
	if err != nil {
		return entity.Stock{}, err
	}
	exists, err := u.repo.ExistsOther(ctx, normalized.Symbol, normalized.Exchange, normalized.ID)
	if err != nil {
		return entity.Stock{}, err
	}
	if exists {
		return entity.Stock{}, domain.ErrDuplicateStock
	}
	return u.repo.Update(ctx, normalized)
}

// DeleteStock removes a stock and its candlesticks.
func (u *StockUsecase) DeleteStock(ctx context.Context, id uint) error {
	return u.repo.Delete(ctx, id)
}

// normalize applies the manual-entry rules: symbol, exchange and group are
// upper-cased and trimmed, and the symbol may only contain letters, numbers,
// '&', '-' and '.'.
func normalize(s entity.Stock) (entity.Stock, error) {
	s.Symbol = strings.ToUpper(strings.TrimSpace(s.Symbol))
	s.Exchange = strings.ToUpper(strings.TrimSpace(s.Exchange))
	s.Group = strings.ToUpper(strings.TrimSpace(s.Group))
	s.Name = strings.TrimSpace(s.Name)

	if s.Symbol == "" {
		return entity.Stock{}, domain.ErrSymbolRequired
	}
	if !validSymbol(s.Symbol) {
		return entity.Stock{}, domain.ErrInvalidSymbol
	}
	return s, nil
}

func validSymbol(symbol string) bool {
	for _, r := range symbol {
		switch {
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '&' || r == '-' || r == '.':
		default:
			return false
		}
	}
	return true
}
