package domain

import "errors"

var (
	// ErrStockNotFound is returned when no stock matches the given id.
	ErrStockNotFound = errors.New("stock not found")

	// ErrDuplicateStock is returned when a (symbol, exchange) pair already exists.
	ErrDuplicateStock = errors.New("stock already exists on this exchange")

	// ErrInvalidSymbol is returned when a symbol contains characters outside
	// letters, numbers, '&', '-' and '.'.
	ErrInvalidSymbol = errors.New("stock symbol can only contain letters, numbers, &, -, and .")

	// ErrSymbolRequired is returned when a symbol is empty after trimming.
	ErrSymbolRequired = errors.New("stock symbol is required")
)
