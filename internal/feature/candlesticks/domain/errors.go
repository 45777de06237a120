package domain

import "errors"

var (
	// ErrCandlestickNotFound is returned when no candlestick matches the given id.
	ErrCandlestickNotFound = errors.New("candlestick not found")

	// ErrDuplicateCandlestick is returned when a (stock, date) pair already exists.
	ErrDuplicateCandlestick = errors.New("candlestick already exists for this stock and date")

	// ErrNegativePrice is returned when any price field is negative.
	ErrNegativePrice = errors.New("prices cannot be negative")

	// ErrHighPriceRelation is returned when the high is below open, low or close.
	// This relation is checked only on manual entry, never during bulk CSV
	// ingestion, matching the upstream data-entry rules.
	ErrHighPriceRelation = errors.New("high price must be greater than or equal to open, low, and close prices")

	// ErrLowPriceRelation is returned when the low is above open, high or close.
	ErrLowPriceRelation = errors.New("low price must be less than or equal to open, high, and close prices")
)
