// Package entity defines the domain models for the candlesticks feature.
package entity

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// Candlestick represents one daily OHLC record for a stock, keyed by
// (stock, trade date). Prices are fixed-point decimals with 4 fractional
// digits in the schema; trade count, share volume and turnover are optional.
type Candlestick struct {
	ID         uint
	StockID    uint
	CandleDate time.Time // Trade date at midnight UTC

	Open      decimal.Decimal
	High      decimal.Decimal
	Low       decimal.Decimal
	Close     decimal.Decimal
	PrevClose decimal.Decimal

	NumberOfTrades sql.NullInt64
	NumberOfShares sql.NullInt64
	NetTurnover    decimal.NullDecimal
}

// Body returns the absolute difference between close and open.
func (c Candlestick) Body() decimal.Decimal {
	return c.Close.Sub(c.Open).Abs()
}

// BodyHigh returns the higher of open and close.
func (c Candlestick) BodyHigh() decimal.Decimal {
	return decimal.Max(c.Open, c.Close)
}

// BodyLow returns the lower of open and close.
func (c Candlestick) BodyLow() decimal.Decimal {
	return decimal.Min(c.Open, c.Close)
}

// Range returns high minus low.
func (c Candlestick) Range() decimal.Decimal {
	return c.High.Sub(c.Low)
}

// UpperShadow returns the distance from the body top to the high.
func (c Candlestick) UpperShadow() decimal.Decimal {
	return c.High.Sub(c.BodyHigh())
}

// LowerShadow returns the distance from the body bottom to the low.
func (c Candlestick) LowerShadow() decimal.Decimal {
	return c.BodyLow().Sub(c.Low)
}
