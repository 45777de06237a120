// Package dto defines request and response shapes for the candlesticks endpoints.
package dto

import (
	"github.com/shopspring/decimal"
)

// CandlestickRequest is the create/update payload for manual entry.
// The five prices are mandatory; trades, shares and turnover are optional.
type CandlestickRequest struct {
	StockID    uint   `json:"stock_id" binding:"required"`
	CandleDate string `json:"candle_date" binding:"required"` // YYYY-MM-DD

	Open      decimal.Decimal `json:"open_price"`
	High      decimal.Decimal `json:"high_price"`
	Low       decimal.Decimal `json:"low_price"`
	Close     decimal.Decimal `json:"close_price"`
	PrevClose decimal.Decimal `json:"prev_close_price"`

	NumberOfTrades *int64           `json:"number_of_trades"`
	NumberOfShares *int64           `json:"number_of_shares"`
	NetTurnover    *decimal.Decimal `json:"net_turnover"`
}

// CandlestickResponse is one candlestick in API responses.
type CandlestickResponse struct {
	ID         uint   `json:"id"`
	StockID    uint   `json:"stock_id"`
	CandleDate string `json:"candle_date"`

	Open      decimal.Decimal `json:"open_price"`
	High      decimal.Decimal `json:"high_price"`
	Low       decimal.Decimal `json:"low_price"`
	Close     decimal.Decimal `json:"close_price"`
	PrevClose decimal.Decimal `json:"prev_close_price"`

	NumberOfTrades *int64           `json:"number_of_trades"`
	NumberOfShares *int64           `json:"number_of_shares"`
	NetTurnover    *decimal.Decimal `json:"net_turnover"`
}
