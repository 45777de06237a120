// Package dto defines response shapes for the pattern detection endpoints.
package dto

import (
	"github.com/shopspring/decimal"
)

// PatternMatchResponse is one detected pattern occurrence.
// PreviousDate is only present for harami matches.
type PatternMatchResponse struct {
	CandleDate  string          `json:"candle_date"`
	PatternType string          `json:"pattern_type"`
	Strength    decimal.Decimal `json:"strength"`

	Open  decimal.Decimal `json:"open_price"`
	High  decimal.Decimal `json:"high_price"`
	Low   decimal.Decimal `json:"low_price"`
	Close decimal.Decimal `json:"close_price"`

	PreviousDate *string `json:"previous_date,omitempty"`
}

// PatternScanResponse wraps the matches for one symbol scan.
type PatternScanResponse struct {
	Symbol   string                 `json:"symbol"`
	Exchange string                 `json:"exchange"`
	Pattern  string                 `json:"pattern"`
	Matches  []PatternMatchResponse `json:"matches"`
}
