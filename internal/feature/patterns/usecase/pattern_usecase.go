package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	candleentity "stockdata_backend/internal/feature/candlesticks/domain/entity"
)

// CandleReader は保存済みローソク足の読み取りを抽象化します。
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type CandleReader interface {
	ListBySymbol(ctx context.Context, symbol, exchange string, from, to time.Time) ([]candleentity.Candlestick, error)
}

// PatternUsecase は銘柄のローソク足を読み出してパターン検出を実行します。
type PatternUsecase struct {
	candles CandleReader
}

// NewPatternUsecase は新しいPatternUsecaseを作成します。
func NewPatternUsecase(candles CandleReader) *PatternUsecase {
	return &PatternUsecase{candles: candles}
}

// Detect は指定銘柄のローソク足に対して1種類のパターン検出を実行します。
// patternは hammer / doji / harami のいずれか（大文字小文字を問わない）です。
func (u *PatternUsecase) Detect(ctx context.Context, symbol, exchange, pattern string, from, to time.Time) ([]Match, error) {
	candles, err := u.candles.ListBySymbol(ctx, symbol, exchange, from, to)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(pattern) {
	case "hammer":
		return DetectHammer(candles), nil
	case "doji":
		return DetectDoji(candles), nil
	case "harami":
		return DetectHarami(candles), nil
	default:
		return nil, fmt.Errorf("unknown pattern %q: expected hammer, doji or harami", pattern)
	}
}
