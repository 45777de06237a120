package usecase

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	candleentity "stockdata_backend/internal/feature/candlesticks/domain/entity"
)

func candleAt(day int, open, high, low, closePrice float64) candleentity.Candlestick {
	return candleentity.Candlestick{
		StockID:    1,
		CandleDate: time.Date(2025, 1, day, 0, 0, 0, 0, time.UTC),
		Open:       decimal.NewFromFloat(open),
		High:       decimal.NewFromFloat(high),
		Low:        decimal.NewFromFloat(low),
		Close:      decimal.NewFromFloat(closePrice),
		PrevClose:  decimal.NewFromFloat(open),
	}
}

func TestDetectHammer(t *testing.T) {
	tests := []struct {
		name        string
		candle      candleentity.Candlestick
		wantMatch   bool
		wantStrength string
	}{
		{
			// body=2, lower=16, upper=0, range=18: lower >= 4, upper <= 1.8, body > 1.8
			name:         "match: long lower shadow, no upper shadow",
			candle:       candleAt(1, 100, 102, 84, 102),
			wantMatch:    true,
			wantStrength: "8",
		},
		{
			// body=2, upper=3, range=21: upper > 0.1*range (2.1)
			name:   "no match: upper shadow too long",
			candle: candleAt(1, 100, 105, 84, 102),
		},
		{
			// body=6, lower=10: lower < 2*body
			name:   "no match: lower shadow too short",
			candle: candleAt(1, 100, 106, 90, 106),
		},
		{
			// body=1, range=22: body <= 0.1*range, doji territory
			name:   "no match: body too small relative to range",
			candle: candleAt(1, 100, 101, 79, 100.5),
		},
		{
			// body=2, lower=16, upper=1.5, range=19.5: direction does not matter
			name:         "match: bearish candle with hammer shape",
			candle:       candleAt(1, 102, 103.5, 84, 100),
			wantMatch:    true,
			wantStrength: "8",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matches := DetectHammer([]candleentity.Candlestick{tt.candle})
			if !tt.wantMatch {
				assert.Empty(t, matches)
				return
			}
			require.Len(t, matches, 1)
			assert.Equal(t, PatternHammer, matches[0].PatternType)
			assert.Equal(t, tt.wantStrength, matches[0].Strength.String())
			assert.Nil(t, matches[0].PreviousDate)
		})
	}
}

func TestDetectDoji(t *testing.T) {
	tests := []struct {
		name      string
		candle    candleentity.Candlestick
		wantMatch bool
	}{
		{
			// body=0.5, range=20: body <= 1.0
			name:      "match: tiny body",
			candle:    candleAt(1, 100, 110, 90, 100.5),
			wantMatch: true,
		},
		{
			// body=0, range=20
			name:      "match: zero body",
			candle:    candleAt(1, 100, 110, 90, 100),
			wantMatch: true,
		},
		{
			// body=2, range=20: body > 1.0
			name:   "no match: body too large",
			candle: candleAt(1, 100, 110, 90, 102),
		},
		{
			// range=0 is excluded even though body=0
			name:   "no match: zero range",
			candle: candleAt(1, 100, 100, 100, 100),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matches := DetectDoji([]candleentity.Candlestick{tt.candle})
			if !tt.wantMatch {
				assert.Empty(t, matches)
				return
			}
			require.Len(t, matches, 1)
			assert.Equal(t, PatternDoji, matches[0].PatternType)
			// 実体が小さいほど強い
			assert.True(t, matches[0].Strength.GreaterThanOrEqual(decimal.RequireFromString("0.95")))
		})
	}
}

func TestDetectDoji_ZeroBodyStrengthIsOne(t *testing.T) {
	matches := DetectDoji([]candleentity.Candlestick{candleAt(1, 100, 110, 90, 100)})
	require.Len(t, matches, 1)
	assert.True(t, matches[0].Strength.Equal(decimal.NewFromInt(1)))
}

func TestDetectHarami(t *testing.T) {
	t.Run("bullish: small body inside a large bearish body", func(t *testing.T) {
		prev := candleAt(1, 110, 112, 88, 90) // 陰線 body=20
		cur := candleAt(2, 95, 106, 94, 105)  // body=10, [95,105] ⊂ [90,110]

		matches := DetectHarami([]candleentity.Candlestick{prev, cur})

		require.Len(t, matches, 1)
		assert.Equal(t, PatternBullishHarami, matches[0].PatternType)
		assert.True(t, matches[0].Strength.Equal(decimal.NewFromInt(2)))
		require.NotNil(t, matches[0].PreviousDate)
		assert.Equal(t, prev.CandleDate, *matches[0].PreviousDate)
	})

	t.Run("bearish: previous candle is bullish", func(t *testing.T) {
		prev := candleAt(1, 90, 112, 88, 110) // 陽線 body=20
		cur := candleAt(2, 105, 106, 94, 95)  // body=10

		matches := DetectHarami([]candleentity.Candlestick{prev, cur})

		require.Len(t, matches, 1)
		assert.Equal(t, PatternBearishHarami, matches[0].PatternType)
	})

	t.Run("no match: current body not contained", func(t *testing.T) {
		prev := candleAt(1, 110, 112, 88, 90)
		cur := candleAt(2, 85, 106, 84, 95) // body=10 but its low 85 < prev body low 90

		matches := DetectHarami([]candleentity.Candlestick{prev, cur})
		assert.Empty(t, matches)
	})

	t.Run("no match: previous body not large enough", func(t *testing.T) {
		prev := candleAt(1, 100, 112, 88, 90) // body=10
		cur := candleAt(2, 99, 106, 90, 91)   // body=8, 10 > 1.5*8 is false

		matches := DetectHarami([]candleentity.Candlestick{prev, cur})
		assert.Empty(t, matches)
	})

	t.Run("no match: zero current body is skipped", func(t *testing.T) {
		prev := candleAt(1, 110, 112, 88, 90)
		cur := candleAt(2, 100, 101, 99, 100)
		cur.Close = cur.Open

		matches := DetectHarami([]candleentity.Candlestick{prev, cur})
		assert.Empty(t, matches)
	})

	t.Run("fewer than two candles", func(t *testing.T) {
		assert.Empty(t, DetectHarami([]candleentity.Candlestick{candleAt(1, 100, 110, 90, 105)}))
		assert.Empty(t, DetectHarami(nil))
	})
}
