// Package usecase implements candlestick pattern detection over stored candles.
package usecase

import (
	"time"

	"github.com/shopspring/decimal"

	candleentity "stockdata_backend/internal/feature/candlesticks/domain/entity"
)

// Pattern names as reported in API responses.
const (
	PatternHammer        = "Hammer"
	PatternDoji          = "Doji"
	PatternBullishHarami = "Bullish Harami"
	PatternBearishHarami = "Bearish Harami"
)

var (
	two         = decimal.NewFromInt(2)
	tenPercent  = decimal.RequireFromString("0.1")
	fivePercent = decimal.RequireFromString("0.05")
	oneAndAHalf = decimal.RequireFromString("1.5")
	decimalOne  = decimal.NewFromInt(1)
	decimalZero = decimal.Zero
)

// Match は検出された1つのパターンです。Strengthは大きいほど強い
// シグナルを表します。PreviousDateはHaramiのみ設定されます。
type Match struct {
	Candle       candleentity.Candlestick
	PatternType  string
	Strength     decimal.Decimal
	PreviousDate *time.Time
}

// DetectHammer はハンマーを検出します。条件は、下ヒゲが実体の2倍以上、
// 上ヒゲがレンジの10%以下、かつ実体がレンジの10%より大きいことです。
func DetectHammer(candles []candleentity.Candlestick) []Match {
	matches := []Match{}
	for _, c := range candles {
		body := c.Body()
		upper := c.UpperShadow()
		lower := c.LowerShadow()
		candleRange := c.Range()

		if lower.GreaterThanOrEqual(body.Mul(two)) &&
			upper.LessThanOrEqual(candleRange.Mul(tenPercent)) &&
			body.GreaterThan(candleRange.Mul(tenPercent)) {
			matches = append(matches, Match{
				Candle:      c,
				PatternType: PatternHammer,
				Strength:    lower.Div(body),
			})
		}
	}
	return matches
}

// DetectDoji は同事線を検出します。実体がレンジの5%以下で、
// レンジがゼロでないものです。
func DetectDoji(candles []candleentity.Candlestick) []Match {
	matches := []Match{}
	for _, c := range candles {
		body := c.Body()
		candleRange := c.Range()

		if candleRange.GreaterThan(decimalZero) &&
			body.LessThanOrEqual(candleRange.Mul(fivePercent)) {
			matches = append(matches, Match{
				Candle:      c,
				PatternType: PatternDoji,
				Strength:    decimalOne.Sub(body.Div(candleRange)),
			})
		}
	}
	return matches
}

// DetectHarami ははらみ線を検出します。日付昇順の2本組で、前の実体が
// 現在の実体の1.5倍より大きく、現在の実体が前の実体に完全に収まるものです。
// 前の足が陰線なら強気、陽線なら弱気と判定します。
func DetectHarami(candles []candleentity.Candlestick) []Match {
	matches := []Match{}
	if len(candles) < 2 {
		return matches
	}
	for i := 1; i < len(candles); i++ {
		cur, prev := candles[i], candles[i-1]

		curBody := cur.Body()
		prevBody := prev.Body()
		if curBody.IsZero() {
			continue
		}

		if prevBody.GreaterThan(curBody.Mul(oneAndAHalf)) &&
			cur.BodyHigh().LessThanOrEqual(prev.BodyHigh()) &&
			cur.BodyLow().GreaterThanOrEqual(prev.BodyLow()) {

			patternType := PatternBearishHarami
			if prev.Close.LessThan(prev.Open) {
				patternType = PatternBullishHarami
			}
			prevDate := prev.CandleDate
			matches = append(matches, Match{
				Candle:       cur,
				PatternType:  patternType,
				Strength:     prevBody.Div(curBody),
				PreviousDate: &prevDate,
			})
		}
	}
	return matches
}
