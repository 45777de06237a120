// Package handler はpatternsフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"stockdata_backend/internal/api"
	"stockdata_backend/internal/feature/patterns/transport/http/dto"
	"stockdata_backend/internal/feature/patterns/usecase"
)

const dateLayout = "2006-01-02"

// PatternUsecase はパターン検出のユースケースインターフェースです。
// Following Go convention: interfaces are defined by the consumer (handler), not the provider (usecase).
type PatternUsecase interface {
	Detect(ctx context.Context, symbol, exchange, pattern string, from, to time.Time) ([]usecase.Match, error)
}

// PatternHandler はパターン検出のHTTPリクエストを処理します。
type PatternHandler struct {
	uc PatternUsecase
}

// NewPatternHandler は新しい PatternHandler を作成します。
func NewPatternHandler(uc PatternUsecase) *PatternHandler {
	return &PatternHandler{uc: uc}
}

// Detect は指定銘柄のローソク足に対してパターン検出を実行し、
// 検出結果を日付昇順で返します。
//
// エンドポイント例:
// GET /patterns/TCS?exchange=NSE&pattern=hammer&from=2025-01-01&to=2025-03-31
func (h *PatternHandler) Detect(c *gin.Context) {
	symbol := strings.ToUpper(strings.TrimSpace(c.Param("symbol")))
	if symbol == "" {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "symbol is required"})
		return
	}
	exchange := strings.ToUpper(strings.TrimSpace(c.Query("exchange")))
	if exchange == "" {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "exchange is required"})
		return
	}
	pattern := c.DefaultQuery("pattern", "hammer")

	from, ok := parseDateQuery(c, "from")
	if !ok {
		return
	}
	to, ok := parseDateQuery(c, "to")
	if !ok {
		return
	}

	matches, err := h.uc.Detect(c.Request.Context(), symbol, exchange, pattern, from, to)
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	out := dto.PatternScanResponse{
		Symbol:   symbol,
		Exchange: exchange,
		Pattern:  strings.ToLower(pattern),
		Matches:  make([]dto.PatternMatchResponse, 0, len(matches)),
	}
	for _, m := range matches {
		out.Matches = append(out.Matches, toMatchResponse(m))
	}
	c.JSON(http.StatusOK, out)
}

func toMatchResponse(m usecase.Match) dto.PatternMatchResponse {
	r := dto.PatternMatchResponse{
		CandleDate:  m.Candle.CandleDate.UTC().Format(dateLayout),
		PatternType: m.PatternType,
		Strength:    m.Strength.Round(4),
		Open:        m.Candle.Open,
		High:        m.Candle.High,
		Low:         m.Candle.Low,
		Close:       m.Candle.Close,
	}
	if m.PreviousDate != nil {
		d := m.PreviousDate.UTC().Format(dateLayout)
		r.PreviousDate = &d
	}
	return r
}

func parseDateQuery(c *gin.Context, name string) (time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return time.Time{}, true
	}
	t, err := time.ParseInLocation(dateLayout, raw, time.UTC)
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: name + " must be YYYY-MM-DD"})
		return time.Time{}, false
	}
	return t, true
}
