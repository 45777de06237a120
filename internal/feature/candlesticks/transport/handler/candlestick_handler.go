// Package handler はcandlesticksフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"stockdata_backend/internal/api"
	"stockdata_backend/internal/feature/candlesticks/domain"
	"stockdata_backend/internal/feature/candlesticks/domain/entity"
	"stockdata_backend/internal/feature/candlesticks/transport/http/dto"
)

const dateLayout = "2006-01-02"

// CandlestickUsecase はローソク足CRUDのユースケースインターフェースです。
// Following Go convention: interfaces are defined by the consumer (handler), not the provider (usecase).
type CandlestickUsecase interface {
	ListCandlesticks(ctx context.Context, stockID uint, from, to time.Time) ([]entity.Candlestick, error)
	GetCandlestick(ctx context.Context, id uint) (entity.Candlestick, error)
	CreateCandlestick(ctx context.Context, c entity.Candlestick) (entity.Candlestick, error)
	UpdateCandlestick(ctx context.Context, c entity.Candlestick) (entity.Candlestick, error)
	DeleteCandlestick(ctx context.Context, id uint) error
}

// CandlestickHandler はローソク足CRUDのHTTPリクエストを処理します。
// 価格の大小関係の検証は手入力経路であるこのCRUDにだけ存在します。
type CandlestickHandler struct {
	uc CandlestickUsecase
}

// NewCandlestickHandler は新しい CandlestickHandler を作成します。
func NewCandlestickHandler(uc CandlestickUsecase) *CandlestickHandler {
	return &CandlestickHandler{uc: uc}
}

// List はローソク足一覧を日付昇順で返します。
//
// エンドポイント例:
// GET /candlesticks?stock_id=1&from=2025-01-01&to=2025-01-31
func (h *CandlestickHandler) List(c *gin.Context) {
	stockID, _ := strconv.ParseUint(c.Query("stock_id"), 10, 32)
	from, ok := parseDateQuery(c, "from")
	if !ok {
		return
	}
	to, ok := parseDateQuery(c, "to")
	if !ok {
		return
	}

	candles, err := h.uc.ListCandlesticks(c.Request.Context(), uint(stockID), from, to)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: err.Error()})
		return
	}
	out := make([]dto.CandlestickResponse, 0, len(candles))
	for _, cd := range candles {
		out = append(out, toResponse(cd))
	}
	c.JSON(http.StatusOK, out)
}

// Get はローソク足を1件返します。
func (h *CandlestickHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	cd, err := h.uc.GetCandlestick(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toResponse(cd))
}

// Create はローソク足を手入力で新規作成します。
func (h *CandlestickHandler) Create(c *gin.Context) {
	cd, ok := bindCandlestick(c, 0)
	if !ok {
		return
	}
	created, err := h.uc.CreateCandlestick(c.Request.Context(), cd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toResponse(created))
}

// Update はローソク足を更新します。
func (h *CandlestickHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	cd, ok := bindCandlestick(c, id)
	if !ok {
		return
	}
	updated, err := h.uc.UpdateCandlestick(c.Request.Context(), cd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toResponse(updated))
}

// Delete はローソク足を1件削除します。
func (h *CandlestickHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.uc.DeleteCandlestick(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func bindCandlestick(c *gin.Context, id uint) (entity.Candlestick, bool) {
	var req dto.CandlestickRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return entity.Candlestick{}, false
	}
	date, err := time.ParseInLocation(dateLayout, req.CandleDate, time.UTC)
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "candle_date must be YYYY-MM-DD"})
		return entity.Candlestick{}, false
	}

	cd := entity.Candlestick{
		ID:         id,
		StockID:    req.StockID,
		CandleDate: date,
		Open:       req.Open,
		High:       req.High,
		Low:        req.Low,
		Close:      req.Close,
		PrevClose:  req.PrevClose,
	}
	if req.NumberOfTrades != nil {
		cd.NumberOfTrades = sql.NullInt64{Int64: *req.NumberOfTrades, Valid: true}
	}
	if req.NumberOfShares != nil {
		cd.NumberOfShares = sql.NullInt64{Int64: *req.NumberOfShares, Valid: true}
	}
	if req.NetTurnover != nil {
		cd.NetTurnover = decimal.NullDecimal{Decimal: *req.NetTurnover, Valid: true}
	}
	return cd, true
}

func toResponse(cd entity.Candlestick) dto.CandlestickResponse {
	out := dto.CandlestickResponse{
		ID:         cd.ID,
		StockID:    cd.StockID,
		CandleDate: cd.CandleDate.UTC().Format(dateLayout),
		Open:       cd.Open,
		High:       cd.High,
		Low:        cd.Low,
		Close:      cd.Close,
		PrevClose:  cd.PrevClose,
	}
	if cd.NumberOfTrades.Valid {
		v := cd.NumberOfTrades.Int64
		out.NumberOfTrades = &v
	}
	if cd.NumberOfShares.Valid {
		v := cd.NumberOfShares.Int64
		out.NumberOfShares = &v
	}
	if cd.NetTurnover.Valid {
		v := cd.NetTurnover.Decimal
		out.NetTurnover = &v
	}
	return out
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid id"})
		return 0, false
	}
	return uint(id), true
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

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrCandlestickNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrDuplicateCandlestick),
		errors.Is(err, domain.ErrNegativePrice),
		errors.Is(err, domain.ErrHighPriceRelation),
		errors.Is(err, domain.ErrLowPriceRelation):
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: err.Error()})
	}
}
