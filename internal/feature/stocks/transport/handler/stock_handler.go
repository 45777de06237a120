// Package handler はstocksフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"stockdata_backend/internal/api"
	"stockdata_backend/internal/feature/stocks/domain"
	"stockdata_backend/internal/feature/stocks/domain/entity"
	"stockdata_backend/internal/feature/stocks/transport/http/dto"
)

// StockUsecase は銘柄CRUDのユースケースインターフェースです。
// Following Go convention: interfaces are defined by the consumer (handler), not the provider (usecase).
type StockUsecase interface {
	ListStocks(ctx context.Context, exchange, query string) ([]entity.Stock, error)
	GetStock(ctx context.Context, id uint) (entity.Stock, error)
	CreateStock(ctx context.Context, s entity.Stock) (entity.Stock, error)
	UpdateStock(ctx context.Context, s entity.Stock) (entity.Stock, error)
	DeleteStock(ctx context.Context, id uint) error
}

// StockHandler は銘柄CRUDのHTTPリクエストを処理します。
type StockHandler struct {
	uc StockUsecase
}

// NewStockHandler は新しい StockHandler を作成します。
func NewStockHandler(uc StockUsecase) *StockHandler {
	return &StockHandler{uc: uc}
}

// List は銘柄一覧を返します。exchangeとq（シンボル・銘柄名の部分一致）で
// 絞り込めます。
//
// エンドポイント例:
// GET /stocks?exchange=BSE&q=TCS
func (h *StockHandler) List(c *gin.Context) {
	stocks, err := h.uc.ListStocks(c.Request.Context(), c.Query("exchange"), c.Query("q"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: err.Error()})
		return
	}
	out := make([]dto.StockResponse, 0, len(stocks))
	for _, s := range stocks {
		out = append(out, toResponse(s))
	}
	c.JSON(http.StatusOK, out)
}

// Get は銘柄を1件返します。
func (h *StockHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	s, err := h.uc.GetStock(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toResponse(s))
}

// Create は銘柄を新規作成します。
func (h *StockHandler) Create(c *gin.Context) {
	var req dto.StockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}
	s, err := h.uc.CreateStock(c.Request.Context(), entity.Stock{
		Symbol:   req.Symbol,
		Name:     req.Name,
		Exchange: req.Exchange,
		Group:    req.Group,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toResponse(s))
}

// Update は銘柄を更新します。
func (h *StockHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.StockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}
	s, err := h.uc.UpdateStock(c.Request.Context(), entity.Stock{
		ID:       id,
		Symbol:   req.Symbol,
		Name:     req.Name,
		Exchange: req.Exchange,
		Group:    req.Group,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toResponse(s))
}

// Delete は銘柄と紐づくローソク足を削除します。
func (h *StockHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.uc.DeleteStock(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func toResponse(s entity.Stock) dto.StockResponse {
	return dto.StockResponse{
		ID:       s.ID,
		Symbol:   s.Symbol,
		Name:     s.Name,
		Exchange: s.Exchange,
		Group:    s.Group,
	}
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid id"})
		return 0, false
	}
	return uint(id), true
}

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrStockNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrDuplicateStock),
		errors.Is(err, domain.ErrInvalidSymbol),
		errors.Is(err, domain.ErrSymbolRequired):
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: err.Error()})
	}
}
