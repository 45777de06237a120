package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"stockdata_backend/internal/feature/candlesticks/domain"
	"stockdata_backend/internal/feature/candlesticks/domain/entity"
)

// mockCandlestickUsecase はCandlestickUsecaseインターフェースのモック実装です。
type mockCandlestickUsecase struct {
	ListCandlesticksFunc  func(ctx context.Context, stockID uint, from, to time.Time) ([]entity.Candlestick, error)
	GetCandlestickFunc    func(ctx context.Context, id uint) (entity.Candlestick, error)
	CreateCandlestickFunc func(ctx context.Context, c entity.Candlestick) (entity.Candlestick, error)
	UpdateCandlestickFunc func(ctx context.Context, c entity.Candlestick) (entity.Candlestick, error)
	DeleteCandlestickFunc func(ctx context.Context, id uint) error
}

func (m *mockCandlestickUsecase) ListCandlesticks(ctx context.Context, stockID uint, from, to time.Time) ([]entity.Candlestick, error) {
	return m.ListCandlesticksFunc(ctx, stockID, from, to)
}

func (m *mockCandlestickUsecase) GetCandlestick(ctx context.Context, id uint) (entity.Candlestick, error) {
	return m.GetCandlestickFunc(ctx, id)
}

func (m *mockCandlestickUsecase) CreateCandlestick(ctx context.Context, c entity.Candlestick) (entity.Candlestick, error) {
	return m.CreateCandlestickFunc(ctx, c)
}

func (m *mockCandlestickUsecase) UpdateCandlestick(ctx context.Context, c entity.Candlestick) (entity.Candlestick, error) {
	return m.UpdateCandlestickFunc(ctx, c)
}

func (m *mockCandlestickUsecase) DeleteCandlestick(ctx context.Context, id uint) error {
	return m.DeleteCandlestickFunc(ctx, id)
}

func setupRouter(uc *mockCandlestickUsecase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewCandlestickHandler(uc)
	r := gin.New()
	r.GET("/candlesticks", h.List)
	r.GET("/candlesticks/:id", h.Get)
	r.POST("/candlesticks", h.Create)
	r.PUT("/candlesticks/:id", h.Update)
	r.DELETE("/candlesticks/:id", h.Delete)
	return r
}

func TestCandlestickHandler_List(t *testing.T) {
	router := setupRouter(&mockCandlestickUsecase{
		ListCandlesticksFunc: func(ctx context.Context, stockID uint, from, to time.Time) ([]entity.Candlestick, error) {
			assert.Equal(t, uint(1), stockID)
			assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), from)
			assert.True(t, to.IsZero())
			return []entity.Candlestick{
				{
					ID:         10,
					StockID:    1,
					CandleDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
					Open:       decimal.NewFromInt(100),
					High:       decimal.NewFromInt(110),
					Low:        decimal.NewFromInt(90),
					Close:      decimal.NewFromInt(105),
					PrevClose:  decimal.NewFromInt(99),
				},
			}, nil
		},
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/candlesticks?stock_id=1&from=2025-01-01", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{
		"id": 10,
		"stock_id": 1,
		"candle_date": "2025-01-01",
		"open_price": "100",
		"high_price": "110",
		"low_price": "90",
		"close_price": "105",
		"prev_close_price": "99",
		"number_of_trades": null,
		"number_of_shares": null,
		"net_turnover": null
	}]`, w.Body.String())
}

func TestCandlestickHandler_List_BadDate(t *testing.T) {
	router := setupRouter(&mockCandlestickUsecase{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/candlesticks?from=2025/01/01", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"from must be YYYY-MM-DD"}`, w.Body.String())
}

func TestCandlestickHandler_Get(t *testing.T) {
	tests := []struct {
		name           string
		url            string
		getFunc        func(ctx context.Context, id uint) (entity.Candlestick, error)
		expectedStatus int
	}{
		{
			name: "success",
			url:  "/candlesticks/10",
			getFunc: func(ctx context.Context, id uint) (entity.Candlestick, error) {
				return entity.Candlestick{ID: 10, StockID: 1, CandleDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}, nil
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "not found",
			url:  "/candlesticks/99",
			getFunc: func(ctx context.Context, id uint) (entity.Candlestick, error) {
				return entity.Candlestick{}, domain.ErrCandlestickNotFound
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "invalid id",
			url:            "/candlesticks/abc",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupRouter(&mockCandlestickUsecase{GetCandlestickFunc: tt.getFunc})

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestCandlestickHandler_Create(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		createFunc     func(ctx context.Context, cd entity.Candlestick) (entity.Candlestick, error)
		expectedStatus int
	}{
		{
			name: "success with optional fields",
			body: `{
				"stock_id": 1,
				"candle_date": "2025-01-01",
				"open_price": "100",
				"high_price": "110",
				"low_price": "90",
				"close_price": "105",
				"prev_close_price": "99",
				"number_of_trades": 1500
			}`,
			createFunc: func(ctx context.Context, cd entity.Candlestick) (entity.Candlestick, error) {
				assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), cd.CandleDate)
				assert.True(t, cd.NumberOfTrades.Valid)
				assert.Equal(t, int64(1500), cd.NumberOfTrades.Int64)
				assert.False(t, cd.NumberOfShares.Valid)
				assert.False(t, cd.NetTurnover.Valid)
				cd.ID = 10
				return cd, nil
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "missing stock_id",
			body:           `{"candle_date":"2025-01-01"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "bad date format",
			body:           `{"stock_id":1,"candle_date":"01/01/2025"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "duplicate",
			body: `{"stock_id":1,"candle_date":"2025-01-01"}`,
			createFunc: func(ctx context.Context, cd entity.Candlestick) (entity.Candlestick, error) {
				return entity.Candlestick{}, domain.ErrDuplicateCandlestick
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "high price relation violated",
			body: `{"stock_id":1,"candle_date":"2025-01-01","open_price":"100","high_price":"95","low_price":"90","close_price":"94"}`,
			createFunc: func(ctx context.Context, cd entity.Candlestick) (entity.Candlestick, error) {
				return entity.Candlestick{}, domain.ErrHighPriceRelation
			},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupRouter(&mockCandlestickUsecase{CreateCandlestickFunc: tt.createFunc})

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/candlesticks", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestCandlestickHandler_Update(t *testing.T) {
	router := setupRouter(&mockCandlestickUsecase{
		UpdateCandlestickFunc: func(ctx context.Context, cd entity.Candlestick) (entity.Candlestick, error) {
			assert.Equal(t, uint(10), cd.ID, "path id should be carried into the entity")
			return cd, nil
		},
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/candlesticks/10",
		strings.NewReader(`{"stock_id":1,"candle_date":"2025-01-01","open_price":"100","high_price":"110","low_price":"90","close_price":"105"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCandlestickHandler_Delete(t *testing.T) {
	tests := []struct {
		name           string
		deleteFunc     func(ctx context.Context, id uint) error
		expectedStatus int
	}{
		{
			name:           "success",
			deleteFunc:     func(ctx context.Context, id uint) error { return nil },
			expectedStatus: http.StatusNoContent,
		},
		{
			name:           "not found",
			deleteFunc:     func(ctx context.Context, id uint) error { return domain.ErrCandlestickNotFound },
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupRouter(&mockCandlestickUsecase{DeleteCandlestickFunc: tt.deleteFunc})

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodDelete, "/candlesticks/1", nil)
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}
