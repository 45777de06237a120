package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	ingestentity "stockdata_backend/internal/feature/ingestion/domain/entity"
)

// mockImportLister はImportListerインターフェースのモック実装です。
type mockImportLister struct {
	ListRecentImportsFunc func(ctx context.Context, limit int) ([]ingestentity.ImportRecord, error)
}

func (m *mockImportLister) ListRecentImports(ctx context.Context, limit int) ([]ingestentity.ImportRecord, error) {
	return m.ListRecentImportsFunc(ctx, limit)
}

func setupImportsRouter(uc *mockImportLister) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewImportsHandler(uc)
	r := gin.New()
	r.GET("/imports", h.List)
	return r
}

func TestImportsHandler_List(t *testing.T) {
	router := setupImportsRouter(&mockImportLister{
		ListRecentImportsFunc: func(ctx context.Context, limit int) ([]ingestentity.ImportRecord, error) {
			assert.Equal(t, 50, limit, "default limit should be 50")
			return []ingestentity.ImportRecord{
				{
					ID:                    1,
					Filename:              "20250101_BSE.csv",
					Date:                  time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
					Exchange:              "BSE",
					UploadedAt:            time.Date(2025, 1, 2, 9, 30, 0, 0, time.UTC),
					StocksProcessed:       100,
					CandlesticksProcessed: 100,
				},
			}, nil
		},
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/imports", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{
		"id": 1,
		"filename": "20250101_BSE.csv",
		"date": "2025-01-01",
		"exchange": "BSE",
		"uploaded_at": "2025-01-02T09:30:00Z",
		"stocks_processed": 100,
		"candlesticks_processed": 100
	}]`, w.Body.String())
}

func TestImportsHandler_List_CustomLimit(t *testing.T) {
	router := setupImportsRouter(&mockImportLister{
		ListRecentImportsFunc: func(ctx context.Context, limit int) ([]ingestentity.ImportRecord, error) {
			assert.Equal(t, 5, limit)
			return []ingestentity.ImportRecord{}, nil
		},
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/imports?limit=5", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestImportsHandler_List_Error(t *testing.T) {
	router := setupImportsRouter(&mockImportLister{
		ListRecentImportsFunc: func(ctx context.Context, limit int) ([]ingestentity.ImportRecord, error) {
			return nil, errors.New("database unavailable")
		},
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/imports", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"database unavailable"}`, w.Body.String())
}
