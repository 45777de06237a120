package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"stockdata_backend/internal/api"
	ingestentity "stockdata_backend/internal/feature/ingestion/domain/entity"
)

// ImportLister は取り込み履歴を読み出すユースケースのインターフェースです。
type ImportLister interface {
	ListRecentImports(ctx context.Context, limit int) ([]ingestentity.ImportRecord, error)
}

// ImportsHandler は取り込み履歴のHTTPリクエストを処理します。
type ImportsHandler struct {
	uc ImportLister
}

// NewImportsHandler は新しい ImportsHandler を作成します。
func NewImportsHandler(uc ImportLister) *ImportsHandler {
	return &ImportsHandler{uc: uc}
}

// List は直近の取り込み記録を新しい順に返します。
//
// エンドポイント例:
// GET /imports?limit=50
func (h *ImportsHandler) List(c *gin.Context) {
	limitStr := c.DefaultQuery("limit", "50")
	limit, _ := strconv.Atoi(limitStr)

	records, err := h.uc.ListRecentImports(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: err.Error()})
		return
	}

	out := make([]api.ImportRecordResponse, 0, len(records))
	for _, rec := range records {
		out = append(out, api.NewImportRecordResponse(rec))
	}
	c.JSON(http.StatusOK, out)
}
