// Package handler はingestionフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"stockdata_backend/internal/api"
	ingestentity "stockdata_backend/internal/feature/ingestion/domain/entity"
	"stockdata_backend/internal/feature/ingestion/mapping"
)

const (
	maxCSVSize = 10 << 20 // 10MB
	maxZIPSize = 50 << 20 // 50MB
)

// FileIngestor は1つのCSVファイルを取り込むユースケースのインターフェースです。
// Following Go convention: interfaces are defined by the consumer (handler), not the provider (usecase).
type FileIngestor interface {
	ProcessFile(ctx context.Context, path, filename string) ingestentity.FileReport
}

// ArchiveIngestor はZIPアーカイブを取り込むユースケースのインターフェースです。
type ArchiveIngestor interface {
	ProcessZip(ctx context.Context, path, name string) ingestentity.BulkReport
}

// UploadHandler はCSV/ZIPアップロードのHTTPリクエストを処理します。
type UploadHandler struct {
	csv      FileIngestor
	zip      ArchiveIngestor
	registry *mapping.Registry
}

// NewUploadHandler は新しい UploadHandler を作成します。
func NewUploadHandler(csv FileIngestor, zip ArchiveIngestor, registry *mapping.Registry) *UploadHandler {
	return &UploadHandler{csv: csv, zip: zip, registry: registry}
}

// UploadCSV は単一CSVファイルのアップロードを処理し、取り込みレポートを
// JSONで返します。ファイル名はそのまま取引日・取引所の判定に使われます。
//
// エンドポイント例:
// POST /upload/csv (multipart field: csv_file)
func (h *UploadHandler) UploadCSV(c *gin.Context) {
	fileHeader, err := c.FormFile("csv_file")
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "csv_file is required"})
		return
	}
	if fileHeader.Size > maxCSVSize {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "CSV file exceeds the 10MB limit"})
		return
	}
	if !strings.EqualFold(filepath.Ext(fileHeader.Filename), ".csv") {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "only .csv files are accepted"})
		return
	}

	path, cleanup, err := saveUpload(c, fileHeader)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: err.Error()})
		return
	}
	defer cleanup()

	report := h.csv.ProcessFile(c.Request.Context(), path, filepath.Base(fileHeader.Filename))

	status := http.StatusOK
	if !report.Success {
		status = http.StatusBadRequest
	}
	c.JSON(status, api.NewFileReportResponse(report))
}

// UploadZIP はZIPアーカイブのアップロードを処理し、集計レポートをJSONで
// 返します。アーカイブ内の個々のファイルの失敗はレポートに載るだけで、
// レスポンスのステータスには影響しません。
//
// エンドポイント例:
// POST /upload/zip (multipart field: zip_file)
func (h *UploadHandler) UploadZIP(c *gin.Context) {
	fileHeader, err := c.FormFile("zip_file")
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "zip_file is required"})
		return
	}
	if fileHeader.Size > maxZIPSize {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "ZIP file exceeds the 50MB limit"})
		return
	}
	if !strings.EqualFold(filepath.Ext(fileHeader.Filename), ".zip") {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "only .zip files are accepted"})
		return
	}

	path, cleanup, err := saveUpload(c, fileHeader)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: err.Error()})
		return
	}
	defer cleanup()

	report := h.zip.ProcessZip(c.Request.Context(), path, filepath.Base(fileHeader.Filename))

	status := http.StatusOK
	if !report.Success {
		status = http.StatusBadRequest
	}
	c.JSON(status, api.NewBulkReportResponse(report))
}

// ListExchanges は取り込みに対応している取引所コードの一覧を返します。
//
// エンドポイント例:
// GET /exchanges
func (h *UploadHandler) ListExchanges(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"exchanges": h.registry.Supported()})
}

// saveUpload はアップロードを一時ディレクトリへ保存し、パスと
// 後始末の関数を返します。
func saveUpload(c *gin.Context, fh *multipart.FileHeader) (string, func(), error) {
	dir, err := os.MkdirTemp("", "upload_*")
	if err != nil {
		return "", nil, fmt.Errorf("failed to create scratch directory: %w", err)
	}
	path := filepath.Join(dir, filepath.Base(fh.Filename))
	if err := c.SaveUploadedFile(fh, path); err != nil {
		os.RemoveAll(dir)
		return "", nil, fmt.Errorf("failed to save uploaded file: %w", err)
	}
	return path, func() { os.RemoveAll(dir) }, nil
}
