// Package api defines the JSON response shapes shared across HTTP handlers.
package api

import (
	ingestentity "stockdata_backend/internal/feature/ingestion/domain/entity"
)

// ErrorResponse is the generic error body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// FileReportResponse is the result of ingesting one CSV file.
// Success reflects whether the file could be opened, parsed and mapped;
// individual row failures are listed in Errors without flipping it.
type FileReportResponse struct {
	Success               bool     `json:"success"`
	Error                 string   `json:"error,omitempty"`
	StocksProcessed       int      `json:"stocks_processed"`
	CandlesticksProcessed int      `json:"candlesticks_processed"`
	Date                  string   `json:"date,omitempty"`
	Exchange              string   `json:"exchange,omitempty"`
	Warnings              []string `json:"warnings"`
	Errors                []string `json:"errors"`
}

// ProcessedFileResponse summarizes one successfully ingested archive member.
type ProcessedFileResponse struct {
	Filename              string   `json:"filename"`
	Date                  string   `json:"date"`
	Exchange              string   `json:"exchange"`
	StocksProcessed       int      `json:"stocks_processed"`
	CandlesticksProcessed int      `json:"candlesticks_processed"`
	Warnings              []string `json:"warnings"`
	Errors                []string `json:"errors"`
}

// FailedFileResponse records one archive member that could not be ingested.
type FailedFileResponse struct {
	Filename              string `json:"filename"`
	Error                 string `json:"error"`
	StocksProcessed       int    `json:"stocks_processed"`
	CandlesticksProcessed int    `json:"candlesticks_processed"`
}

// BulkReportResponse is the aggregate result of ingesting a ZIP archive.
type BulkReportResponse struct {
	Success             bool                    `json:"success"`
	Error               string                  `json:"error,omitempty"`
	ProcessedFiles      []ProcessedFileResponse `json:"processed_files"`
	FailedFiles         []FailedFileResponse    `json:"failed_files"`
	TotalFilesProcessed int                     `json:"total_files_processed"`
	TotalFilesFailed    int                     `json:"total_files_failed"`
	TotalStocks         int                     `json:"total_stocks"`
	TotalCandlesticks   int                     `json:"total_candlesticks"`
	Warnings            []string                `json:"warnings"`
	Errors              []string                `json:"errors"`
}

// ImportRecordResponse is one row of the import history listing.
type ImportRecordResponse struct {
	ID                    uint   `json:"id"`
	Filename              string `json:"filename"`
	Date                  string `json:"date"`
	Exchange              string `json:"exchange"`
	UploadedAt            string `json:"uploaded_at"`
	StocksProcessed       int    `json:"stocks_processed"`
	CandlesticksProcessed int    `json:"candlesticks_processed"`
}

const dateLayout = "2006-01-02"

// NewFileReportResponse converts an engine report into its JSON shape.
func NewFileReportResponse(r ingestentity.FileReport) FileReportResponse {
	out := FileReportResponse{
		Success:               r.Success,
		Error:                 r.Error,
		StocksProcessed:       r.StocksProcessed,
		CandlesticksProcessed: r.CandlesticksProcessed,
		Exchange:              r.Exchange,
		Warnings:              r.Warnings,
		Errors:                r.Errors,
	}
	if !r.Date.IsZero() {
		out.Date = r.Date.Format(dateLayout)
	}
	return out
}

// NewBulkReportResponse converts an orchestrator report into its JSON shape.
func NewBulkReportResponse(r ingestentity.BulkReport) BulkReportResponse {
	processed := make([]ProcessedFileResponse, 0, len(r.ProcessedFiles))
	for _, f := range r.ProcessedFiles {
		processed = append(processed, ProcessedFileResponse{
			Filename:              f.Filename,
			Date:                  f.Date.Format(dateLayout),
			Exchange:              f.Exchange,
			StocksProcessed:       f.StocksProcessed,
			CandlesticksProcessed: f.CandlesticksProcessed,
			Warnings:              f.Warnings,
			Errors:                f.Errors,
		})
	}
	failed := make([]FailedFileResponse, 0, len(r.FailedFiles))
	for _, f := range r.FailedFiles {
		failed = append(failed, FailedFileResponse{
			Filename:              f.Filename,
			Error:                 f.Error,
			StocksProcessed:       f.StocksProcessed,
			CandlesticksProcessed: f.CandlesticksProcessed,
		})
	}
	return BulkReportResponse{
		Success:             r.Success,
		Error:               r.Error,
		ProcessedFiles:      processed,
		FailedFiles:         failed,
		TotalFilesProcessed: r.TotalFilesProcessed,
		TotalFilesFailed:    r.TotalFilesFailed,
		TotalStocks:         r.TotalStocks,
		TotalCandlesticks:   r.TotalCandlesticks,
		Warnings:            r.Warnings,
		Errors:              r.Errors,
	}
}

// NewImportRecordResponse converts an import record into its JSON shape.
func NewImportRecordResponse(rec ingestentity.ImportRecord) ImportRecordResponse {
	return ImportRecordResponse{
		ID:                    rec.ID,
		Filename:              rec.Filename,
		Date:                  rec.Date.Format(dateLayout),
		Exchange:              rec.Exchange,
		UploadedAt:            rec.UploadedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		StocksProcessed:       rec.StocksProcessed,
		CandlesticksProcessed: rec.CandlesticksProcessed,
	}
}
