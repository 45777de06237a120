package usecase

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"stockdata_backend/internal/feature/ingestion/domain"
	ingestentity "stockdata_backend/internal/feature/ingestion/domain/entity"
)

// FileIngestor は1ファイルを取り込むエンジンのインターフェースです。
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider.
type FileIngestor interface {
	ProcessFile(ctx context.Context, path, filename string) ingestentity.FileReport
}

// ImportRecordRepository は取り込み済みファイルのメタデータを永続化します。
type ImportRecordRepository interface {
	Create(ctx context.Context, rec ingestentity.ImportRecord) (ingestentity.ImportRecord, error)
	ListRecent(ctx context.Context, limit int) ([]ingestentity.ImportRecord, error)
}

// BulkIngestUsecase はZIPアーカイブ内のすべてのCSVファイルを順番に取り込み、
// 集計レポートを返します。1ファイルの失敗はそのファイルだけに閉じ、
// バッチ全体は継続します。展開に使う一時ディレクトリはどの経路でも
// 確実に解放されます。
type BulkIngestUsecase struct {
	engine  FileIngestor
	imports ImportRecordRepository

	processedFiles      []ingestentity.ProcessedFile
	failedFiles         []ingestentity.FailedFile
	totalFilesProcessed int
	totalStocks         int
	totalCandlesticks   int
	warnings            []string
	errors              []string
}

// NewBulkIngestUsecase は新しいBulkIngestUsecaseを作成します。
func NewBulkIngestUsecase(engine FileIngestor, imports ImportRecordRepository) *BulkIngestUsecase {
	return &BulkIngestUsecase{engine: engine, imports: imports}
}

func (u *BulkIngestUsecase) reset() {
	u.processedFiles = []ingestentity.ProcessedFile{}
	u.failedFiles = []ingestentity.FailedFile{}
	u.totalFilesProcessed = 0
	u.totalStocks = 0
	u.totalCandlesticks = 0
	u.warnings = []string{}
	u.errors = []string{}
}

// ProcessZip はzipPathのアーカイブを展開し、見つかったCSVを
// ディレクトリ走査順に1つずつ取り込みます。zipNameはエラーメッセージ用の
// 元のアップロードファイル名です。
func (u *BulkIngestUsecase) ProcessZip(ctx context.Context, zipPath, zipName string) ingestentity.BulkReport {
	u.reset()
	slog.Info("starting bulk ZIP processing", "zip", zipName)

	tempDir, err := os.MkdirTemp("", "bulk_csv_*")
	if err != nil {
		return u.failReport(fmt.Errorf("failed to create scratch directory: %w", err))
	}
	defer os.RemoveAll(tempDir)

	if err := extractZip(zipPath, tempDir); err != nil {
		return u.failReport(fmt.Errorf("failed to process ZIP file %s: %w", zipName, err))
	}

	csvFiles, err := findCSVFiles(tempDir)
	if err != nil {
		return u.failReport(fmt.Errorf("failed to scan extracted files: %w", err))
	}
	if len(csvFiles) == 0 {
		u.errors = append(u.errors, domain.ErrNoCSVFiles.Error())
		return u.failReport(fmt.Errorf("%w: %s", domain.ErrNoCSVFiles, zipName))
	}
	slog.Info("found CSV files in archive", "zip", zipName, "count", len(csvFiles))

	// エンジンは1インスタンスを使い回す。カウンタはエンジン側が
	// ファイルごとにリセットする。
	for i, path := range csvFiles {
		filename := filepath.Base(path)
		slog.Info("processing archive member", "file", filename, "index", i+1, "total", len(csvFiles))
		u.processSingleFile(ctx, path, filename)
	}

	slog.Info("bulk processing completed", "zip", zipName,
		"processed", u.totalFilesProcessed, "failed", len(u.failedFiles),
		"stocks", u.totalStocks, "candlesticks", u.totalCandlesticks)

	return ingestentity.BulkReport{
		Success:             true,
		ProcessedFiles:      u.processedFiles,
		FailedFiles:         u.failedFiles,
		TotalFilesProcessed: u.totalFilesProcessed,
		TotalFilesFailed:    len(u.failedFiles),
		TotalStocks:         u.totalStocks,
		TotalCandlesticks:   u.totalCandlesticks,
		Warnings:            u.warnings,
		Errors:              u.errors,
	}
}

// ListRecentImports は直近の取り込み記録を新しい順に返します。
func (u *BulkIngestUsecase) ListRecentImports(ctx context.Context, limit int) ([]ingestentity.ImportRecord, error) {
	return u.imports.ListRecent(ctx, limit)
}

func (u *BulkIngestUsecase) processSingleFile(ctx context.Context, path, filename string) {
	report := u.engine.ProcessFile(ctx, path, filename)

	if !report.Success {
		slog.Error("archive member failed", "file", filename, "error", report.Error)
		u.recordFailure(filename, report)
		return
	}

	// 成功したファイルだけメタデータを記録する
	if _, err := u.imports.Create(ctx, ingestentity.ImportRecord{
		Filename:              filename,
		Date:                  report.Date,
		Exchange:              report.Exchange,
		StocksProcessed:       report.StocksProcessed,
		CandlesticksProcessed: report.CandlesticksProcessed,
	}); err != nil {
		slog.Error("failed to record import metadata", "file", filename, "error", err)
		report.Error = fmt.Sprintf("failed to record import metadata: %v", err)
		u.recordFailure(filename, report)
		return
	}

	u.totalStocks += report.StocksProcessed
	u.totalCandlesticks += report.CandlesticksProcessed
	u.totalFilesProcessed++
	u.processedFiles = append(u.processedFiles, ingestentity.ProcessedFile{
		Filename:              filename,
		Date:                  report.Date,
		Exchange:              report.Exchange,
		StocksProcessed:       report.StocksProcessed,
		CandlesticksProcessed: report.CandlesticksProcessed,
		Warnings:              report.Warnings,
		Errors:                report.Errors,
	})
	for _, w := range report.Warnings {
		u.warnings = append(u.warnings, filename+": "+w)
	}
	for _, e := range report.Errors {
		u.errors = append(u.errors, filename+": "+e)
	}
}

func (u *BulkIngestUsecase) recordFailure(filename string, report ingestentity.FileReport) {
	u.failedFiles = append(u.failedFiles, ingestentity.FailedFile{
		Filename:              filename,
		Error:                 report.Error,
		StocksProcessed:       report.StocksProcessed,
		CandlesticksProcessed: report.CandlesticksProcessed,
	})
	u.errors = append(u.errors, filename+": "+report.Error)
	for _, e := range report.Errors {
		u.errors = append(u.errors, filename+": "+e)
	}
}

func (u *BulkIngestUsecase) failReport(err error) ingestentity.BulkReport {
	slog.Error("bulk processing failed", "error", err)
	return ingestentity.BulkReport{
		Success:             false,
		Error:               err.Error(),
		ProcessedFiles:      u.processedFiles,
		FailedFiles:         u.failedFiles,
		TotalFilesProcessed: u.totalFilesProcessed,
		TotalFilesFailed:    len(u.failedFiles),
		TotalStocks:         u.totalStocks,
		TotalCandlesticks:   u.totalCandlesticks,
		Warnings:            u.warnings,
		Errors:              u.errors,
	}
}

// extractZip はアーカイブの全メンバーをdestDir配下へ展開します。
// destDirの外を指すパス（zip slip）は拒否します。
func extractZip(zipPath, destDir string) error {
	zr, err := zip.OpenReader(zipPath)
	if err != nil {
		return fmt.Errorf("invalid ZIP archive: %w", err)
	}
	defer zr.Close()

	cleanDest := filepath.Clean(destDir)
	for _, member := range zr.File {
		target := filepath.Join(cleanDest, member.Name)
		if !strings.HasPrefix(target, cleanDest+string(os.PathSeparator)) {
			return fmt.Errorf("illegal path in archive: %s", member.Name)
		}
		if member.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return err
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return err
		}
		if err := extractMember(member, target); err != nil {
			return fmt.Errorf("failed to extract %s: %w", member.Name, err)
		}
	}
	return nil
}

func extractMember(member *zip.File, target string) error {
	rc, err := member.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, rc)
	return err
}

// findCSVFiles はdir以下を再帰的に走査し、隠しファイルを除く
// .csv（大文字小文字を問わない）のパスを走査順で返します。
func findCSVFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		name := d.Name()
		if strings.HasPrefix(name, ".") {
			return nil
		}
		if strings.EqualFold(filepath.Ext(name), ".csv") {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}
