// Package usecase implements the CSV ingestion pipeline: filename parsing,
// row normalization, the single-file engine and the ZIP archive orchestrator.
package usecase

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	candleentity "stockdata_backend/internal/feature/candlesticks/domain/entity"
	"stockdata_backend/internal/feature/ingestion/domain"
	ingestentity "stockdata_backend/internal/feature/ingestion/domain/entity"
	"stockdata_backend/internal/feature/ingestion/mapping"
	stockentity "stockdata_backend/internal/feature/stocks/domain/entity"
)

// IngestTx はファイル単位のトランザクション内で使える書き込み操作です。
// get-or-create はユニークキーで既存行を探し、無ければ作成します。
// 既存行のフィールドを上書きすることはありません。
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type IngestTx interface {
	GetOrCreateStock(ctx context.Context, s stockentity.Stock) (stockentity.Stock, bool, error)
	GetOrCreateCandlestick(ctx context.Context, c candleentity.Candlestick) (candleentity.Candlestick, bool, error)
}

// IngestStore は1ファイル分のアトミックな作業単位を提供します。
type IngestStore interface {
	WithinTx(ctx context.Context, fn func(tx IngestTx) error) error
}

// CacheInvalidator は取り込みで新しいローソク足が出来た銘柄のキャッシュを
// 無効化します。nilを渡した場合は何もしません。
type CacheInvalidator interface {
	Invalidate(ctx context.Context, symbol, exchange string)
}

// CSVIngestUsecase は1つのCSVファイルを取り込むエンジンです。
// 行の失敗はその行だけを捨てて処理を続行し、構造的な失敗
// （ファイル名・ヘッダ・I/O）のみがファイル全体を失敗させます。
// カウンタは各ファイルの処理開始時にリセットされるため、
// 1つのインスタンスを複数ファイルで使い回せます。
type CSVIngestUsecase struct {
	registry *mapping.Registry
	store    IngestStore
	cache    CacheInvalidator

	stocksProcessed       int
	candlesticksProcessed int
	warnings              []string
	errors                []string
	touched               map[string]struct{}
}

// NewCSVIngestUsecase は新しいCSVIngestUsecaseを作成します。cacheはnil可です。
func NewCSVIngestUsecase(registry *mapping.Registry, store IngestStore, cache CacheInvalidator) *CSVIngestUsecase {
	return &CSVIngestUsecase{registry: registry, store: store, cache: cache}
}

func (u *CSVIngestUsecase) reset() {
	u.stocksProcessed = 0
	u.candlesticksProcessed = 0
	u.warnings = []string{}
	u.errors = []string{}
	u.touched = map[string]struct{}{}
}

// ProcessFile はpathのCSVを取り込み、結果レポートを返します。
// filenameは元のアップロードファイル名で、取引日と取引所の判定に使います。
// レポートのSuccessはファイルを開いてパースできたかどうかであり、
// 一部の行が失敗してもtrueのままです。
func (u *CSVIngestUsecase) ProcessFile(ctx context.Context, path, filename string) ingestentity.FileReport {
	u.reset()
	slog.Info("starting CSV processing", "filename", filename)

	candleDate, exchange, err := ParseFilename(filename, u.registry)
	if err != nil {
		return u.failReport(err)
	}
	slog.Info("parsed filename", "date", candleDate.Format("2006-01-02"), "exchange", exchange)

	// ファイル名検証を通過していれば存在するはずだが、念のため確認する
	m, ok := u.registry.Lookup(exchange)
	if !ok {
		return u.failReport(fmt.Errorf("no column mapping found for exchange: %s", exchange))
	}

	f, err := os.Open(path)
	if err != nil {
		return u.failReport(fmt.Errorf("failed to open CSV file: %w", err))
	}
	defer f.Close()

	delimiter, err := detectDelimiter(f)
	if err != nil {
		return u.failReport(fmt.Errorf("failed to read CSV file: %w", err))
	}

	reader := csv.NewReader(f)
	reader.Comma = delimiter
	// 取引所フィードは行によってカラム数が揺れることがあるので許容する
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return u.failReport(fmt.Errorf("failed to read CSV header: %w", err))
	}

	colIndex := make(map[string]int, len(header))
	for i, h := range header {
		if _, dup := colIndex[h]; !dup {
			colIndex[h] = i
		}
	}

	var missing []string
	for _, col := range m.SourceColumns() {
		if _, ok := colIndex[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return u.failReport(fmt.Errorf("%w for %s exchange: %s",
			domain.ErrMissingColumns, exchange, strings.Join(missing, ", ")))
	}

	rowNumber := 1 // ヘッダが1行目、最初のデータ行は2行目
	txErr := u.store.WithinTx(ctx, func(tx IngestTx) error {
		for {
			record, err := reader.Read()
			if errors.Is(err, io.EOF) {
				return nil
			}
			rowNumber++
			if err != nil {
				u.errors = append(u.errors, fmt.Sprintf("Row %d: %v", rowNumber, err))
				continue
			}
			if err := u.processRow(ctx, tx, record, colIndex, m, candleDate, exchange); err != nil {
				u.errors = append(u.errors, fmt.Sprintf("Row %d: %s", rowNumber, err.Error()))
			}
		}
	})
	if txErr != nil {
		return u.failReport(fmt.Errorf("transaction failed: %w", txErr))
	}

	u.invalidateTouched(ctx, exchange)

	slog.Info("CSV processing completed", "filename", filename,
		"stocks", u.stocksProcessed, "candlesticks", u.candlesticksProcessed,
		"row_errors", len(u.errors), "warnings", len(u.warnings))

	return ingestentity.FileReport{
		Success:               true,
		StocksProcessed:       u.stocksProcessed,
		CandlesticksProcessed: u.candlesticksProcessed,
		Date:                  candleDate,
		Exchange:              exchange,
		Warnings:              u.warnings,
		Errors:                u.errors,
	}
}

// processRow は1行を検証してStockとCandlestickをget-or-createします。
// 戻り値のエラーはその行だけを失敗させます。
func (u *CSVIngestUsecase) processRow(ctx context.Context, tx IngestTx, record []string,
	colIndex map[string]int, m mapping.ExchangeMapping, candleDate time.Time, exchange string) error {

	get := func(f mapping.Field) string {
		col, ok := m.SourceFor(f)
		if !ok {
			return ""
		}
		i, ok := colIndex[col]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	symbol := get(mapping.FieldSymbol)
	group := get(mapping.FieldGroup)
	name := get(mapping.FieldName)
	if m.DeriveNameFromSymbol() {
		// NSEではSYMBOLカラムが識別子と表示名を兼ねる
		name = symbol
	}

	if symbol == "" {
		symbolCol, ok := m.SourceFor(mapping.FieldSymbol)
		if !ok {
			symbolCol = "SYMBOL"
		}
		return domain.NewRowError(domain.RowErrorMissingSymbol, "%s (stock symbol) is required", symbolCol)
	}

	open, w := ParseDecimal(get(mapping.FieldOpen), "OPEN")
	u.warn(w)
	high, w := ParseDecimal(get(mapping.FieldHigh), "HIGH")
	u.warn(w)
	low, w := ParseDecimal(get(mapping.FieldLow), "LOW")
	u.warn(w)
	closePrice, w := ParseDecimal(get(mapping.FieldClose), "CLOSE")
	u.warn(w)
	prevClose, w := ParseDecimal(get(mapping.FieldPrevClose), "PREVCLOSE")
	u.warn(w)

	// 5つの価格はすべて必須。価格の大小関係はここでは検証しない。
	if !open.Valid || !high.Valid || !low.Valid || !closePrice.Valid || !prevClose.Valid {
		return domain.NewRowError(domain.RowErrorMissingPrice, "Missing required price data")
	}

	// 任意の数値フィールドは失敗しても警告止まり
	trades, w := ParseInteger(get(mapping.FieldNumberOfTrades), "number_of_trades")
	u.warn(w)
	shares, w := ParseInteger(get(mapping.FieldNumberOfShares), "number_of_shares")
	u.warn(w)
	turnover, w := ParseDecimal(get(mapping.FieldNetTurnover), "net_turnover")
	u.warn(w)

	stock, created, err := tx.GetOrCreateStock(ctx, stockentity.Stock{
		Symbol:   symbol,
		Exchange: exchange,
		Name:     name,
		Group:    group,
	})
	if err != nil {
		return err
	}
	if created {
		u.stocksProcessed++
	}

	_, created, err = tx.GetOrCreateCandlestick(ctx, candleentity.Candlestick{
		StockID:        stock.ID,
		CandleDate:     candleDate,
		Open:           open.Decimal,
		High:           high.Decimal,
		Low:            low.Decimal,
		Close:          closePrice.Decimal,
		PrevClose:      prevClose.Decimal,
		NumberOfTrades: trades,
		NumberOfShares: shares,
		NetTurnover:    turnover,
	})
	if err != nil {
		return err
	}
	if created {
		u.candlesticksProcessed++
		u.touched[symbol] = struct{}{}
	} else {
		// 既存行は上書きしない
		u.warnings = append(u.warnings,
			fmt.Sprintf("Duplicate candlestick data for %s on %s - skipped", symbol, candleDate.Format("2006-01-02")))
	}
	return nil
}

func (u *CSVIngestUsecase) warn(w string) {
	if w != "" {
		u.warnings = append(u.warnings, w)
	}
}

func (u *CSVIngestUsecase) invalidateTouched(ctx context.Context, exchange string) {
	if u.cache == nil {
		return
	}
	for symbol := range u.touched {
		u.cache.Invalidate(ctx, symbol, exchange)
	}
}

func (u *CSVIngestUsecase) failReport(err error) ingestentity.FileReport {
	slog.Error("CSV processing failed", "error", err)
	return ingestentity.FileReport{
		Success:               false,
		Error:                 err.Error(),
		StocksProcessed:       u.stocksProcessed,
		CandlesticksProcessed: u.candlesticksProcessed,
		Warnings:              u.warnings,
		Errors:                u.errors,
	}
}

// detectDelimiter は先頭1KBを調べ、カンマがあればカンマ、無ければタブを
// 区切り文字として返します。読み取り位置はファイル先頭に戻します。
func detectDelimiter(f *os.File) (rune, error) {
	sample := make([]byte, 1024)
	n, err := f.Read(sample)
	if err != nil && !errors.Is(err, io.EOF) {
		return 0, err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return 0, err
	}
	if strings.ContainsRune(string(sample[:n]), ',') {
		return ',', nil
	}
	return '\t', nil
}
