package usecase

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"stockdata_backend/internal/feature/ingestion/domain"
	"stockdata_backend/internal/feature/ingestion/mapping"
)

// ParseFilename はアップロードされたファイル名から取引日と取引所コードを
// 抽出します。期待する形式は YYYYMMDD_EXCHANGE.csv（拡張子の大文字小文字は
// 問わない）です。レジストリ未登録の取引所は失敗とします。
// レジストリの状態以外に副作用はありません。
func ParseFilename(filename string, reg *mapping.Registry) (time.Time, string, error) {
	date, exchange, err := parseFilename(filename, reg)
	if err != nil {
		return time.Time{}, "", fmt.Errorf("error parsing filename '%s': %w", filename, err)
	}
	return date, exchange, nil
}

func parseFilename(filename string, reg *mapping.Registry) (time.Time, string, error) {
	name := filename
	if ext := filepath.Ext(name); strings.EqualFold(ext, ".csv") {
		name = strings.TrimSuffix(name, ext)
	}

	parts := strings.Split(name, "_")
	if len(parts) != 2 {
		return time.Time{}, "", fmt.Errorf("%w: filename must follow pattern YYYYMMDD_EXCHANGE.csv, got: %s",
			domain.ErrFilename, filename)
	}

	dateStr, exchange := parts[0], parts[1]

	if len(dateStr) != 8 {
		return time.Time{}, "", fmt.Errorf("%w: date part must be 8 digits (YYYYMMDD), got: %s",
			domain.ErrFilename, dateStr)
	}
	date, err := time.ParseInLocation("20060102", dateStr, time.UTC)
	if err != nil {
		return time.Time{}, "", fmt.Errorf("%w: invalid date in filename: %s", domain.ErrFilename, dateStr)
	}

	if exchange == "" || len(exchange) > 10 {
		return time.Time{}, "", fmt.Errorf("%w: exchange name must be 1-10 characters, got: %s",
			domain.ErrFilename, exchange)
	}

	upper := strings.ToUpper(exchange)
	if !reg.IsSupported(upper) {
		return time.Time{}, "", fmt.Errorf("%w: unsupported exchange '%s', supported exchanges: %s",
			domain.ErrFilename, upper, strings.Join(reg.Supported(), ", "))
	}

	return date, upper, nil
}
