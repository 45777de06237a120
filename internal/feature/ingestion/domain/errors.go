// Package domain defines the error taxonomy of the ingestion feature.
package domain

import (
	"errors"
	"fmt"
)

// ErrFilename marks structural filename-format failures. The whole file is
// rejected before any row is read.
var ErrFilename = errors.New("invalid filename")

// ErrMissingColumns marks a header that lacks required columns for the
// exchange. The whole file is rejected with zero rows processed.
var ErrMissingColumns = errors.New("missing required columns")

// ErrNoCSVFiles marks an archive that contained no CSV files.
var ErrNoCSVFiles = errors.New("no CSV files found in ZIP archive")

// RowErrorKind は行レベル失敗の閉じた分類です。
type RowErrorKind int

const (
	// RowErrorUnexpected は分類できない行の失敗（DBエラーなど）です。
	RowErrorUnexpected RowErrorKind = iota
	// RowErrorMissingSymbol は銘柄シンボルが空の行です。
	RowErrorMissingSymbol
	// RowErrorMissingPrice は必須5価格のいずれかが欠けた行です。
	RowErrorMissingPrice
)

// RowError は1行だけを失敗させるエラーです。ファイル全体の処理は継続します。
type RowError struct {
	Kind    RowErrorKind
	Message string
}

func (e *RowError) Error() string { return e.Message }

// NewRowError は分類とメッセージからRowErrorを生成します。
func NewRowError(kind RowErrorKind, format string, args ...any) *RowError {
	return &RowError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}
