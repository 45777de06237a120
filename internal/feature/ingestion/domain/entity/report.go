package entity

import "time"

// FileReport は1ファイルの取り込み結果です。Successはファイルを開いて
// パース・マッピングできたかどうかを表し、個々の行の失敗では falseに
// なりません。行レベルの失敗はErrorsに、値レベルの問題はWarningsに
// 蓄積されます。
type FileReport struct {
	Success               bool
	Error                 string // 構造的な失敗（ファイル名・ヘッダ・I/O）のみ
	StocksProcessed       int
	CandlesticksProcessed int
	Date                  time.Time
	Exchange              string
	Warnings              []string
	Errors                []string
}

// ProcessedFile はアーカイブ取り込みで成功した1ファイルの要約です。
type ProcessedFile struct {
	Filename              string
	Date                  time.Time
	Exchange              string
	StocksProcessed       int
	CandlesticksProcessed int
	Warnings              []string
	Errors                []string
}

// FailedFile はアーカイブ取り込みで失敗した1ファイルの記録です。
// カウンタは失敗時点までに処理できた件数を保持します。
type FailedFile struct {
	Filename              string
	Error                 string
	StocksProcessed       int
	CandlesticksProcessed int
}

// BulkReport はZIPアーカイブ全体の集計結果です。Successがfalseになるのは
// アーカイブ自体の展開失敗・CSVが1つも無い場合のみで、個々のファイルの
// 失敗ではfalseになりません。
type BulkReport struct {
	Success             bool
	Error               string
	ProcessedFiles      []ProcessedFile
	FailedFiles         []FailedFile
	TotalFilesProcessed int
	TotalFilesFailed    int
	TotalStocks         int
	TotalCandlesticks   int
	Warnings            []string
	Errors              []string
}
