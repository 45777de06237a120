// Package entity defines the domain models for the ingestion feature.
package entity

import "time"

// ImportRecord tracks one successfully processed CSV file. Only metadata is
// stored, never the file itself; failed files are not recorded.
type ImportRecord struct {
	ID                    uint
	Filename              string
	Date                  time.Time // Trade date extracted from the filename
	Exchange              string
	UploadedAt            time.Time
	StocksProcessed       int
	CandlesticksProcessed int
}
