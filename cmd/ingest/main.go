package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"stockdata_backend/internal/app/di"
	"stockdata_backend/internal/feature/ingestion/mapping"
	platformdb "stockdata_backend/internal/platform/db"
)

func main() {
	if len(os.Args) != 2 {
		log.Fatalf("usage: %s <file.csv|archive.zip>", filepath.Base(os.Args[0]))
	}
	path := os.Args[1]
	name := filepath.Base(path)

	db := platformdb.OpenDB()
	registry := mapping.DefaultRegistry()
	engine, bulk := di.NewIngestion(db, registry, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	if strings.EqualFold(filepath.Ext(path), ".zip") {
		report := bulk.ProcessZip(ctx, path, name)
		fmt.Printf("processed=%d failed=%d stocks=%d candlesticks=%d\n",
			report.TotalFilesProcessed, report.TotalFilesFailed,
			report.TotalStocks, report.TotalCandlesticks)
		if !report.Success {
			log.Fatal(report.Error)
		}
		return
	}

	report := engine.ProcessFile(ctx, path, name)
	fmt.Printf("stocks=%d candlesticks=%d warnings=%d row_errors=%d\n",
		report.StocksProcessed, report.CandlesticksProcessed,
		len(report.Warnings), len(report.Errors))
	if !report.Success {
		log.Fatal(report.Error)
	}
}
