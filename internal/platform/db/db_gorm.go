package db

import (
	"fmt"
	"log"
	"os"
	"time"

	gmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"

	candleadapters "stockdata_backend/internal/feature/candlesticks/adapters"
	ingestadapters "stockdata_backend/internal/feature/ingestion/adapters"
	stockadapters "stockdata_backend/internal/feature/stocks/adapters"
)

// OpenDB は環境変数からDSNを組み立ててMySQLへ接続します。
// 起動直後はDBコンテナがまだ立ち上がっていないことがあるため、
// 60秒を上限にリトライします。
func OpenDB() *gorm.DB {
	user := os.Getenv("DB_USER")
	pass := os.Getenv("DB_PASSWORD")
	name := os.Getenv("DB_NAME")
	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
		user, pass, host, port, name)

	var (
		db  *gorm.DB
		err error
	)

	deadline := time.Now().Add(60 * time.Second)
	for {
		db, err = gorm.Open(gmysql.Open(dsn), &gorm.Config{})
		if err == nil {
			break
		}
		if time.Now().After(deadline) {
			log.Fatalf("DB connect failed after 60s: %v", err)
		}
		log.Printf("DB connect failed, retrying...: %v", err)
		time.Sleep(3 * time.Second)
	}

	if os.Getenv("RUN_MIGRATIONS") == "true" {
		// マイグレーション（Stock, Candlestick, ImportRecord）
		if err := db.AutoMigrate(
			&stockadapters.StockModel{},
			&candleadapters.CandlestickModel{},
			&ingestadapters.ImportRecordModel{},
		); err != nil {
			log.Fatalf("failed to migrate: %v", err)
		}
	}

	return db
}
