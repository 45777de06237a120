package main

import (
	"log"

	redisv9 "github.com/redis/go-redis/v9"

	"stockdata_backend/internal/app/di"
	"stockdata_backend/internal/app/router"
	candlehandler "stockdata_backend/internal/feature/candlesticks/transport/handler"
	candleusecase "stockdata_backend/internal/feature/candlesticks/usecase"
	ingesthandler "stockdata_backend/internal/feature/ingestion/transport/handler"
	"stockdata_backend/internal/feature/ingestion/mapping"
	patternhandler "stockdata_backend/internal/feature/patterns/transport/handler"
	patternusecase "stockdata_backend/internal/feature/patterns/usecase"
	stockadapters "stockdata_backend/internal/feature/stocks/adapters"
	stockhandler "stockdata_backend/internal/feature/stocks/transport/handler"
	stockusecase "stockdata_backend/internal/feature/stocks/usecase"
	platformdb "stockdata_backend/internal/platform/db"
	platformredis "stockdata_backend/internal/platform/redis"
)

func main() {
	// db
	db := platformdb.OpenDB()

	// Redis
	var rdb *redisv9.Client
	if tmp, err := platformredis.NewRedisClient(); err != nil {
		log.Println("[WARN] Redis unavailable. Running without cache.")
		rdb = nil
	} else {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Println("[ERROR] Failed to close Redis client:", err)
			}
		}()
	}

	// Repository
	registry := mapping.DefaultRegistry()
	stockRepo := stockadapters.NewStockRepository(db)
	candleStore := di.NewCandlestickStore(rdb, db)

	// Usecase
	engine, bulk := di.NewIngestion(db, registry, candleStore)
	stockUC := stockusecase.NewStockUsecase(stockRepo)
	candleUC := candleusecase.NewCandlestickUsecase(candleStore)
	patternUC := patternusecase.NewPatternUsecase(candleStore)

	// Handler
	uploadH := ingesthandler.NewUploadHandler(engine, bulk, registry)
	importsH := ingesthandler.NewImportsHandler(bulk)
	stockH := stockhandler.NewStockHandler(stockUC)
	candleH := candlehandler.NewCandlestickHandler(candleUC)
	patternH := patternhandler.NewPatternHandler(patternUC)

	// ルータ生成
	router := router.NewRouter(uploadH, importsH, stockH, candleH, patternH)

	if err := router.Run(":8080"); err != nil {
		log.Fatal(err)
	}
}
