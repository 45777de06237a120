package router

import (
	candlehandler "stockdata_backend/internal/feature/candlesticks/transport/handler"
	ingesthandler "stockdata_backend/internal/feature/ingestion/transport/handler"
	patternhandler "stockdata_backend/internal/feature/patterns/transport/handler"
	stockhandler "stockdata_backend/internal/feature/stocks/transport/handler"
	"stockdata_backend/internal/platform/http/handler"

	"github.com/gin-gonic/gin"
)

// NewRouter はすべてのエンドポイントを登録した gin.Engine を返します。
func NewRouter(upload *ingesthandler.UploadHandler, imports *ingesthandler.ImportsHandler,
	stocks *stockhandler.StockHandler, candles *candlehandler.CandlestickHandler,
	patterns *patternhandler.PatternHandler) *gin.Engine {
	r := gin.Default()

	// 導通確認用
	r.GET("/healthz", handler.Health)

	// CSV/ZIP取り込み
	r.POST("/upload/csv", upload.UploadCSV)
	r.POST("/upload/zip", upload.UploadZIP)
	r.GET("/exchanges", upload.ListExchanges)
	r.GET("/imports", imports.List)

	// 銘柄CRUD
	r.GET("/stocks", stocks.List)
	r.POST("/stocks", stocks.Create)
	r.GET("/stocks/:id", stocks.Get)
	r.PUT("/stocks/:id", stocks.Update)
	r.DELETE("/stocks/:id", stocks.Delete)

	// ローソク足CRUD（手入力経路）
	r.GET("/candlesticks", candles.List)
	r.POST("/candlesticks", candles.Create)
	r.GET("/candlesticks/:id", candles.Get)
	r.PUT("/candlesticks/:id", candles.Update)
	r.DELETE("/candlesticks/:id", candles.Delete)

	// パターン検出
	r.GET("/patterns/:symbol", patterns.Detect)

	return r
}
