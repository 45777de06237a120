package di

import (
	"gorm.io/gorm"

	ingestadapters "stockdata_backend/internal/feature/ingestion/adapters"
	"stockdata_backend/internal/feature/ingestion/mapping"
	ingestusecase "stockdata_backend/internal/feature/ingestion/usecase"
)

// NewIngestion creates the single-file engine and the ZIP orchestrator
// sharing one engine instance. invalidator may be nil when no cache is wired.
func NewIngestion(db *gorm.DB, registry *mapping.Registry,
	invalidator ingestusecase.CacheInvalidator) (*ingestusecase.CSVIngestUsecase, *ingestusecase.BulkIngestUsecase) {
	engine := ingestusecase.NewCSVIngestUsecase(registry, ingestadapters.NewIngestStore(db), invalidator)
	bulk := ingestusecase.NewBulkIngestUsecase(engine, ingestadapters.NewImportRecordRepository(db))
	return engine, bulk
}
