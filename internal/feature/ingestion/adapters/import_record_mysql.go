package adapters

import (
	"context"
	"time"

	"gorm.io/gorm"

	ingestentity "stockdata_backend/internal/feature/ingestion/domain/entity"
	"stockdata_backend/internal/feature/ingestion/usecase"
)

// ImportRecordModel は csv_files テーブルのgormモデルです。
// 取り込みに成功したファイルのメタデータだけを記録します。
type ImportRecordModel struct {
	ID                    uint      `gorm:"primaryKey"`
	Filename              string    `gorm:"size:255;not null"`
	Date                  time.Time `gorm:"not null"`
	Exchange              string    `gorm:"size:10;not null;default:BSE"`
	UploadedAt            time.Time `gorm:"column:upload_timestamp;autoCreateTime"`
	StocksProcessed       int       `gorm:"not null;default:0"`
	CandlesticksProcessed int       `gorm:"not null;default:0"`
}

func (ImportRecordModel) TableName() string {
	return "csv_files"
}

func (m ImportRecordModel) toEntity() ingestentity.ImportRecord {
	return ingestentity.ImportRecord{
		ID:                    m.ID,
		Filename:              m.Filename,
		Date:                  m.Date,
		Exchange:              m.Exchange,
		UploadedAt:            m.UploadedAt,
		StocksProcessed:       m.StocksProcessed,
		CandlesticksProcessed: m.CandlesticksProcessed,
	}
}

type importRecordMySQL struct {
	db *gorm.DB
}

var _ usecase.ImportRecordRepository = (*importRecordMySQL)(nil)

// NewImportRecordRepository は指定されたDB接続でリポジトリの新しいインスタンスを生成します。
func NewImportRecordRepository(db *gorm.DB) *importRecordMySQL {
	return &importRecordMySQL{db: db}
}

// Create は取り込み記録を1件保存します。
func (r *importRecordMySQL) Create(ctx context.Context, rec ingestentity.ImportRecord) (ingestentity.ImportRecord, error) {
	m := ImportRecordModel{
		Filename:              rec.Filename,
		Date:                  rec.Date,
		Exchange:              rec.Exchange,
		StocksProcessed:       rec.StocksProcessed,
		CandlesticksProcessed: rec.CandlesticksProcessed,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return ingestentity.ImportRecord{}, err
	}
	return m.toEntity(), nil
}

// ListRecent は取り込み記録を新しい順に最大limit件返します。
func (r *importRecordMySQL) ListRecent(ctx context.Context, limit int) ([]ingestentity.ImportRecord, error) {
	q := r.db.WithContext(ctx).Order("upload_timestamp DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var rows []ImportRecordModel
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]ingestentity.ImportRecord, 0, len(rows))
	for _, m := range rows {
		out = append(out, m.toEntity())
	}
	return out, nil
}
