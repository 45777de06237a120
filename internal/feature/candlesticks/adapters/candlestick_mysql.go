// Package adapters はcandlesticksフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"stockdata_backend/internal/feature/candlesticks/domain"
	"stockdata_backend/internal/feature/candlesticks/domain/entity"
	"stockdata_backend/internal/feature/candlesticks/usecase"
)

// CandlestickModel は candlesticks テーブルのgormモデルです。
// (stock_id, candle_date) の組がユニークキーです。
// 価格は小数部4桁の固定小数点で保存します。
type CandlestickModel struct {
	ID         uint      `gorm:"primaryKey;column:candle_id"`
	StockID    uint      `gorm:"column:stock_id;not null;uniqueIndex:candle_stock_date,priority:1"`
	CandleDate time.Time `gorm:"column:candle_date;not null;uniqueIndex:candle_stock_date,priority:2"`

	Open      decimal.Decimal `gorm:"column:open_price;type:decimal(16,4);not null"`
	High      decimal.Decimal `gorm:"column:high_price;type:decimal(16,4);not null"`
	Low       decimal.Decimal `gorm:"column:low_price;type:decimal(16,4);not null"`
	Close     decimal.Decimal `gorm:"column:close_price;type:decimal(16,4);not null"`
	PrevClose decimal.Decimal `gorm:"column:prev_close_price;type:decimal(16,4);not null"`

	NumberOfTrades sql.NullInt64       `gorm:"column:number_of_trades"`
	NumberOfShares sql.NullInt64       `gorm:"column:number_of_shares"`
	NetTurnover    decimal.NullDecimal `gorm:"column:net_turnover;type:decimal(16,4)"`
}

func (CandlestickModel) TableName() string {
	return "candlesticks"
}

// ToModel はドメインエンティティをgormモデルへ変換します。
func ToModel(e entity.Candlestick) CandlestickModel {
	return CandlestickModel{
		ID:             e.ID,
		StockID:        e.StockID,
		CandleDate:     e.CandleDate,
		Open:           e.Open,
		High:           e.High,
		Low:            e.Low,
		Close:          e.Close,
		PrevClose:      e.PrevClose,
		NumberOfTrades: e.NumberOfTrades,
		NumberOfShares: e.NumberOfShares,
		NetTurnover:    e.NetTurnover,
	}
}

// ToEntity はgormモデルをドメインエンティティへ変換します。
func (m CandlestickModel) ToEntity() entity.Candlestick {
	return entity.Candlestick{
		ID:             m.ID,
		StockID:        m.StockID,
		CandleDate:     m.CandleDate,
		Open:           m.Open,
		High:           m.High,
		Low:            m.Low,
		Close:          m.Close,
		PrevClose:      m.PrevClose,
		NumberOfTrades: m.NumberOfTrades,
		NumberOfShares: m.NumberOfShares,
		NetTurnover:    m.NetTurnover,
	}
}

type candlestickMySQL struct {
	db *gorm.DB
}

var _ usecase.CandlestickRepository = (*candlestickMySQL)(nil)

// NewCandlestickRepository は指定されたDB接続でリポジトリの新しいインスタンスを生成します。
func NewCandlestickRepository(db *gorm.DB) *candlestickMySQL {
	return &candlestickMySQL{db: db}
}

// List はローソク足を日付昇順で返します。stockIDが0、from/toがゼロ値の
// 条件は無視されます。
func (r *candlestickMySQL) List(ctx context.Context, stockID uint, from, to time.Time) ([]entity.Candlestick, error) {
	q := r.db.WithContext(ctx).Model(&CandlestickModel{}).
		Order("candle_date ASC")
	if stockID != 0 {
		q = q.Where("stock_id = ?", stockID)
	}
	if !from.IsZero() {
		q = q.Where("candle_date >= ?", from)
	}
	if !to.IsZero() {
		q = q.Where("candle_date <= ?", to)
	}

	var rows []CandlestickModel
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return toEntities(rows), nil
}

// ListBySymbol は(銘柄シンボル, 取引所)で絞ったローソク足を日付昇順で返します。
// パターン検出の読み取り経路です。
func (r *candlestickMySQL) ListBySymbol(ctx context.Context, symbol, exchange string, from, to time.Time) ([]entity.Candlestick, error) {
	q := r.db.WithContext(ctx).Model(&CandlestickModel{}).
		Joins("JOIN stocks ON stocks.stock_id = candlesticks.stock_id").
		Where("stocks.stock_symbol = ? AND stocks.stock_exchange = ?", symbol, exchange).
		Order("candle_date ASC")
	if !from.IsZero() {
		q = q.Where("candle_date >= ?", from)
	}
	if !to.IsZero() {
		q = q.Where("candle_date <= ?", to)
	}

	var rows []CandlestickModel
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return toEntities(rows), nil
}

// Get はIDで1件取得します。存在しない場合はErrCandlestickNotFoundを返します。
func (r *candlestickMySQL) Get(ctx context.Context, id uint) (entity.Candlestick, error) {
	var m CandlestickModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entity.Candlestick{}, domain.ErrCandlestickNotFound
		}
		return entity.Candlestick{}, err
	}
	return m.ToEntity(), nil
}

// Create はローソク足を新規作成します。
func (r *candlestickMySQL) Create(ctx context.Context, c entity.Candlestick) (entity.Candlestick, error) {
	m := ToModel(c)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return entity.Candlestick{}, err
	}
	return m.ToEntity(), nil
}

// Update はローソク足の全フィールドを更新します。
func (r *candlestickMySQL) Update(ctx context.Context, c entity.Candlestick) (entity.Candlestick, error) {
	m := ToModel(c)
	res := r.db.WithContext(ctx).Model(&CandlestickModel{ID: c.ID}).
		Select("StockID", "CandleDate", "Open", "High", "Low", "Close", "PrevClose",
			"NumberOfTrades", "NumberOfShares", "NetTurnover").
		Updates(m)
	if res.Error != nil {
		return entity.Candlestick{}, res.Error
	}
	if res.RowsAffected == 0 {
		return entity.Candlestick{}, domain.ErrCandlestickNotFound
	}
	return c, nil
}

// Delete はローソク足を1件削除します。
func (r *candlestickMySQL) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&CandlestickModel{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrCandlestickNotFound
	}
	return nil
}

// ExistsOther は同じ(stock, date)を持つ別のローソク足があるかを返します。
func (r *candlestickMySQL) ExistsOther(ctx context.Context, stockID uint, date time.Time, excludeID uint) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&CandlestickModel{}).
		Where("stock_id = ? AND candle_date = ?", stockID, date)
	if excludeID != 0 {
		q = q.Where("candle_id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func toEntities(rows []CandlestickModel) []entity.Candlestick {
	out := make([]entity.Candlestick, 0, len(rows))
	for _, m := range rows {
		out = append(out, m.ToEntity())
	}
	return out
}
