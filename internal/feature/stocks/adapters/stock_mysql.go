// Package adapters はstocksフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"stockdata_backend/internal/feature/stocks/domain"
	"stockdata_backend/internal/feature/stocks/domain/entity"
	"stockdata_backend/internal/feature/stocks/usecase"
)

// StockModel は stocks テーブルのgormモデルです。
// (symbol, exchange) の組がユニークキーです。
type StockModel struct {
	ID       uint   `gorm:"primaryKey;column:stock_id"`
	Symbol   string `gorm:"column:stock_symbol;size:16;not null;uniqueIndex:stock_sym_exch,priority:1"`
	Name     string `gorm:"column:stock_name;size:500"`
	Exchange string `gorm:"column:stock_exchange;size:10;uniqueIndex:stock_sym_exch,priority:2"`
	Group    string `gorm:"column:stock_group;size:10"`
}

func (StockModel) TableName() string {
	return "stocks"
}

func toModel(e entity.Stock) StockModel {
	return StockModel{
		ID:       e.ID,
		Symbol:   e.Symbol,
		Name:     e.Name,
		Exchange: e.Exchange,
		Group:    e.Group,
	}
}

// ToEntity はgormモデルをドメインエンティティへ変換します。
// ingestionフィーチャーのアダプタからも利用されます。
func (m StockModel) ToEntity() entity.Stock {
	return entity.Stock{
		ID:       m.ID,
		Symbol:   m.Symbol,
		Name:     m.Name,
		Exchange: m.Exchange,
		Group:    m.Group,
	}
}

type stockMySQL struct {
	db *gorm.DB
}

var _ usecase.StockRepository = (*stockMySQL)(nil)

// NewStockRepository は指定されたDB接続でstockMySQLリポジトリの新しいインスタンスを生成します。
func NewStockRepository(db *gorm.DB) *stockMySQL {
	return &stockMySQL{db: db}
}

// List は銘柄一覧を返します。exchangeとqueryは空なら無視されます。
// queryはシンボルまたは銘柄名への部分一致です。
func (r *stockMySQL) List(ctx context.Context, exchange, query string) ([]entity.Stock, error) {
	q := r.db.WithContext(ctx).Model(&StockModel{}).
		Order("stock_symbol ASC")
	if exchange != "" {
		q = q.Where("stock_exchange = ?", exchange)
	}
	if query != "" {
		like := "%" + query + "%"
		q = q.Where("stock_symbol LIKE ? OR stock_name LIKE ?", like, like)
	}

	var rows []StockModel
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]entity.Stock, 0, len(rows))
	for _, m := range rows {
		out = append(out, m.ToEntity())
	}
	return out, nil
}

// Get はIDで1件取得します。存在しない場合はErrStockNotFoundを返します。
func (r *stockMySQL) Get(ctx context.Context, id uint) (entity.Stock, error) {
	var m StockModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entity.Stock{}, domain.ErrStockNotFound
		}
		return entity.Stock{}, err
	}
	return m.ToEntity(), nil
}

// Create は銘柄を新規作成し、採番済みのエンティティを返します。
func (r *stockMySQL) Create(ctx context.Context, s entity.Stock) (entity.Stock, error) {
	m := toModel(s)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return entity.Stock{}, err
	}
	return m.ToEntity(), nil
}

// Update は銘柄の全フィールドを更新します。
func (r *stockMySQL) Update(ctx context.Context, s entity.Stock) (entity.Stock, error) {
	m := toModel(s)
	res := r.db.WithContext(ctx).Model(&StockModel{ID: s.ID}).
		Select("Symbol", "Name", "Exchange", "Group").
		Updates(m)
	if res.Error != nil {
		return entity.Stock{}, res.Error
	}
	if res.RowsAffected == 0 {
		return entity.Stock{}, domain.ErrStockNotFound
	}
	return s, nil
}

// Delete は銘柄と、そこに紐づくローソク足をまとめて削除します。
// 外部キーのCASCADEに頼らず、同一トランザクションで明示的に消します。
func (r *stockMySQL) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM candlesticks WHERE stock_id = ?", id).Error; err != nil {
			return err
		}
		res := tx.Delete(&StockModel{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrStockNotFound
		}
		return nil
	})
}

// ExistsOther は同じ(symbol, exchange)を持つ別の銘柄があるかを返します。
// excludeIDは更新時に自分自身を除外するために使います。
func (r *stockMySQL) ExistsOther(ctx context.Context, symbol, exchange string, excludeID uint) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&StockModel{}).
		Where("stock_symbol = ? AND stock_exchange = ?", symbol, exchange)
	if excludeID != 0 {
		q = q.Where("stock_id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
