// Package adapters はingestionフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"

	"gorm.io/gorm"

	candleadapters "stockdata_backend/internal/feature/candlesticks/adapters"
	candleentity "stockdata_backend/internal/feature/candlesticks/domain/entity"
	"stockdata_backend/internal/feature/ingestion/usecase"
	stockadapters "stockdata_backend/internal/feature/stocks/adapters"
	stockentity "stockdata_backend/internal/feature/stocks/domain/entity"
)

type ingestMySQL struct {
	db *gorm.DB
}

var _ usecase.IngestStore = (*ingestMySQL)(nil)

// NewIngestStore は指定されたDB接続でingestMySQLストアの新しいインスタンスを生成します。
func NewIngestStore(db *gorm.DB) *ingestMySQL {
	return &ingestMySQL{db: db}
}

// WithinTx はファイル単位のトランザクションを開始し、fnに書き込み操作を
// 渡します。fnがエラーを返した場合のみロールバックします。行レベルの失敗は
// fn側で握りつぶされるため、成功した行だけがコミットされます。
func (s *ingestMySQL) WithinTx(ctx context.Context, fn func(tx usecase.IngestTx) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&ingestTx{db: tx})
	})
}

type ingestTx struct {
	db *gorm.DB
}

var _ usecase.IngestTx = (*ingestTx)(nil)

// GetOrCreateStock は(symbol, exchange)で既存の銘柄を探し、無ければ
// name/groupをデフォルト値として作成します。既存行は変更しません。
func (t *ingestTx) GetOrCreateStock(ctx context.Context, s stockentity.Stock) (stockentity.Stock, bool, error) {
	var m stockadapters.StockModel
	res := t.db.WithContext(ctx).
		Where("stock_symbol = ? AND stock_exchange = ?", s.Symbol, s.Exchange).
		Attrs(stockadapters.StockModel{
			Symbol:   s.Symbol,
			Exchange: s.Exchange,
			Name:     s.Name,
			Group:    s.Group,
		}).
		FirstOrCreate(&m)
	if res.Error != nil {
		return stockentity.Stock{}, false, res.Error
	}
	return m.ToEntity(), res.RowsAffected > 0, nil
}

// GetOrCreateCandlestick は(stock, candle_date)で既存のローソク足を探し、
// 無ければ渡された値で作成します。既存行は上書きしません。
func (t *ingestTx) GetOrCreateCandlestick(ctx context.Context, c candleentity.Candlestick) (candleentity.Candlestick, bool, error) {
	var m candleadapters.CandlestickModel
	res := t.db.WithContext(ctx).
		Where("stock_id = ? AND candle_date = ?", c.StockID, c.CandleDate).
		Attrs(candleadapters.ToModel(c)).
		FirstOrCreate(&m)
	if res.Error != nil {
		return candleentity.Candlestick{}, false, res.Error
	}
	return m.ToEntity(), res.RowsAffected > 0, nil
}
