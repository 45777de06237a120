// Package mapping はCSV取り込みで使用する取引所ごとのカラムマッピングを管理します。
package mapping

import (
	"sort"
	"strings"
	"sync"
)

// Field はCSVカラムの対応先となる正規フィールドです。
type Field string

const (
	FieldSymbol         Field = "stock_symbol"
	FieldName           Field = "stock_name"
	FieldGroup          Field = "stock_group"
	FieldOpen           Field = "open_price"
	FieldHigh           Field = "high_price"
	FieldLow            Field = "low_price"
	FieldClose          Field = "close_price"
	FieldPrevClose      Field = "prev_close_price"
	FieldNumberOfTrades Field = "number_of_trades"
	FieldNumberOfShares Field = "number_of_shares"
	FieldNetTurnover    Field = "net_turnover"

	// FieldIgnore はソースデータに存在するが使用しないカラムに割り当てます。
	FieldIgnore Field = "ignore"
)

// Columns は取引所CSVのソースカラム名から正規フィールドへの対応表です。
type Columns map[string]Field

// ExchangeMapping は1つの取引所について、登録時に構築した双方向の
// 変換テーブルを保持します。行処理のたびにマップを走査しないよう、
// canonical→source の逆引きもここで固定します。
type ExchangeMapping struct {
	exchange      string
	sourceToField map[string]Field
	fieldToSource map[Field]string
}

// Exchange は大文字化された取引所コードを返します。
func (m ExchangeMapping) Exchange() string { return m.exchange }

// SourceColumns はこの取引所のCSVに存在しなければならないカラム名を返します。
// ignore 指定のカラムもヘッダ検証の対象に含まれます。
func (m ExchangeMapping) SourceColumns() []string {
	cols := make([]string, 0, len(m.sourceToField))
	for c := range m.sourceToField {
		cols = append(cols, c)
	}
	sort.Strings(cols)
	return cols
}

// SourceFor は正規フィールドに対応するソースカラム名を返します。
func (m ExchangeMapping) SourceFor(f Field) (string, bool) {
	c, ok := m.fieldToSource[f]
	return c, ok
}

// DeriveNameFromSymbol は銘柄名の独立したカラムを持たない取引所かどうかを
// 返します。NSEのようにSYMBOLカラムが識別子と表示名を兼ねる場合はtrueです。
func (m ExchangeMapping) DeriveNameFromSymbol() bool {
	_, ok := m.fieldToSource[FieldName]
	return !ok
}

// Registry は取引所コードからカラムマッピングへの対応を保持します。
// グローバル状態ではなく、エンジンに注入して使います。
// 稼働中の登録にも耐えるようRWMutexで保護します。
type Registry struct {
	mu        sync.RWMutex
	exchanges map[string]ExchangeMapping
}

// NewRegistry は空のRegistryを生成します。
func NewRegistry() *Registry {
	return &Registry{exchanges: make(map[string]ExchangeMapping)}
}

// DefaultRegistry はBSEとNSEのマッピングを登録済みのRegistryを生成します。
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register("BSE", Columns{
		"SC_CODE":    FieldSymbol,
		"SC_NAME":    FieldName,
		"SC_GROUP":   FieldGroup,
		"SC_TYPE":    FieldIgnore, // データベースでは未使用
		"OPEN":       FieldOpen,
		"HIGH":       FieldHigh,
		"LOW":        FieldLow,
		"CLOSE":      FieldClose,
		"LAST":       FieldIgnore,
		"PREVCLOSE":  FieldPrevClose,
		"NO_TRADES":  FieldNumberOfTrades,
		"NO_OF_SHRS": FieldNumberOfShares,
		"NET_TURNOV": FieldNetTurnover,
		"TDCLOINDI":  FieldIgnore,
	})
	r.Register("NSE", Columns{
		"SYMBOL":      FieldSymbol, // NSEではSYMBOLが銘柄名を兼ねる
		"SERIES":      FieldGroup,
		"OPEN":        FieldOpen,
		"HIGH":        FieldHigh,
		"LOW":         FieldLow,
		"CLOSE":       FieldClose,
		"LAST":        FieldIgnore,
		"PREVCLOSE":   FieldPrevClose,
		"TOTTRDQTY":   FieldNumberOfShares,
		"TOTTRDVAL":   FieldNetTurnover,
		"TIMESTAMP":   FieldIgnore, // 日付はファイル名から取得する
		"TOTALTRADES": FieldNumberOfTrades,
		"ISIN":        FieldIgnore,
	})
	return r
}

// Register は取引所のマッピングを登録または上書きします。
// 登録時に source→canonical と canonical→source の両テーブルを構築します。
// 同じ正規フィールドに複数カラムが対応する場合は最初に登録された方が優先されます。
func (r *Registry) Register(exchange string, cols Columns) {
	m := ExchangeMapping{
		exchange:      strings.ToUpper(exchange),
		sourceToField: make(map[string]Field, len(cols)),
		fieldToSource: make(map[Field]string, len(cols)),
	}
	for src, f := range cols {
		m.sourceToField[src] = f
		if f == FieldIgnore {
			continue
		}
		if _, dup := m.fieldToSource[f]; !dup {
			m.fieldToSource[f] = src
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.exchanges[m.exchange] = m
}

// Lookup は取引所コード（大文字小文字を問わない）のマッピングを返します。
func (r *Registry) Lookup(exchange string) (ExchangeMapping, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.exchanges[strings.ToUpper(exchange)]
	return m, ok
}

// IsSupported は取引所コードが登録済みかどうかを返します。
func (r *Registry) IsSupported(exchange string) bool {
	_, ok := r.Lookup(exchange)
	return ok
}

// SourceColumns は取引所のヘッダ検証に必要なカラム名を返します。
// 未登録の取引所に対してはnilを返します。
func (r *Registry) SourceColumns(exchange string) []string {
	m, ok := r.Lookup(exchange)
	if !ok {
		return nil
	}
	return m.SourceColumns()
}

// Supported は登録済みの取引所コードをソート順で返します。
func (r *Registry) Supported() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.exchanges))
	for code := range r.exchanges {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}
