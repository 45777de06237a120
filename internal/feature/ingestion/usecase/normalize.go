package usecase

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseDecimal はCSVセルの生文字列をnullableなdecimalに変換します。
// 空白のみの値はnull、パース不能な値はnullと警告文字列を返します。
// エラーは返しません。値の欠落を致命とするかどうかは呼び出し側が決めます。
func ParseDecimal(raw, field string) (decimal.NullDecimal, string) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.NullDecimal{}, ""
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}, fmt.Sprintf("Invalid decimal value for %s: '%s' - skipping row", field, raw)
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}, ""
}

// ParseInteger はCSVセルの生文字列をnullableな整数に変換します。
// 取引所のフィードには "1500.0" のような表記が混ざるため、floatを経由して
// 切り捨てます。空白はnull、パース不能はnullと警告を返します。
func ParseInteger(raw, field string) (sql.NullInt64, string) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return sql.NullInt64{}, ""
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return sql.NullInt64{}, fmt.Sprintf("Invalid integer value for %s: '%s' - using NULL", field, raw)
	}
	return sql.NullInt64{Int64: int64(f), Valid: true}, ""
}
