package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDecimal(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		wantValid   bool
		wantValue   string
		wantWarning string
	}{
		{name: "success: plain value", raw: "123.45", wantValid: true, wantValue: "123.45"},
		{name: "success: integer", raw: "100", wantValid: true, wantValue: "100"},
		{name: "success: surrounding whitespace", raw: "  9.5 ", wantValid: true, wantValue: "9.5"},
		{name: "null: empty string", raw: ""},
		{name: "null: whitespace only", raw: "   "},
		{
			name:        "warning: not a number",
			raw:         "abc",
			wantWarning: "Invalid decimal value for OPEN: 'abc' - skipping row",
		},
		{
			name:        "warning: thousands separator",
			raw:         "1,234.5",
			wantWarning: "Invalid decimal value for OPEN: '1,234.5' - skipping row",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, warning := ParseDecimal(tt.raw, "OPEN")

			assert.Equal(t, tt.wantWarning, warning)
			assert.Equal(t, tt.wantValid, d.Valid)
			if tt.wantValid {
				require.True(t, d.Valid)
				assert.Equal(t, tt.wantValue, d.Decimal.String())
			}
		})
	}
}

func TestParseInteger(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		wantValid   bool
		wantValue   int64
		wantWarning string
	}{
		{name: "success: plain integer", raw: "1500", wantValid: true, wantValue: 1500},
		{name: "success: float notation is truncated", raw: "1500.9", wantValid: true, wantValue: 1500},
		{name: "success: scientific notation", raw: "1.5e3", wantValid: true, wantValue: 1500},
		{name: "null: empty string", raw: ""},
		{name: "null: whitespace only", raw: " \t "},
		{
			name:        "warning: not a number",
			raw:         "many",
			wantWarning: "Invalid integer value for number_of_trades: 'many' - using NULL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, warning := ParseInteger(tt.raw, "number_of_trades")

			assert.Equal(t, tt.wantWarning, warning)
			assert.Equal(t, tt.wantValid, n.Valid)
			if tt.wantValid {
				assert.Equal(t, tt.wantValue, n.Int64)
			}
		})
	}
}
