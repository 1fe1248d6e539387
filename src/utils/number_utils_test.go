package utils

import (
	"database/sql"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanNumber(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"nil", nil, "0"},
		{"empty", "", "0"},
		{"dash", "-", "0"},
		{"grouped", "1,234.50", "1234.5"},
		{"padded", "  42 ", "42"},
		{"negative", "-12.30", "-12.3"},
		{"null string", sql.NullString{}, "0"},
		{"valid null string", sql.NullString{String: "9,999.99", Valid: true}, "9999.99"},
		{"decimal", decimal.RequireFromString("10.01"), "10.01"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := CleanNumber(tc.value)
			require.NoError(t, err)
			assert.True(t, got.Equal(decimal.RequireFromString(tc.want)), "got %s", got)
		})
	}
}

func TestCleanNumber_Invalid(t *testing.T) {
	_, err := CleanNumber("abc")
	assert.Error(t, err)

	_, err = CleanNumber(sql.NullString{String: "n/a", Valid: true})
	assert.Error(t, err)

	_, err = CleanNumber(42)
	assert.Error(t, err, "only stored text and decimals are accepted")
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "1,234.50", FormatNumber("1234.5"))
	assert.Equal(t, "1,234,567.89", FormatNumber(decimal.RequireFromString("1234567.891")))
	assert.Equal(t, "0.00", FormatNumber(nil))
	assert.Equal(t, "0.00", FormatNumber("not a number"))
	assert.Equal(t, "-1,000.00", FormatNumber(decimal.NewFromInt(-1000)))
	assert.Equal(t, "-0.50", FormatNumber("-0.5"))
	assert.Equal(t, "0.00", FormatNumber("-0.001"))
	assert.Equal(t, "12.35", FormatNumber("12.345"))
	assert.Equal(t, "999.00", FormatNumber("999"))
}

func TestFormatDecimal_BeyondInt64(t *testing.T) {
	huge := decimal.RequireFromString("99999999.99").Mul(decimal.RequireFromString("9e18"))
	assert.Equal(t, "899,999,999,910,000,000,000,000,000.00", FormatDecimal(huge))
	assert.Equal(t, "-899,999,999,910,000,000,000,000,000.00", FormatDecimal(huge.Neg()))
	assert.Equal(t, "9,223,372,036,854,775,808.50", FormatDecimal(decimal.RequireFromString("9223372036854775808.5")))
}

func TestFormatQty(t *testing.T) {
	assert.Equal(t, "0", FormatQty(0))
	assert.Equal(t, "12,500", FormatQty(12500))
	assert.Equal(t, "-1,000", FormatQty(-1000))
}

func TestRound2(t *testing.T) {
	assert.Equal(t, "2.68", Round2(decimal.RequireFromString("2.675")).StringFixed(2))
	assert.Equal(t, "-2.68", Round2(decimal.RequireFromString("-2.675")).StringFixed(2))
}
