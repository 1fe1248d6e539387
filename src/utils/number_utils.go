package utils

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// MoneyPlaces is the number of fractional digits every stored money value keeps.
const MoneyPlaces = 2

// Round2 quantizes d to two fractional digits, rounding half away from zero.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyPlaces)
}

// CleanNumber is the tolerant numeric parser used wherever stored data may be
// dirty. nil, "", "-" and invalid sql.NullString values become zero; commas
// and surrounding whitespace are stripped before parsing. Anything else that
// does not parse returns an error.
func CleanNumber(value any) (decimal.Decimal, error) {
	switch v := value.(type) {
	case nil:
		return decimal.Zero, nil
	case decimal.Decimal:
		return v, nil
	case sql.NullString:
		if !v.Valid {
			return decimal.Zero, nil
		}
		return cleanString(v.String)
	case string:
		return cleanString(v)
	default:
		return decimal.Zero, fmt.Errorf("unsupported numeric value of type %T", value)
	}
}

func cleanString(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "-" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", ""))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid numeric value %q: %w", s, err)
	}
	return d, nil
}

// FormatNumber renders value as a comma-grouped string with two decimals,
// e.g. "1,234.50". Values CleanNumber rejects render as "0.00".
func FormatNumber(value any) string {
	d, err := CleanNumber(value)
	if err != nil {
		return "0.00"
	}
	return FormatDecimal(d)
}

// FormatDecimal renders d as a comma-grouped string with two decimals.
func FormatDecimal(d decimal.Decimal) string {
	fixed := Round2(d)
	sign := ""
	if fixed.IsNegative() {
		sign = "-"
		fixed = fixed.Abs()
	}
	whole := fixed.Truncate(0)
	frac := fixed.Sub(whole).StringFixed(MoneyPlaces) // "0.xx"
	return sign + humanize.BigComma(whole.BigInt()) + frac[1:]
}

// FormatQty renders a quantity with thousands separators, e.g. "12,500".
func FormatQty(n int64) string {
	return humanize.Comma(n)
}
