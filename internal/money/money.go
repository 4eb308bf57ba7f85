// Package money holds the decimal arithmetic helpers shared by billing,
// services, and the database edge. All persisted amounts are rounded to
// 2 decimal places.
package money

import (
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Round2 rounds to 2 decimal places, half away from zero.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Percent returns pct% of base.
func Percent(base, pct decimal.Decimal) decimal.Decimal {
	return base.Mul(pct).Div(hundred)
}

// FromNumeric converts a pgtype.Numeric to a decimal. Invalid (NULL)
// numerics convert to zero.
func FromNumeric(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}
	val, err := n.Value()
	if err != nil || val == nil {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(val.(string))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// ToNumeric converts a decimal to a pgtype.Numeric, rounded to 2dp.
func ToNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric
	_ = n.Scan(d.StringFixed(2))
	return n
}

// NumericString formats a pgtype.Numeric with 2 decimal places for API
// responses. NULL formats as "0.00".
func NumericString(n pgtype.Numeric) string {
	return FromNumeric(n).StringFixed(2)
}
