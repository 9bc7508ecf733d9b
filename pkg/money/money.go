// Package money holds the BRL helpers shared by pricing, cart and orders.
package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Places is the minor-unit precision of BRL.
const Places = 2

var hundred = decimal.NewFromInt(100)

// Round rounds to centavos using half-up.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(Places)
}

// NonNegative clamps d at zero.
func NonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// Sum adds all values.
func Sum(values ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}

// Percent returns pct percent of d, rounded to centavos.
func Percent(d, pct decimal.Decimal) decimal.Decimal {
	return Round(d.Mul(pct).Div(hundred))
}

// Min returns the smaller of a and b.
func Min(a, b decimal.Decimal) decimal.Decimal {
	if a.LessThan(b) {
		return a
	}
	return b
}

// Format renders d as "R$ 12,90".
func Format(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	units := d.Truncate(0)
	cents := Round(d.Sub(units)).Mul(hundred).IntPart()
	if cents == 100 {
		units = units.Add(decimal.NewFromInt(1))
		cents = 0
	}
	return fmt.Sprintf("%sR$ %s,%02d", sign, units.String(), cents)
}

// FromCents converts an integer amount of centavos.
func FromCents(cents int64) decimal.Decimal {
	return decimal.NewFromInt(cents).Shift(-Places)
}
