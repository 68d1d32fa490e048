package model

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// AmountWidth is the width of a fixed-point amount field: "00000.00".
const AmountWidth = 8

// MaxAmount is the largest amount a fixed-width field can carry.
var MaxAmount = decimal.RequireFromString("99999.99")

// FormatAmount renders a non-negative amount zero-padded to AmountWidth,
// rounding to two decimals.
func FormatAmount(d decimal.Decimal) (string, error) {
	s := d.StringFixed(2)
	if strings.HasPrefix(s, "-") || len(s) > AmountWidth {
		return "", fmt.Errorf("amount %s does not fit %d characters", s, AmountWidth)
	}
	return strings.Repeat("0", AmountWidth-len(s)) + s, nil
}

// Dollars renders an amount for the console: "$1,234.50".
func Dollars(d decimal.Decimal) string {
	s := d.Abs().StringFixed(2)
	whole, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	for i, c := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}

	sign := ""
	if d.IsNegative() && !d.Round(2).IsZero() {
		sign = "-"
	}
	return sign + "$" + b.String() + "." + frac
}
