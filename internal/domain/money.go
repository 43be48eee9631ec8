package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// TaxRate is the flat sales tax applied to every order subtotal.
var TaxRate = decimal.RequireFromString("0.08")

// RoundCents rounds half away from zero to two fraction digits.
func RoundCents(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// FormatMoney renders d with exactly two fraction digits, e.g. "6499.97".
func FormatMoney(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// FormatUSD renders d as a dollar amount with thousands separators, e.g. "$14,500.00".
func FormatUSD(d decimal.Decimal) string {
	s := d.StringFixed(2)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return sign + "$" + b.String() + "." + frac
}
