// Package money formats amounts for operators.
package money

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.BrazilianPortuguese)

// Format renders d as Brazilian reais, e.g. "R$ 1.234,50". Rounding is half away from zero
// to the centavo.
func Format(d decimal.Decimal) string {
	f, _ := d.Round(2).Float64()
	return printer.Sprintf("R$ %v", number.Decimal(f, number.Scale(2)))
}

// InCents reports whether d has no fractional digits beyond the centavo.
func InCents(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(2))
}
