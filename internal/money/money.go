// Package money renders monetary values the way the order screens display
// them: rounded to the nearest whole unit with es-CL thousands grouping
// ("49.000"). Internal arithmetic stays in decimal.Decimal at full precision;
// rounding happens only here, at the formatting edge.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.MustParse("es-CL"))

// Format rounds to the nearest whole unit and applies thousands grouping.
func Format(d decimal.Decimal) string {
	return printer.Sprintf("%d", d.Round(0).IntPart())
}

// Parse reads a value that may carry display formatting: "49.000" or
// "49.000,50". Plain decimal strings ("49000.50") pass through unchanged.
func Parse(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	} else if strings.Count(s, ".") > 1 || looksGrouped(s) {
		s = strings.ReplaceAll(s, ".", "")
	}
	return decimal.NewFromString(s)
}

// looksGrouped reports whether a single dot is a thousands separator rather
// than a decimal point: exactly three digits after it, at least one before.
func looksGrouped(s string) bool {
	i := strings.Index(s, ".")
	if i <= 0 {
		return false
	}
	return len(s)-i-1 == 3
}
