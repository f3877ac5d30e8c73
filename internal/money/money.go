package money

import (
	"strings"

	"github.com/shopspring/decimal"

	"folha/internal/apperr"
)

// Parse converts a user-entered monetary string into a decimal. It accepts a
// leading currency symbol ("R$"), thousands separators and either "," or "."
// as the decimal separator; the last punctuation mark wins. Empty input
// parses as zero.
func Parse(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "R$")
	s = strings.TrimPrefix(s, "$")
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}

	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")

	var intPart, fracPart string
	switch {
	case lastComma > lastDot:
		intPart, fracPart = s[:lastComma], s[lastComma+1:]
	case lastDot > lastComma:
		intPart, fracPart = s[:lastDot], s[lastDot+1:]
	default:
		intPart = s
	}

	intPart = strings.NewReplacer(",", "", ".", "", " ", "").Replace(intPart)
	normalized := intPart
	if fracPart != "" {
		normalized = intPart + "." + fracPart
	}

	value, err := decimal.NewFromString(normalized)
	if err != nil {
		return decimal.Zero, apperr.Validation("invalid monetary value %q", raw)
	}
	return value, nil
}

// Format renders a decimal with two-place rounding for display. Internal
// computation keeps full precision; rounding happens only here.
func Format(value decimal.Decimal) string {
	return value.StringFixed(2)
}
