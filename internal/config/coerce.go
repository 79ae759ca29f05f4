package config

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var amountCleaner = strings.NewReplacer("$", "", ",", "", "_", "", " ", "")

// ParseAmount converts user-entered text to a decimal. Currency symbols and
// thousands separators are ignored; anything unparseable becomes zero.
func ParseAmount(s string) decimal.Decimal {
	cleaned := amountCleaner.Replace(strings.TrimSpace(s))
	if cleaned == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// ParseNonNegative is ParseAmount with negative results clamped to zero.
func ParseNonNegative(s string) decimal.Decimal {
	d := ParseAmount(s)
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// ParseCount converts user-entered text to a whole number, truncating any
// fraction. Unparseable text becomes zero.
func ParseCount(s string) int {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return int(ParseAmount(s).IntPart())
}
