package utils

import (
	"strings"

	"github.com/shopspring/decimal"
)

// MinorToMajor converts an integer amount in minor currency units (pence,
// cents) to its major-unit decimal string, e.g. 1050 -> "10.50".
func MinorToMajor(minor int64) string {
	return decimal.NewFromInt(minor).Div(decimal.NewFromInt(100)).StringFixed(2)
}

// FormatAmount renders a minor-unit amount with an upper-cased currency code,
// e.g. (1050, "gbp") -> "GBP 10.50".
func FormatAmount(minor int64, currency string) string {
	return strings.ToUpper(currency) + " " + MinorToMajor(minor)
}
