package utils

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatEuro renders an amount the French way: space-separated thousands,
// comma decimals, trailing euro sign. Used in customer-facing mail bodies.
func FormatEuro(amount decimal.Decimal) string {
	formatted := amount.StringFixed(2)

	sign := ""
	if strings.HasPrefix(formatted, "-") {
		sign = "-"
		formatted = formatted[1:]
	}

	parts := strings.Split(formatted, ".")
	integerPart := parts[0]
	decimalPart := parts[1]

	var groups []string
	for i := len(integerPart); i > 0; i -= 3 {
		start := i - 3
		if start < 0 {
			start = 0
		}
		groups = append([]string{integerPart[start:i]}, groups...)
	}

	return sign + strings.Join(groups, " ") + "," + decimalPart + " €"
}
