// Package money renders raw currency amounts for display. It is the single
// formatting boundary: everything upstream works with plain float64 values.
package money

import (
	"fmt"
	"strings"
)

var symbols = map[string]string{
	"BRL": "R$",
	"USD": "$",
	"EUR": "€",
}

// Format renders value with two decimal places, thousands grouping and the
// currency symbol, using the locale's separator convention. Unknown currency
// codes are used verbatim as the symbol.
func Format(value float64, locale, currency string) string {
	symbol, ok := symbols[currency]
	if !ok {
		symbol = currency
	}

	decimalSep, groupSep := ".", ","
	if locale == "pt-BR" {
		decimalSep, groupSep = ",", "."
	}

	negative := value < 0
	if negative {
		value = -value
	}

	whole := fmt.Sprintf("%.2f", value)
	intPart, fracPart, _ := strings.Cut(whole, ".")

	var grouped strings.Builder
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			grouped.WriteString(groupSep)
		}
		grouped.WriteRune(digit)
	}

	sign := ""
	if negative {
		sign = "-"
	}

	return fmt.Sprintf("%s%s %s%s%s", sign, symbol, grouped.String(), decimalSep, fracPart)
}
