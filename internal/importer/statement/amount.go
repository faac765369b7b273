package statement

import (
	"strings"

	"github.com/shopspring/decimal"
)

// parseAmount reads a statement amount. With decimalComma the format is
// "-1.234,56", otherwise "-1,234.56". A currency prefix is ignored.
func parseAmount(s string, decimalComma bool) (decimal.Decimal, error) {
	clean := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "R$"))
	clean = strings.ReplaceAll(clean, " ", "")

	if decimalComma {
		clean = strings.ReplaceAll(clean, ".", "")
		clean = strings.ReplaceAll(clean, ",", ".")
	} else {
		clean = strings.ReplaceAll(clean, ",", "")
	}

	return decimal.NewFromString(clean)
}
