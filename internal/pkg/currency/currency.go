// internal/pkg/currency/currency.go
package currency

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// All monetary amounts in the system are int64 values in the smallest
// currency unit (rupiah has no subunit in practice).

var printer = message.NewPrinter(language.Indonesian)

// Rupiah formats an amount with the "Rp" prefix and Indonesian digit
// grouping, e.g. 25000 -> "Rp 25.000".
func Rupiah(amount int64) string {
	return printer.Sprintf("Rp %d", amount)
}

// Format formats an amount with Indonesian digit grouping only,
// e.g. 25000 -> "25.000".
func Format(amount int64) string {
	return printer.Sprintf("%d", amount)
}
