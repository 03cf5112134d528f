// Package format renders won amounts, unit counts and rates the way the
// calculator displays them.
package format

import (
	"fmt"

	"github.com/8wontae4/cost-calculation/pkg/constants"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.Korean)

// Grouped returns n with thousands separators (e.g., "1,447,200,000").
func Grouped(n int64) string {
	return printer.Sprintf("%d", n)
}

// Won returns a won amount with separators (e.g., "201,000원").
func Won(amount int64) string {
	return Grouped(amount) + "원"
}

// WonPerUnit returns a per-piece won amount (e.g., "201,000원/개").
func WonPerUnit(amount int64) string {
	return Won(amount) + "/개"
}

// Eok expresses a won amount in 억원 with one decimal (e.g., "14.5억원").
func Eok(amount int64) string {
	return fmt.Sprintf("%.1f억원", float64(amount)/constants.EokWon)
}

// Count returns a grouped count followed by its unit (e.g., "7,200개").
func Count(n int64, unit string) string {
	return Grouped(n) + unit
}

// Rate returns a one-decimal value followed by its unit (e.g., "50.0대/월").
func Rate(v float64, unit string) string {
	return fmt.Sprintf("%.1f%s", v, unit)
}

// Percent returns a one-decimal percentage (e.g., "93.2%").
func Percent(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}

// SetPrice returns a 12-unit set price in 천만원 (e.g., "5.0천만원").
func SetPrice(v float64) string {
	return fmt.Sprintf("%.1f천만원", v)
}

// Months returns a production period (e.g., "12개월").
func Months(n int) string {
	return fmt.Sprintf("%d개월", n)
}
