package common

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// NotAvailable is the display sentinel for values the provider did not supply.
const NotAvailable = "N/A"

var englishPrinter = message.NewPrinter(language.English)

// FormatLargeNumber scales a raw numeric value into a human-readable string
// with a magnitude suffix (T/B/M) and currency symbol prefix. Values are
// rendered with thousands separators and exactly two decimal places.
// A nil or NaN value formats as "N/A".
func FormatLargeNumber(value *float64, currencySymbol string) string {
	if value == nil || math.IsNaN(*value) {
		return NotAvailable
	}

	v := *value
	switch {
	case math.Abs(v) >= 1e12:
		return englishPrinter.Sprintf("%s%.2f T", currencySymbol, v/1e12)
	case math.Abs(v) >= 1e9:
		return englishPrinter.Sprintf("%s%.2f B", currencySymbol, v/1e9)
	case math.Abs(v) >= 1e6:
		return englishPrinter.Sprintf("%s%.2f M", currencySymbol, v/1e6)
	default:
		return englishPrinter.Sprintf("%s%.2f", currencySymbol, v)
	}
}

// FormatPercent renders a [0,1] fraction as a percentage with two decimal
// places, or "N/A" when the fraction is absent.
func FormatPercent(fraction *float64) string {
	if fraction == nil || math.IsNaN(*fraction) {
		return NotAvailable
	}
	return englishPrinter.Sprintf("%.2f%%", *fraction*100)
}
