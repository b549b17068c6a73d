package explain

import (
	"fmt"
	"math"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	millionThreshold = 1_000_000
	billionThreshold = 1_000_000_000
)

// printer renders numbers with English thousand separators.
var printer = message.NewPrinter(language.English)

// Number formats an integer with thousand separators.
// Example: Number(18248) returns "18,248".
func Number(n int64) string {
	return printer.Sprintf("%d", n)
}

// Decimal rounds v to the given number of decimal places and trims
// trailing zeros. Example: Decimal(0.0240, 4) returns "0.024".
func Decimal(v float64, places int) string {
	scale := math.Pow(10, float64(places))
	rounded := math.Round(v*scale) / scale
	return strconv.FormatFloat(rounded, 'f', -1, 64)
}

// Magnitude formats a scaled analogy value for display: abbreviated above
// a million, comma-separated integers in the hundreds and above, and a
// short decimal below that.
func Magnitude(v float64) string {
	switch {
	case v >= billionThreshold:
		return fmt.Sprintf("~%.1f billion", v/billionThreshold)
	case v >= millionThreshold:
		return fmt.Sprintf("~%.1f million", v/millionThreshold)
	case v >= 100:
		return Number(int64(math.Round(v)))
	default:
		return Decimal(v, 2)
	}
}
