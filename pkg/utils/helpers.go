package utils

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// FormatThousands renders v with zero decimals and comma-grouped thousands
func FormatThousands(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	s := printer.Sprintf("%.0f", v)
	if s == "-0" {
		return "0"
	}
	return s
}

// FormatMoney is FormatThousands with a dollar sign
func FormatMoney(v float64) string {
	s := FormatThousands(v)
	if strings.HasPrefix(s, "-") {
		return "-$" + s[1:]
	}
	return "$" + s
}

// FormatDecimal renders v with the fewest digits that round-trip
func FormatDecimal(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// RoundTo rounds a float to specified decimal places
func RoundTo(value float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(value*factor) / factor
}
