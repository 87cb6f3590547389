package models

import (
	"math"
	"strconv"
)

// Round2 rounds to two decimals, half-up. Prices never go negative here,
// so half away from zero and half-up coincide.
func Round2(v float64) float64 {
	return math.Floor(v*100+0.5) / 100
}

// FormatAmount renders a monetary value the way it travels in events:
// a plain decimal string with two fraction digits.
func FormatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// ParseAmount parses a decimal amount string from an event or a
// change-feed record.
func ParseAmount(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}
