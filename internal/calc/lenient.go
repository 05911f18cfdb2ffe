package calc

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var numericPrefix = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// ParseLenient reads the leading number in s and falls back to def when
// nothing numeric is found, the value is NaN, or the value is exactly zero.
//
// Form fields go through here and nowhere else. A typo such as "8o000" reads
// as 8 and an empty or "abc" salary reads as def, so bad input silently turns
// into a default instead of an error.
func ParseLenient(s string, def float64) float64 {
	s = strings.TrimLeft(s, " \t\n\r\f\v")

	var v float64
	switch {
	case strings.HasPrefix(s, "Infinity"), strings.HasPrefix(s, "+Infinity"):
		v = math.Inf(1)
	case strings.HasPrefix(s, "-Infinity"):
		v = math.Inf(-1)
	default:
		m := numericPrefix.FindString(s)
		if m == "" {
			return def
		}
		// out of range still yields ±Inf or ±0
		v, _ = strconv.ParseFloat(m, 64)
	}

	if v == 0 || math.IsNaN(v) {
		return def
	}
	return v
}
