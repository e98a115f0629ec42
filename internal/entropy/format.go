package entropy

import (
	"math"
	"strconv"
	"strings"
)

// displayDigits is the fixed precision used once a value's natural form runs long.
const displayDigits = 7

// Format renders h for display. Values whose shortest round-trip form has at
// least seven characters after the last '.' are printed with exactly seven
// fractional digits; anything shorter is printed as is ("1.0", "0.0", "2.5").
func Format(h float64) string {
	s := natural(h)
	frac := s[strings.LastIndex(s, ".")+1:]
	if len(frac) >= displayDigits {
		return strconv.FormatFloat(h, 'f', displayDigits, 64)
	}
	return s
}

// natural is the shortest decimal text that round-trips h. Integral values keep
// a trailing ".0" and very small or very large magnitudes switch to exponent form.
func natural(h float64) string {
	if math.IsNaN(h) || math.IsInf(h, 0) {
		return strconv.FormatFloat(h, 'g', -1, 64)
	}

	abs := math.Abs(h)
	if abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(h, 'e', -1, 64)
	}

	s := strconv.FormatFloat(h, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
