package payload

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	floatPrefix = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?`)
	intPrefix   = regexp.MustCompile(`^[+-]?\d+`)
)

// ParseFloat reads the longest leading decimal number in s. Anything
// unreadable is 0.
func ParseFloat(s string) float64 {
	m := floatPrefix.FindString(strings.TrimSpace(s))
	if m == "" {
		return 0
	}
	f, err := strconv.ParseFloat(m, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// ParseInt reads the leading integer in s; "12.9" is 12. Anything unreadable is 0.
func ParseInt(s string) int {
	m := intPrefix.FindString(strings.TrimSpace(s))
	if m == "" {
		return 0
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0
	}
	return n
}

// ParseBool reads a status field. Empty means active.
func ParseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "true", "1", "active", "yes", "on":
		return true
	default:
		return false
	}
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
