// Package numutil converts loosely typed values, such as URL query
// parameters, into numbers.
package numutil

import (
	"math"
	"strings"

	"github.com/spf13/cast"
)

// IsNumericString reports whether s, ignoring surrounding whitespace, is a
// finite decimal number. "NaN", "Infinity" and the empty string are not.
func IsNumericString(s string) bool {
	_, ok := parseFinite(s)
	return ok
}

// SafeNumber converts v to a float64. Numbers are returned unchanged,
// numeric strings are parsed and anything else yields def.
func SafeNumber(v any, def float64) float64 {
	switch n := v.(type) {
	case nil:
		return def
	case string:
		if f, ok := parseFinite(n); ok {
			return f
		}
		return def
	case *string:
		if n == nil {
			return def
		}
		return SafeNumber(*n, def)
	case bool:
		return def
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return def
	}
	return f
}

func parseFinite(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := cast.ToFloat64E(s)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
