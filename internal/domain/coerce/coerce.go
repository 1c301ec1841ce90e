// Package coerce converts loosely typed record values into numbers.
//
// Stats arrive from spreadsheets and scrapers, so a field may hold an int, a
// float, a numeric string, or nothing at all. Every helper here fails soft:
// anything that cannot be read as a number yields the caller's default.
package coerce

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Float reads v as a float64, returning def when v is not numeric.
func Float(v any, def float64) float64 {
	f, ok := toFloat(v)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return def
	}
	return f
}

// Int reads v as an int, returning def when v is not numeric.
// Floats truncate toward zero; strings must be integer literals.
func Int(v any, def int) int {
	switch n := v.(type) {
	case int:
		return n
	case int8:
		return int(n)
	case int16:
		return int(n)
	case int32:
		return int(n)
	case int64:
		return int(n)
	case uint:
		return int(n)
	case uint8:
		return int(n)
	case uint16:
		return int(n)
	case uint32:
		return int(n)
	case uint64:
		return int(n)
	case float32:
		return truncate(float64(n), def)
	case float64:
		return truncate(n, def)
	case json.Number:
		// Store-decoded numbers truncate like floats.
		if i, err := n.Int64(); err == nil {
			return int(i)
		}
		f, err := n.Float64()
		if err != nil {
			return def
		}
		return truncate(f, def)
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return def
		}
		return i
	}
	return def
}

// String reads v as a string. Non-string values yield "".
func String(v any) string {
	s, _ := v.(string)
	return s
}

func truncate(f float64, def int) int {
	if math.IsNaN(f) || math.IsInf(f, 0) || f > math.MaxInt64 || f < math.MinInt64 {
		return def
	}
	return int(f)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	}
	return 0, false
}
