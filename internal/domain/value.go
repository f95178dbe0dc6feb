package domain

import (
	"fmt"
	"strconv"
)

// IsEmptyValue reports whether a form value carries no user content: nil,
// an empty or whitespace-free empty string, or an empty slice/map. Numbers
// and booleans always count as content, including zero values, because a
// deliberate 0 or false is meaningful input.
func IsEmptyValue(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return val == ""
	case []any:
		return len(val) == 0
	case []string:
		return len(val) == 0
	case map[string]any:
		return len(val) == 0
	default:
		return false
	}
}

// HasAnyValue reports whether at least one field in the data map is
// non-empty. Drives the "only autosave when there is something to save"
// rule.
func HasAnyValue(data map[string]any) bool {
	for _, v := range data {
		if !IsEmptyValue(v) {
			return true
		}
	}
	return false
}

// formatScalar renders a non-string scalar for URL substitution. JSON
// numbers arrive as float64; integral ones must not grow a ".0" suffix or
// record IDs would corrupt redirect URLs.
func formatScalar(v any) string {
	switch val := v.(type) {
	case float64:
		if val == float64(int64(val)) {
			return strconv.FormatInt(int64(val), 10)
		}
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprintf("%v", val)
	}
}
