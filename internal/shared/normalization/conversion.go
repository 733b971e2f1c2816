package normalization

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// AsString trims and returns the string representation of value. Numeric identifiers are
// rendered without a trailing fraction so that 12 and "12" compare equal.
func AsString(value any) string {
	switch typed := value.(type) {
	case string:
		return strings.TrimSpace(typed)
	case json.Number:
		return typed.String()
	case float64:
		if typed == math.Trunc(typed) {
			return strconv.FormatInt(int64(typed), 10)
		}
		return strconv.FormatFloat(typed, 'f', -1, 64)
	case int:
		return strconv.Itoa(typed)
	case int64:
		return strconv.FormatInt(typed, 10)
	default:
		return ""
	}
}

// AsInt coerces numeric values supported by the REST layer into Go ints.
func AsInt(value any) int {
	switch typed := value.(type) {
	case float64:
		return int(typed)
	case float32:
		return int(typed)
	case int:
		return typed
	case int32:
		return int(typed)
	case int64:
		return int(typed)
	case string:
		if parsed, err := strconv.Atoi(strings.TrimSpace(typed)); err == nil {
			return parsed
		}
	}
	return 0
}

// AsFloat64 coerces numeric values (including numeric strings) into float64.
func AsFloat64(value any) float64 {
	parsed, _ := AsOptionalFloat64(value)
	return parsed
}

// AsOptionalFloat64 reports whether value carried a usable number. NaN and infinities are rejected.
func AsOptionalFloat64(value any) (float64, bool) {
	var parsed float64
	switch typed := value.(type) {
	case float64:
		parsed = typed
	case float32:
		parsed = float64(typed)
	case int:
		parsed = float64(typed)
	case int32:
		parsed = float64(typed)
	case int64:
		parsed = float64(typed)
	case json.Number:
		f, err := typed.Float64()
		if err != nil {
			return 0, false
		}
		parsed = f
	case string:
		trimmed := strings.TrimSpace(typed)
		if trimmed == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return 0, false
		}
		parsed = f
	default:
		return 0, false
	}
	if math.IsNaN(parsed) || math.IsInf(parsed, 0) {
		return 0, false
	}
	return parsed, true
}

// AsInterfaceSlice normalizes different collection types into a []any.
func AsInterfaceSlice(value any) []any {
	switch typed := value.(type) {
	case []any:
		return typed
	case []map[string]any:
		items := make([]any, 0, len(typed))
		for _, entry := range typed {
			items = append(items, entry)
		}
		return items
	default:
		return nil
	}
}

// MapFromPayload attempts to unwrap common envelope structures (e.g. {"data": {...}})
// into a plain map for normalization routines.
func MapFromPayload(value any) map[string]any {
	if value == nil {
		return nil
	}
	if typed, ok := value.(map[string]any); ok {
		if data, ok := typed["data"].(map[string]any); ok {
			return data
		}
		return typed
	}
	return nil
}

// FirstPositive returns the first key of source holding a number greater than zero.
func FirstPositive(source map[string]any, keys ...string) (float64, bool) {
	for _, key := range keys {
		if value, ok := AsOptionalFloat64(source[key]); ok && value > 0 {
			return value, true
		}
	}
	return 0, false
}

// FirstNonZero returns the first key of source holding a non-zero number.
func FirstNonZero(source map[string]any, keys ...string) (float64, bool) {
	for _, key := range keys {
		if value, ok := AsOptionalFloat64(source[key]); ok && value != 0 {
			return value, true
		}
	}
	return 0, false
}

// FirstString returns the first non-empty string found under keys.
func FirstString(source map[string]any, keys ...string) string {
	for _, key := range keys {
		if value := AsString(source[key]); value != "" {
			return value
		}
	}
	return ""
}
