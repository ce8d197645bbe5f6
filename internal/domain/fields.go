package domain

import (
	"encoding/json"
	"strconv"

	"github.com/PaesslerAG/jsonpath"
)

// Field helpers pluck values out of a record's decoded Move field tree.
// The full node serializes u64 values as JSON strings and wraps nested
// structs in an extra "fields" level, so the same logical value can live
// at more than one path across schema generations. Callers pass candidate
// paths in priority order.

// FieldValue returns the raw value at the first matching jsonpath.
func FieldValue(fields map[string]any, paths ...string) (any, bool) {
	if fields == nil {
		return nil, false
	}
	for _, path := range paths {
		v, err := jsonpath.Get(path, any(fields))
		if err != nil || v == nil {
			continue
		}
		// jsonpath is not always clear about whether it returns a list
		// of one answer or a single answer; unwrap the former.
		if list, ok := v.([]any); ok {
			if len(list) != 1 {
				continue
			}
			v = list[0]
		}
		return v, true
	}
	return nil, false
}

// FieldString returns the string value at the first matching path.
func FieldString(fields map[string]any, paths ...string) (string, bool) {
	v, ok := FieldValue(fields, paths...)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// FieldUint64 returns the integer value at the first matching path,
// accepting the string, number and json.Number encodings the node emits.
func FieldUint64(fields map[string]any, paths ...string) (uint64, bool) {
	v, ok := FieldValue(fields, paths...)
	if !ok {
		return 0, false
	}
	return toUint64(v)
}

func toUint64(v any) (uint64, bool) {
	switch n := v.(type) {
	case string:
		u, err := strconv.ParseUint(n, 10, 64)
		return u, err == nil
	case json.Number:
		u, err := strconv.ParseUint(n.String(), 10, 64)
		return u, err == nil
	case float64:
		if n < 0 {
			return 0, false
		}
		return uint64(n), true
	case uint64:
		return n, true
	case int:
		if n < 0 {
			return 0, false
		}
		return uint64(n), true
	default:
		return 0, false
	}
}
