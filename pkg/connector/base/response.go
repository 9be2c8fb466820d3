package base

import (
	"strings"

	"github.com/ajitpratap0/tributary/pkg/connector/core"
)

// envelopeKeys is the fixed precedence order for unwrapping object-wrapped
// record lists. Callers of unknown APIs rely on this order to normalize
// response shape without per-API configuration.
var envelopeKeys = []string{"data", "results", "items"}

// RecordsOf normalizes a decoded response into a flat page of records:
// a bare list is returned as-is; a mapping is unwrapped through the first
// matching envelope key (data, then results, then items); anything else is
// wrapped as a single-element page. Total and deterministic.
func RecordsOf(v interface{}) core.Page {
	switch t := v.(type) {
	case []interface{}:
		return core.Page(t)
	case map[string]interface{}:
		for _, key := range envelopeKeys {
			inner, ok := t[key]
			if !ok {
				continue
			}
			if list, ok := inner.([]interface{}); ok {
				return core.Page(list)
			}
			return core.Page{inner}
		}
		return core.Page{v}
	default:
		return core.Page{v}
	}
}

// NestedValue resolves a dotted path ("paging.cursors.after") against nested
// mappings one key segment at a time. It returns false, never an error, the
// moment a segment is missing or the current value is not a mapping. Used to
// locate next-cursor tokens anywhere in a response body.
func NestedValue(v interface{}, path string) (interface{}, bool) {
	current := v
	for _, key := range strings.Split(path, ".") {
		m, ok := current.(map[string]interface{})
		if !ok {
			return nil, false
		}
		current, ok = m[key]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// emptyCursor reports whether a cursor value should end pagination: absent,
// an empty string, false, or nil all mean no further pages.
func emptyCursor(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case bool:
		return !t
	default:
		return false
	}
}
