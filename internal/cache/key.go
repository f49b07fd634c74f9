package cache

import (
	"fmt"
	"sort"
	"strings"
)

const keyDelimiter = ":"

// Key builds a deterministic cache key from a prefix and a set of named
// parameters. Parameter names are sorted lexicographically and parameters
// with absent values are dropped, so two filter sets that are equal as sets
// of present (name, value) pairs always produce the same key regardless of
// how the map was populated.
//
// Nil values and nil typed pointers count as absent. Pointer values are
// dereferenced before formatting.
func Key(prefix string, params map[string]interface{}) string {
	names := make([]string, 0, len(params))
	for name := range params {
		if isAbsent(params[name]) {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, 2*len(names)+1)
	parts = append(parts, prefix)
	for _, name := range names {
		parts = append(parts, name, formatValue(params[name]))
	}

	return strings.Join(parts, keyDelimiter)
}

func isAbsent(v interface{}) bool {
	switch p := v.(type) {
	case nil:
		return true
	case *string:
		return p == nil
	case *int:
		return p == nil
	case *float64:
		return p == nil
	default:
		return false
	}
}

func formatValue(v interface{}) string {
	switch p := v.(type) {
	case *string:
		return *p
	case *int:
		return fmt.Sprintf("%v", *p)
	case *float64:
		return fmt.Sprintf("%v", *p)
	default:
		return fmt.Sprintf("%v", v)
	}
}
