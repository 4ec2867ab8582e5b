package optimizer

import (
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strings"

	"github.com/vladislavprovich/omnix-dataservice/pkg/cache"
)

// OptimizeParams canonicalizes a parameter bag: nil and empty-string values
// are dropped and slices become comma-joined strings. Keys are emitted in
// sorted order by every encoder the cache uses; SortedKeys gives the same
// order to callers.
func OptimizeParams(params cache.Params) cache.Params {
	out := make(cache.Params, len(params))
	for key, val := range params {
		if isEmpty(val) {
			continue
		}
		if joined, ok := joinSlice(val); ok {
			out[key] = joined
			continue
		}
		out[key] = val
	}
	return out
}

// SortedKeys returns the keys of params in lexicographic order.
func SortedKeys(params cache.Params) []string {
	return slices.Sorted(maps.Keys(params))
}

func isEmpty(val any) bool {
	if val == nil {
		return true
	}
	if s, ok := val.(string); ok {
		return s == ""
	}

	rv := reflect.ValueOf(val)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	default:
		return false
	}
}

func joinSlice(val any) (string, bool) {
	rv := reflect.ValueOf(val)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return "", false
	}
	if rv.Type().Elem().Kind() == reflect.Uint8 {
		return "", false
	}

	parts := make([]string, rv.Len())
	for i := range parts {
		elem := rv.Index(i).Interface()
		if elem == nil {
			continue
		}
		parts[i] = fmt.Sprint(elem)
	}
	return strings.Join(parts, ","), true
}
