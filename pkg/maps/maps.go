// Package maps contains generic helpers for rendering maps.
package maps

import (
	"fmt"
	"sort"
	"strings"
)

// Join renders the map as a single string: each key and value joined with
// mapSep, entries joined with sliceSep. Entries are sorted to keep the
// output stable.
func Join[M ~map[K]V, K comparable, V any](m M, sliceSep, mapSep string) string {
	return strings.Join(Slice(m, mapSep), sliceSep)
}

// Slice renders the map as a sorted slice of strings, each key and value
// joined with sep.
func Slice[M ~map[K]V, K comparable, V any](m M, sep string) []string {
	strs := make([]string, 0, len(m))

	for key, val := range m {
		strs = append(strs, fmt.Sprintf("%v%s%v", key, sep, val))
	}

	sort.Strings(strs)

	return strs
}
