// Package maputil provides small helpers for deterministic map traversal.
package maputil

import "sort"

// SortedKeys returns the map's keys in lexicographic order. Map iteration
// order is randomized; every traversal that feeds a report or a diff goes
// through this so identical inputs yield identical output.
func SortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
