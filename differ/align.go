package differ

import (
	"sort"

	"github.com/specgate/specgate/apispec"
)

// align partitions two identity-keyed collections into matched pairs,
// removed-only keys (baseline only), and added-only keys (candidate only).
// Matching is by exact key equality; there is no fuzzy or best-effort
// matching, so a renamed element always surfaces as a removal plus an
// addition. All three partitions come back sorted by less, independent of
// input order.
func align[K comparable](base, cand []K, less func(a, b K) bool) (matched, removed, added []K) {
	inBase := make(map[K]bool, len(base))
	for _, k := range base {
		inBase[k] = true
	}
	inCand := make(map[K]bool, len(cand))
	for _, k := range cand {
		inCand[k] = true
	}

	for k := range inBase {
		if inCand[k] {
			matched = append(matched, k)
		} else {
			removed = append(removed, k)
		}
	}
	for k := range inCand {
		if !inBase[k] {
			added = append(added, k)
		}
	}

	for _, part := range [][]K{matched, removed, added} {
		sort.Slice(part, func(i, j int) bool { return less(part[i], part[j]) })
	}
	return matched, removed, added
}

func opKeyLess(a, b apispec.OperationKey) bool {
	if a.Path != b.Path {
		return a.Path < b.Path
	}
	return a.Method < b.Method
}

func paramKeyLess(a, b apispec.ParameterKey) bool {
	if a.Name != b.Name {
		return a.Name < b.Name
	}
	return a.Location < b.Location
}

func stringLess(a, b string) bool { return a < b }

// alignKeys aligns operation keys.
func alignKeys(base, cand []apispec.OperationKey) (matched, removed, added []apispec.OperationKey) {
	return align(base, cand, opKeyLess)
}

// alignParams aligns parameter identity keys.
func alignParams(base, cand []*apispec.Parameter) (matched, removed, added []apispec.ParameterKey) {
	return align(paramKeys(base), paramKeys(cand), paramKeyLess)
}

func paramKeys(params []*apispec.Parameter) []apispec.ParameterKey {
	keys := make([]apispec.ParameterKey, 0, len(params))
	for _, p := range params {
		keys = append(keys, p.Key())
	}
	return keys
}

// alignStrings aligns plain string keys (status codes, media types,
// property names).
func alignStrings(base, cand []string) (matched, removed, added []string) {
	return align(base, cand, stringLess)
}
