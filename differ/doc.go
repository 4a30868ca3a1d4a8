// Package differ compares a baseline API description against a candidate
// one and classifies every difference as breaking, non-breaking, or
// informational.
//
// Comparison is structural: operations are matched by (path, method),
// parameters by (name, location), responses by status code, and object
// properties by name. Matched schema pairs are compared recursively with
// cycle protection; classification is position-sensitive, so the same
// schema change can be breaking when reachable from a request and
// harmless when reachable from a response.
//
// The severity assigned to each change kind is a policy, not hard-coded
// logic: see RulesConfig for overriding individual rules and the
// DefaultRules, StrictRules, and LenientRules presets.
package differ
