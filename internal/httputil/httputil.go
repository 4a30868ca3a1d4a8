// Package httputil provides HTTP-related helpers and constants shared by
// the model and the comparison engine.
package httputil

import (
	"strconv"
	"strings"
)

// HTTP Status Code Constants
const (
	StatusCodeLength = 3   // Standard length of HTTP status codes (e.g., "200", "404")
	MinStatusCode    = 100 // Minimum valid HTTP status code
	MaxStatusCode    = 599 // Maximum valid HTTP status code
	WildcardChar     = 'X' // Wildcard character used in status code patterns (e.g., "2XX")
)

// CanonicalMethods lists HTTP methods recognized as operation keys, in the
// order used for deterministic output.
var CanonicalMethods = []string{"get", "put", "post", "delete", "options", "head", "patch", "trace"}

// IsMethod reports whether name is a recognized HTTP method (lowercase).
func IsMethod(name string) bool {
	for _, m := range CanonicalMethods {
		if m == name {
			return true
		}
	}
	return false
}

// ValidStatusCode checks if a status code string is acceptable as a
// response key. Valid values are:
//   - "default" for the default response
//   - Wildcard patterns: 1XX, 2XX, 3XX, 4XX, 5XX
//   - Numeric codes: 100-599
func ValidStatusCode(code string) bool {
	if code == "default" {
		return true
	}

	if len(code) != StatusCodeLength {
		return false
	}

	// Wildcard patterns (e.g., "2XX", "4XX")
	if code[1] == WildcardChar && code[2] == WildcardChar {
		return code[0] >= '1' && code[0] <= '5'
	}

	n, err := strconv.Atoi(code)
	if err != nil {
		return false
	}
	return n >= MinStatusCode && n <= MaxStatusCode
}

// IsSuccessCode reports whether a status code key denotes a 2xx response.
// Wildcard keys like "2XX" count as success.
func IsSuccessCode(code string) bool {
	return strings.HasPrefix(code, "2")
}

// IsErrorCode reports whether a status code key denotes a 4xx or 5xx
// response. Wildcard keys like "4XX" count as errors.
func IsErrorCode(code string) bool {
	return strings.HasPrefix(code, "4") || strings.HasPrefix(code, "5")
}
