// Package severity provides the severity scale shared by the differ and
// report packages.
//
// Every detected difference is classified on a three-level scale:
//   - SeverityInformational: contract-neutral changes (deprecation flags,
//     differences with no defined compatibility rule)
//   - SeverityNonBreaking: changes no spec-conformant consumer can observe
//     as a failure (additions, relaxed constraints)
//   - SeverityBreaking: changes that can cause an existing consumer to fail
//
// The levels are ordered from least to most severe:
// Informational < NonBreaking < Breaking.
package severity

// Severity indicates the consumer impact of a detected change.
type Severity int

const (
	// SeverityInformational indicates a change with no compatibility impact,
	// reported for visibility only.
	SeverityInformational Severity = iota

	// SeverityNonBreaking indicates a change that relaxes or extends the
	// contract without invalidating existing consumers.
	SeverityNonBreaking

	// SeverityBreaking indicates a change that can cause an existing,
	// spec-conformant consumer to fail.
	SeverityBreaking
)

// MarshalText implements encoding.TextMarshaler so serialized reports
// carry level names instead of bare integers.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// MarshalYAML mirrors MarshalText for the YAML encoder, which does not
// consult TextMarshaler.
func (s Severity) MarshalYAML() (any, error) {
	return s.String(), nil
}

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityInformational:
		return "informational"
	case SeverityNonBreaking:
		return "non-breaking"
	case SeverityBreaking:
		return "breaking"
	default:
		return "unknown"
	}
}
