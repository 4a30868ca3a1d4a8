package differ

import (
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/specgate/specgate/apispec"
	"github.com/specgate/specgate/internal/severity"
)

// ChangeType indicates whether a change is an addition, removal, or modification
type ChangeType string

const (
	// ChangeTypeAdded indicates a new element was added
	ChangeTypeAdded ChangeType = "added"
	// ChangeTypeRemoved indicates an element was removed
	ChangeTypeRemoved ChangeType = "removed"
	// ChangeTypeModified indicates an existing element was changed
	ChangeTypeModified ChangeType = "modified"
)

// ChangeCategory indicates which part of the description was changed
type ChangeCategory string

const (
	// CategoryOperation indicates an operation-level change
	CategoryOperation ChangeCategory = "operation"
	// CategoryParameter indicates a parameter change
	CategoryParameter ChangeCategory = "parameter"
	// CategoryRequestBody indicates a request body change
	CategoryRequestBody ChangeCategory = "request_body"
	// CategoryResponse indicates a response change
	CategoryResponse ChangeCategory = "response"
	// CategorySchema indicates a schema change
	CategorySchema ChangeCategory = "schema"
)

// Position indicates whether a schema node is reachable from a request
// (client-supplied) or a response (server-supplied) context. Classification
// is direction-sensitive: the same structural change can break consumers in
// one position and be harmless in the other.
type Position int

const (
	// PositionRequest covers everything reachable from a RequestBody or a Parameter.
	PositionRequest Position = iota
	// PositionResponse covers everything reachable from a Response.
	PositionResponse
)

// String returns the lowercase position name.
func (p Position) String() string {
	if p == PositionResponse {
		return "response"
	}
	return "request"
}

// MarshalText implements encoding.TextMarshaler so serialized reports
// carry position names instead of bare integers.
func (p Position) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// MarshalYAML mirrors MarshalText for the YAML encoder, which does not
// consult TextMarshaler.
func (p Position) MarshalYAML() (any, error) {
	return p.String(), nil
}

// Severity indicates the severity level of a change
type Severity = severity.Severity

const (
	// SeverityInformational indicates changes with no contract impact
	SeverityInformational = severity.SeverityInformational
	// SeverityNonBreaking indicates contract changes existing consumers tolerate
	SeverityNonBreaking = severity.SeverityNonBreaking
	// SeverityBreaking indicates changes that can make an existing consumer fail
	SeverityBreaking = severity.SeverityBreaking
)

// Change represents a single classified difference between the baseline
// and candidate descriptions.
type Change struct {
	// Operation identifies the operation this change belongs to; every
	// change is scoped to an operation.
	Operation apispec.OperationKey `json:"operation" yaml:"operation"`
	// Breadcrumb describes how the changed element was reached within the
	// operation (e.g. "response 200 > application/json > properties.id").
	// Empty for operation-level additions and removals.
	Breadcrumb string `json:"breadcrumb,omitempty" yaml:"breadcrumb,omitempty"`
	// Type indicates if this is an addition, removal, or modification
	Type ChangeType `json:"type" yaml:"type"`
	// Category indicates which part of the description was changed
	Category ChangeCategory `json:"category" yaml:"category"`
	// SubType carries additional rule context (e.g. "required", "enum")
	SubType string `json:"subType,omitempty" yaml:"subType,omitempty"`
	// Position indicates the request/response context of the change
	Position Position `json:"position" yaml:"position"`
	// Severity is the classified impact level
	Severity Severity `json:"severity" yaml:"severity"`
	// OldValue is the baseline value (nil for additions)
	OldValue any `json:"oldValue,omitempty" yaml:"oldValue,omitempty"`
	// NewValue is the candidate value (nil for removals)
	NewValue any `json:"newValue,omitempty" yaml:"newValue,omitempty"`
	// Message is a human-readable description of the change
	Message string `json:"message" yaml:"message"`
}

// String returns a formatted single-line representation of the change.
func (c Change) String() string {
	var symbol string
	switch c.Severity {
	case SeverityBreaking:
		symbol = "✗"
	case SeverityNonBreaking:
		symbol = "⚠"
	default:
		symbol = "ℹ"
	}
	where := c.Operation.String()
	if c.Breadcrumb != "" {
		where += " > " + c.Breadcrumb
	}
	return fmt.Sprintf("%s [%s] %s: %s", symbol, c.Severity, where, c.Message)
}

// Differ compares two API descriptions.
type Differ struct {
	// Rules configures which changes are considered breaking and their
	// severity levels. When nil, default rules are used.
	Rules *RulesConfig
	// Logger receives debug output during comparison. When nil, no
	// logging is performed.
	Logger apispec.Logger
	// Workers bounds the number of operation pairs compared concurrently.
	// Values below 2 mean fully sequential comparison. Output ordering is
	// identical either way.
	Workers int
}

// New creates a new Differ instance with default settings
func New() *Differ {
	return &Differ{}
}

func (d *Differ) log() apispec.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return apispec.NopLogger{}
}

// Compare compares baseline against candidate with default settings.
func Compare(baseline, candidate *apispec.Document) (*Report, error) {
	return New().Compare(baseline, candidate)
}

// Compare compares baseline against candidate and produces the classified
// report. It is a pure function of its two inputs; the documents are not
// mutated. The only errors are input-validation failures (unresolved
// references, pathological reference chains) in documents that were built
// by hand rather than through a provider.
func (d *Differ) Compare(baseline, candidate *apispec.Document) (*Report, error) {
	cmp := &comparison{
		differ:       d,
		baseline:     apispec.NewResolver(baseline, "baseline"),
		candidate:    apispec.NewResolver(candidate, "candidate"),
		baselineDoc:  baseline,
		candidateDoc: candidate,
	}

	matched, removed, added := alignKeys(operationKeys(baseline), operationKeys(candidate))
	d.log().Debug("aligned operations",
		"matched", len(matched), "removed", len(removed), "added", len(added))

	var changes []Change
	for _, key := range removed {
		changes = append(changes, cmp.operationRemoved(baseline.Operation(key))...)
	}
	for _, key := range added {
		changes = append(changes, cmp.operationAdded(candidate.Operation(key))...)
	}

	pairChanges, err := cmp.compareMatched(matched)
	if err != nil {
		return nil, err
	}
	changes = append(changes, pairChanges...)

	report := buildReport(baseline, candidate, changes)
	d.log().Info("comparison complete",
		"changes", len(report.Changes),
		"breaking", report.BreakingCount,
		"verdict", report.Verdict)
	return report, nil
}

// comparison carries the per-run state shared by all operation pairs. The
// resolvers are read-only, so matched pairs can be compared concurrently.
type comparison struct {
	differ       *Differ
	baseline     *apispec.Resolver
	candidate    *apispec.Resolver
	baselineDoc  *apispec.Document
	candidateDoc *apispec.Document
}

// compareMatched compares every matched operation pair. Independent pairs
// share no mutable state, so with Workers > 1 they run concurrently;
// results are collected per pair and flattened in key order, never in
// completion order.
func (c *comparison) compareMatched(matched []apispec.OperationKey) ([]Change, error) {
	results := make([][]Change, len(matched))

	workers := c.differ.Workers
	if workers > 1 && len(matched) > 1 {
		var g errgroup.Group
		g.SetLimit(workers)
		for i, key := range matched {
			g.Go(func() error {
				changes, err := c.compareOperation(
					c.baselineDoc.Operation(key), c.candidateDoc.Operation(key))
				if err != nil {
					return err
				}
				results[i] = changes
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else {
		for i, key := range matched {
			changes, err := c.compareOperation(
				c.baselineDoc.Operation(key), c.candidateDoc.Operation(key))
			if err != nil {
				return nil, err
			}
			results[i] = changes
		}
	}

	var flat []Change
	for _, r := range results {
		flat = append(flat, r...)
	}
	return flat, nil
}

func operationKeys(doc *apispec.Document) []apispec.OperationKey {
	keys := make([]apispec.OperationKey, 0, len(doc.Operations))
	for _, op := range doc.Operations {
		keys = append(keys, op.Key)
	}
	return keys
}

