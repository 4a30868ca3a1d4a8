package apispec

import "strings"

// Location identifies where a parameter is carried in a request.
type Location string

// Parameter locations.
const (
	LocationPath   Location = "path"
	LocationQuery  Location = "query"
	LocationHeader Location = "header"
	LocationCookie Location = "cookie"
)

// ValidLocation reports whether loc is one of the four parameter locations.
func ValidLocation(loc Location) bool {
	switch loc {
	case LocationPath, LocationQuery, LocationHeader, LocationCookie:
		return true
	}
	return false
}

// OperationKey is the stable identity of an operation across versions:
// the pair (path template, HTTP method). Path templates are compared
// literally: a path segment rename is a removal plus an addition, never
// a match.
type OperationKey struct {
	// Path is the path template, e.g. "/items/{id}"
	Path string `json:"path" yaml:"path"`
	// Method is the lowercase HTTP method, e.g. "get"
	Method string `json:"method" yaml:"method"`
}

// String returns the conventional "METHOD /path" rendering.
func (k OperationKey) String() string {
	return strings.ToUpper(k.Method) + " " + k.Path
}

// ParameterKey is the stable identity of a parameter: (name, location).
// A parameter moving between locations is a removal plus an addition.
type ParameterKey struct {
	Name     string
	Location Location
}

// String returns the conventional "name (in location)" rendering.
func (k ParameterKey) String() string {
	return k.Name + " (in " + string(k.Location) + ")"
}

// Document is the root of an API description: an ordered set of operations
// plus the document-scoped type registry. Immutable once constructed by a
// provider.
type Document struct {
	// Source is the file path or URL the document was loaded from
	// (empty for documents constructed in memory).
	Source string
	// Title and Version carry the description's info block, reported for
	// context only; they never participate in comparison.
	Title   string
	Version string
	// Operations holds every operation, in document order.
	Operations []*Operation
	// Types is the registry mapping type name to schema. Cross-references
	// within schemas are by-name lookups into this map and may be cyclic.
	Types map[string]*SchemaNode
	// MaxDepth bounds reference chain length during traversal.
	// Zero means DefaultMaxDepth.
	MaxDepth int
}

// Operation returns the operation with the given key, or nil.
func (d *Document) Operation(key OperationKey) *Operation {
	for _, op := range d.Operations {
		if op.Key == key {
			return op
		}
	}
	return nil
}

// Operation describes a single (path template, HTTP method) endpoint.
type Operation struct {
	Key OperationKey
	// Parameters holds the operation's parameters in document order.
	Parameters []*Parameter
	// RequestBody is nil when the operation takes no body.
	RequestBody *RequestBody
	// Responses maps status code keys ("200", "4XX", "default") to responses.
	Responses map[string]*Response
	// Deprecated marks the operation as scheduled for removal.
	Deprecated bool
}

// Parameter describes one request parameter.
type Parameter struct {
	Name       string
	In         Location
	Required   bool
	Deprecated bool
	// Schema describes the parameter value; nil is treated as Unknown.
	Schema *SchemaNode
}

// Key returns the parameter's identity key.
func (p *Parameter) Key() ParameterKey {
	return ParameterKey{Name: p.Name, Location: p.In}
}

// RequestBody describes an operation's request payload: a mapping from
// media type to schema, plus a required flag.
type RequestBody struct {
	Required bool
	Content  map[string]*SchemaNode
}

// Response describes one response of an operation: a mapping from media
// type to schema, plus a required flag.
type Response struct {
	Required bool
	Content  map[string]*SchemaNode
}
