package apispec

// SchemaKind discriminates the mutually exclusive shapes a SchemaNode can
// take. A node carries only the fields relevant to its kind; the rest stay
// at their zero values.
type SchemaKind int

const (
	// KindUnknown marks a node whose shape could not be determined.
	// Comparisons treat it conservatively as "could be anything".
	KindUnknown SchemaKind = iota
	// KindPrimitive is a scalar value: string, number, integer, or boolean.
	KindPrimitive
	// KindObject is a property map with an additional-properties policy.
	KindObject
	// KindArray is a homogeneous list.
	KindArray
	// KindComposition is an allOf/oneOf/anyOf combination of member schemas.
	KindComposition
	// KindReference is a by-name pointer into the owning document's registry.
	KindReference
)

// String returns the lowercase kind name.
func (k SchemaKind) String() string {
	switch k {
	case KindPrimitive:
		return "primitive"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	case KindComposition:
		return "composition"
	case KindReference:
		return "reference"
	default:
		return "unknown"
	}
}

// CompositionKind identifies how a Composition combines its members.
type CompositionKind string

// Composition kinds.
const (
	ComposeAllOf CompositionKind = "allOf"
	ComposeOneOf CompositionKind = "oneOf"
	ComposeAnyOf CompositionKind = "anyOf"
)

// AdditionalPolicy describes an object's tolerance for undeclared
// properties.
type AdditionalPolicy int

const (
	// AdditionalAllowed permits undeclared properties of any shape
	// (the default for object schemas).
	AdditionalAllowed AdditionalPolicy = iota
	// AdditionalForbidden rejects undeclared properties.
	AdditionalForbidden
	// AdditionalTyped permits undeclared properties matching a schema.
	AdditionalTyped
)

// String returns the policy name used in reports.
func (p AdditionalPolicy) String() string {
	switch p {
	case AdditionalForbidden:
		return "forbidden"
	case AdditionalTyped:
		return "allowed-typed"
	default:
		return "allowed"
	}
}

// Property is one named member of an object schema.
type Property struct {
	Schema   *SchemaNode
	Required bool
}

// SchemaNode is the recursive type-schema tree. Identity for comparison is
// structural: two nodes are compared by resolved shape, never by reference
// name alone.
type SchemaNode struct {
	Kind SchemaKind

	// Primitive fields.
	Type     string // string, number, integer, boolean
	Format   string
	Enum     []string // canonicalized value strings, sorted
	Nullable bool

	// Object fields.
	Properties       map[string]*Property
	Additional       AdditionalPolicy
	AdditionalSchema *SchemaNode // set when Additional is AdditionalTyped

	// Array fields.
	Items *SchemaNode

	// Composition fields.
	Compose CompositionKind
	Members []*SchemaNode

	// Reference fields.
	Ref string // type name to resolve against the owning document's registry
}

// UnknownSchema is the shared node used wherever a shape cannot be
// determined. Callers must not mutate it.
var UnknownSchema = &SchemaNode{Kind: KindUnknown}

// orUnknown maps a nil schema to the Unknown node so traversal code never
// branches on nil.
func orUnknown(n *SchemaNode) *SchemaNode {
	if n == nil {
		return UnknownSchema
	}
	return n
}
