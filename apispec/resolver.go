package apispec

import (
	"strconv"

	"github.com/specgate/specgate/specerrors"
)

// DefaultMaxDepth is the maximum length of a reference chain the resolver
// will follow. Chains beyond this bound indicate pathological input.
const DefaultMaxDepth = 100

// Trail is the visited set carried through one recursive traversal. It
// tracks the type names currently entered on one side of a comparison so
// that cyclic type graphs terminate.
type Trail struct {
	active map[string]bool
}

// NewTrail returns an empty traversal trail.
func NewTrail() *Trail {
	return &Trail{active: make(map[string]bool)}
}

// Active reports whether name is currently entered on this trail.
func (t *Trail) Active(name string) bool {
	return t.active[name]
}

// Enter marks name as active. Callers pair every Enter with a Leave once
// the subtree below the named type has been traversed.
func (t *Trail) Enter(name string) {
	t.active[name] = true
}

// Leave clears name from the active set.
func (t *Trail) Leave(name string) {
	delete(t.active, name)
}

// Resolved is the outcome of resolving a node to its concrete shape.
type Resolved struct {
	// Node is the concrete (non-reference) node, or the reference node
	// itself when Cyclic is set.
	Node *SchemaNode
	// Names lists the type names followed to reach Node, outermost first.
	Names []string
	// Cyclic is set when resolution re-entered a name already active on
	// the trail. The last entry of Names identifies the cycle target.
	Cyclic bool
}

// Name returns the innermost type name followed, or "" for inline schemas.
func (r Resolved) Name() string {
	if len(r.Names) == 0 {
		return ""
	}
	return r.Names[len(r.Names)-1]
}

// Resolver resolves by-name references against one document's registry.
type Resolver struct {
	// MaxDepth bounds reference chain length. Zero means DefaultMaxDepth.
	MaxDepth int

	doc   *Document
	label string
}

// NewResolver creates a resolver for doc. The label ("baseline" or
// "candidate") appears in error messages to locate defects.
func NewResolver(doc *Document, label string) *Resolver {
	return &Resolver{MaxDepth: doc.MaxDepth, doc: doc, label: label}
}

func (r *Resolver) maxDepth() int {
	if r.MaxDepth > 0 {
		return r.MaxDepth
	}
	return DefaultMaxDepth
}

// Resolve follows reference chains starting at node until a concrete node
// is reached. When a chain re-enters a name already active on the trail
// (or already followed within this chain), Resolve returns a cyclic marker
// instead of recursing further. A name absent from the registry is a fatal
// input error, not a diff result.
func (r *Resolver) Resolve(node *SchemaNode, trail *Trail, path string) (Resolved, error) {
	node = orUnknown(node)

	var names []string
	chain := make(map[string]bool)
	for node.Kind == KindReference {
		name := node.Ref
		if len(names) >= r.maxDepth() {
			return Resolved{}, &specerrors.DepthError{Document: r.label, Name: name, Limit: r.maxDepth()}
		}
		if trail.Active(name) || chain[name] {
			names = append(names, name)
			return Resolved{Node: node, Names: names, Cyclic: true}, nil
		}
		target, ok := r.doc.Types[name]
		if !ok {
			return Resolved{}, &specerrors.ReferenceError{Document: r.label, Name: name, Path: path}
		}
		chain[name] = true
		names = append(names, name)
		node = orUnknown(target)
	}

	return Resolved{Node: node, Names: names}, nil
}

// ValidateReferences checks that every reference reachable from the
// document resolves within its registry. Providers call this once at load
// time so that comparison never encounters an unresolved name.
func ValidateReferences(doc *Document, label string) error {
	v := &refValidator{doc: doc, label: label, seen: make(map[string]bool)}

	for name, node := range doc.Types {
		if err := v.walk(node, "type "+name); err != nil {
			return err
		}
	}
	for _, op := range doc.Operations {
		base := "operation " + op.Key.String()
		for _, p := range op.Parameters {
			if err := v.walk(p.Schema, base+" > parameter "+p.Key().String()); err != nil {
				return err
			}
		}
		if op.RequestBody != nil {
			for mt, schema := range op.RequestBody.Content {
				if err := v.walk(schema, base+" > requestBody > "+mt); err != nil {
					return err
				}
			}
		}
		for code, resp := range op.Responses {
			for mt, schema := range resp.Content {
				if err := v.walk(schema, base+" > response "+code+" > "+mt); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

type refValidator struct {
	doc   *Document
	label string
	seen  map[string]bool
}

func (v *refValidator) walk(node *SchemaNode, path string) error {
	if node == nil {
		return nil
	}
	switch node.Kind {
	case KindReference:
		target, ok := v.doc.Types[node.Ref]
		if !ok {
			return &specerrors.ReferenceError{Document: v.label, Name: node.Ref, Path: path}
		}
		if v.seen[node.Ref] {
			return nil
		}
		v.seen[node.Ref] = true
		return v.walk(target, path+" > "+node.Ref)
	case KindObject:
		for name, prop := range node.Properties {
			if err := v.walk(prop.Schema, path+" > properties."+name); err != nil {
				return err
			}
		}
		return v.walk(node.AdditionalSchema, path+" > additionalProperties")
	case KindArray:
		return v.walk(node.Items, path+" > items")
	case KindComposition:
		for i, m := range node.Members {
			if err := v.walk(m, path+" > "+string(node.Compose)+"["+strconv.Itoa(i)+"]"); err != nil {
				return err
			}
		}
	}
	return nil
}
