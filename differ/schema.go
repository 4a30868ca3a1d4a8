package differ

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/specgate/specgate/apispec"
)

// diffSchema recursively compares one baseline/candidate schema pair
// reachable from the given position. Every top-level entry point gets
// fresh trails, so traversals from different attachment points never see
// each other's visited state.
func (c *comparison) diffSchema(base, cand *apispec.SchemaNode, op apispec.OperationKey,
	pos Position, crumb string) ([]Change, error) {

	w := &schemaWalker{
		cmp:       c,
		op:        op,
		baseTrail: apispec.NewTrail(),
		candTrail: apispec.NewTrail(),
	}
	if err := w.compare(base, cand, pos, crumb); err != nil {
		return nil, err
	}
	return w.changes, nil
}

// schemaWalker carries the per-entry-point traversal state: one trail per
// document side, keyed by type name, guaranteeing termination over cyclic
// type graphs.
type schemaWalker struct {
	cmp       *comparison
	op        apispec.OperationKey
	baseTrail *apispec.Trail
	candTrail *apispec.Trail
	changes   []Change
}

func (w *schemaWalker) emit(ch Change, def Severity) {
	ch.Operation = w.op
	ch.Category = CategorySchema
	w.changes = w.cmp.emit(w.changes, ch, def)
}

// positional picks the default severity for the current position.
func positional(pos Position, req, resp Severity) Severity {
	if pos == PositionResponse {
		return resp
	}
	return req
}

func (w *schemaWalker) compare(baseNode, candNode *apispec.SchemaNode, pos Position, crumb string) error {
	bres, err := w.cmp.baseline.Resolve(baseNode, w.baseTrail, crumb)
	if err != nil {
		return err
	}
	cres, err := w.cmp.candidate.Resolve(candNode, w.candTrail, crumb)
	if err != nil {
		return err
	}

	// Cyclic boundary: both sides re-entering the same type name means the
	// subtrees were already compared further up; any disagreement produces
	// exactly one change here and recursion stops.
	if bres.Cyclic || cres.Cyclic {
		if bres.Cyclic && cres.Cyclic && bres.Name() == cres.Name() {
			return nil
		}
		w.emit(Change{
			Breadcrumb: crumb,
			Type:       ChangeTypeModified,
			SubType:    subTypeCycle,
			Position:   pos,
			OldValue:   describeResolved(bres),
			NewValue:   describeResolved(cres),
			Message:    fmt.Sprintf("cyclic reference target changed from %s to %s", describeResolved(bres), describeResolved(cres)),
		}, SeverityBreaking)
		return nil
	}

	for _, name := range bres.Names {
		w.baseTrail.Enter(name)
	}
	for _, name := range cres.Names {
		w.candTrail.Enter(name)
	}
	defer func() {
		for i := len(bres.Names) - 1; i >= 0; i-- {
			w.baseTrail.Leave(bres.Names[i])
		}
		for i := len(cres.Names) - 1; i >= 0; i-- {
			w.candTrail.Leave(cres.Names[i])
		}
	}()

	base, cand := bres.Node, cres.Node
	if base.Kind != cand.Kind {
		if base.Kind == apispec.KindUnknown || cand.Kind == apispec.KindUnknown {
			w.emit(Change{
				Breadcrumb: crumb,
				Type:       ChangeTypeModified,
				SubType:    subTypeUnknown,
				Position:   pos,
				OldValue:   base.Kind.String(),
				NewValue:   cand.Kind.String(),
				Message:    fmt.Sprintf("schema shape changed from %s to %s", base.Kind, cand.Kind),
			}, SeverityInformational)
			return nil
		}
		w.emit(Change{
			Breadcrumb: crumb,
			Type:       ChangeTypeModified,
			SubType:    subTypeKind,
			Position:   pos,
			OldValue:   base.Kind.String(),
			NewValue:   cand.Kind.String(),
			Message:    fmt.Sprintf("type kind changed from %s to %s", base.Kind, cand.Kind),
		}, SeverityBreaking)
		return nil
	}

	switch base.Kind {
	case apispec.KindPrimitive:
		w.comparePrimitive(base, cand, pos, crumb)
		return nil
	case apispec.KindObject:
		return w.compareObject(base, cand, pos, crumb)
	case apispec.KindArray:
		return w.compare(base.Items, cand.Items, pos, crumb+" > items")
	case apispec.KindComposition:
		return w.compareComposition(base, cand, pos, crumb)
	}
	// Unknown vs Unknown: could be anything on both sides, nothing to report.
	return nil
}

func (w *schemaWalker) comparePrimitive(base, cand *apispec.SchemaNode, pos Position, crumb string) {
	if base.Type != cand.Type {
		w.emit(Change{
			Breadcrumb: crumb,
			Type:       ChangeTypeModified,
			SubType:    subTypeType,
			Position:   pos,
			OldValue:   base.Type,
			NewValue:   cand.Type,
			Message:    fmt.Sprintf("type changed from %s to %s", base.Type, cand.Type),
		}, SeverityBreaking)
		return
	}

	if base.Format != cand.Format {
		// Gaining a format where none existed narrows what a server emits,
		// which lenient consumers already tolerate. Every other format
		// change is treated as breaking.
		def := SeverityBreaking
		if pos == PositionResponse && base.Format == "" {
			def = SeverityNonBreaking
		}
		w.emit(Change{
			Breadcrumb: crumb,
			Type:       ChangeTypeModified,
			SubType:    subTypeFormat,
			Position:   pos,
			OldValue:   base.Format,
			NewValue:   cand.Format,
			Message:    fmt.Sprintf("format changed from %q to %q", base.Format, cand.Format),
		}, def)
	}

	if base.Nullable != cand.Nullable {
		// Widening (now nullable): servers may start emitting null, so
		// breaking in response position; clients are never forced to send
		// null, so harmless in request position. Narrowing is the reverse.
		var def Severity
		var msg string
		if cand.Nullable {
			def = positional(pos, SeverityNonBreaking, SeverityBreaking)
			msg = "value became nullable"
		} else {
			def = positional(pos, SeverityBreaking, SeverityNonBreaking)
			msg = "value no longer nullable"
		}
		w.emit(Change{
			Breadcrumb: crumb,
			Type:       ChangeTypeModified,
			SubType:    subTypeNullable,
			Position:   pos,
			OldValue:   base.Nullable,
			NewValue:   cand.Nullable,
			Message:    msg,
		}, def)
	}

	w.compareEnums(base.Enum, cand.Enum, pos, crumb)
}

func (w *schemaWalker) compareEnums(base, cand []string, pos Position, crumb string) {
	switch {
	case base == nil && cand == nil:
		return
	case base == nil:
		// A previously unconstrained value is now limited to a fixed set:
		// clients may already send values outside it.
		w.emit(Change{
			Breadcrumb: crumb,
			Type:       ChangeTypeModified,
			SubType:    subTypeEnumConstraint,
			Position:   pos,
			NewValue:   cand,
			Message:    "enum constraint added",
		}, positional(pos, SeverityBreaking, SeverityNonBreaking))
		return
	case cand == nil:
		// The set is gone: servers may now emit values consumers never saw.
		w.emit(Change{
			Breadcrumb: crumb,
			Type:       ChangeTypeModified,
			SubType:    subTypeEnumConstraint,
			Position:   pos,
			OldValue:   base,
			Message:    "enum constraint removed",
		}, positional(pos, SeverityNonBreaking, SeverityBreaking))
		return
	}

	_, removed, added := alignStrings(base, cand)
	for _, v := range removed {
		w.emit(Change{
			Breadcrumb: crumb,
			Type:       ChangeTypeRemoved,
			SubType:    subTypeEnum,
			Position:   pos,
			OldValue:   v,
			Message:    fmt.Sprintf("enum value %q removed", v),
		}, positional(pos, SeverityBreaking, SeverityNonBreaking))
	}
	for _, v := range added {
		// Added response values break consumers with exhaustive matching;
		// clients simply never send a value they do not know about.
		w.emit(Change{
			Breadcrumb: crumb,
			Type:       ChangeTypeAdded,
			SubType:    subTypeEnum,
			Position:   pos,
			NewValue:   v,
			Message:    fmt.Sprintf("enum value %q added", v),
		}, positional(pos, SeverityNonBreaking, SeverityBreaking))
	}
}

// additionalRank orders additional-properties policies from least to most
// permissive.
func additionalRank(p apispec.AdditionalPolicy) int {
	switch p {
	case apispec.AdditionalForbidden:
		return 0
	case apispec.AdditionalTyped:
		return 1
	default:
		return 2
	}
}

func (w *schemaWalker) compareObject(base, cand *apispec.SchemaNode, pos Position, crumb string) error {
	if base.Additional != cand.Additional {
		def, verb := SeverityNonBreaking, "widened"
		if additionalRank(cand.Additional) < additionalRank(base.Additional) {
			def, verb = SeverityBreaking, "narrowed"
		}
		w.emit(Change{
			Breadcrumb: crumb,
			Type:       ChangeTypeModified,
			SubType:    subTypeAdditional,
			Position:   pos,
			OldValue:   base.Additional.String(),
			NewValue:   cand.Additional.String(),
			Message:    fmt.Sprintf("additionalProperties %s from %s to %s", verb, base.Additional, cand.Additional),
		}, def)
	}
	if base.Additional == apispec.AdditionalTyped && cand.Additional == apispec.AdditionalTyped {
		if err := w.compare(base.AdditionalSchema, cand.AdditionalSchema, pos, crumb+" > additionalProperties"); err != nil {
			return err
		}
	}

	matched, removed, added := alignStrings(propertyNames(base), propertyNames(cand))

	for _, name := range removed {
		prop := base.Properties[name]
		// Consumers read response properties, so any removal can break
		// them; a request property only binds clients when required.
		def := SeverityBreaking
		if pos == PositionRequest && !prop.Required {
			def = SeverityNonBreaking
		}
		w.emit(Change{
			Breadcrumb: crumb + " > properties." + name,
			Type:       ChangeTypeRemoved,
			SubType:    subTypeProperty,
			Position:   pos,
			OldValue:   name,
			Message:    fmt.Sprintf("property %q removed", name),
		}, def)
	}
	for _, name := range added {
		prop := cand.Properties[name]
		def, msg := SeverityNonBreaking, fmt.Sprintf("optional property %q added", name)
		if prop.Required {
			def, msg = SeverityBreaking, fmt.Sprintf("required property %q added", name)
		}
		w.emit(Change{
			Breadcrumb: crumb + " > properties." + name,
			Type:       ChangeTypeAdded,
			SubType:    subTypeProperty,
			Position:   pos,
			NewValue:   name,
			Message:    msg,
		}, def)
	}

	for _, name := range matched {
		bp, cp := base.Properties[name], cand.Properties[name]
		propCrumb := crumb + " > properties." + name

		if bp.Required != cp.Required {
			var def Severity
			var msg string
			if cp.Required {
				def = positional(pos, SeverityBreaking, SeverityNonBreaking)
				msg = fmt.Sprintf("property %q became required", name)
			} else {
				def = positional(pos, SeverityNonBreaking, SeverityBreaking)
				msg = fmt.Sprintf("property %q no longer required", name)
			}
			w.emit(Change{
				Breadcrumb: propCrumb,
				Type:       ChangeTypeModified,
				SubType:    subTypeRequired,
				Position:   pos,
				OldValue:   bp.Required,
				NewValue:   cp.Required,
				Message:    msg,
			}, def)
		}

		if err := w.compare(bp.Schema, cp.Schema, pos, propCrumb); err != nil {
			return err
		}
	}
	return nil
}

func propertyNames(n *apispec.SchemaNode) []string {
	names := make([]string, 0, len(n.Properties))
	for name := range n.Properties {
		names = append(names, name)
	}
	return names
}

func (w *schemaWalker) compareComposition(base, cand *apispec.SchemaNode, pos Position, crumb string) error {
	if base.Compose != cand.Compose {
		w.emit(Change{
			Breadcrumb: crumb,
			Type:       ChangeTypeModified,
			SubType:    subTypeCompositionKind,
			Position:   pos,
			OldValue:   string(base.Compose),
			NewValue:   string(cand.Compose),
			Message:    fmt.Sprintf("composition kind changed from %s to %s", base.Compose, cand.Compose),
		}, SeverityBreaking)
		return nil
	}

	if base.Compose == apispec.ComposeAllOf {
		// Each allOf member contributes required structure, so members are
		// compared positionally rather than as a set.
		n := min(len(base.Members), len(cand.Members))
		for i := 0; i < n; i++ {
			memberCrumb := crumb + " > allOf[" + strconv.Itoa(i) + "]"
			if err := w.compare(base.Members[i], cand.Members[i], pos, memberCrumb); err != nil {
				return err
			}
		}
		for i := n; i < len(base.Members); i++ {
			w.emitMember(ChangeTypeRemoved, base.Members[i], pos, crumb, base.Compose)
		}
		for i := n; i < len(cand.Members); i++ {
			w.emitMember(ChangeTypeAdded, cand.Members[i], pos, crumb, base.Compose)
		}
		return nil
	}

	// oneOf/anyOf member order carries no meaning: members are matched as
	// a multiset of structural fingerprints. A reshaped member surfaces as
	// a removal plus an addition, consistent with exact-key alignment
	// everywhere else.
	baseByPrint := membersByFingerprint(base.Members)
	candByPrint := membersByFingerprint(cand.Members)

	prints := make(map[string]bool)
	for p := range baseByPrint {
		prints[p] = true
	}
	for p := range candByPrint {
		prints[p] = true
	}
	ordered := make([]string, 0, len(prints))
	for p := range prints {
		ordered = append(ordered, p)
	}
	sort.Strings(ordered)

	for _, p := range ordered {
		bn, cn := len(baseByPrint[p]), len(candByPrint[p])
		for i := cn; i < bn; i++ {
			w.emitMember(ChangeTypeRemoved, baseByPrint[p][0], pos, crumb, base.Compose)
		}
		for i := bn; i < cn; i++ {
			w.emitMember(ChangeTypeAdded, candByPrint[p][0], pos, crumb, base.Compose)
		}
	}
	return nil
}

func (w *schemaWalker) emitMember(typ ChangeType, member *apispec.SchemaNode, pos Position,
	crumb string, compose apispec.CompositionKind) {

	label := describeNode(member)
	ch := Change{
		Breadcrumb: crumb + " > " + string(compose),
		Type:       typ,
		SubType:    subTypeMember,
		Position:   pos,
		Message:    fmt.Sprintf("%s member %s %s", compose, label, typ),
	}
	if typ == ChangeTypeRemoved {
		ch.OldValue = label
	} else {
		ch.NewValue = label
	}
	// Servers must accept any advertised request shape while naive clients
	// generate only the ones they know; lenient response consumers already
	// tolerate unexpected alternatives.
	w.emit(ch, positional(pos, SeverityBreaking, SeverityNonBreaking))
}

func membersByFingerprint(members []*apispec.SchemaNode) map[string][]*apispec.SchemaNode {
	m := make(map[string][]*apispec.SchemaNode, len(members))
	for _, member := range members {
		p := fingerprint(member)
		m[p] = append(m[p], member)
	}
	return m
}

// fingerprint builds a canonical encoding of an unresolved schema subtree.
// References are encoded by name rather than followed, so the encoding is
// finite even over cyclic registries.
func fingerprint(n *apispec.SchemaNode) string {
	if n == nil {
		return "?"
	}
	switch n.Kind {
	case apispec.KindPrimitive:
		return fmt.Sprintf("p(%s:%s:%t:%s)", n.Type, n.Format, n.Nullable, strings.Join(n.Enum, ","))
	case apispec.KindObject:
		names := propertyNames(n)
		sort.Strings(names)
		parts := make([]string, 0, len(names))
		for _, name := range names {
			prop := n.Properties[name]
			parts = append(parts, fmt.Sprintf("%s:%t:%s", name, prop.Required, fingerprint(prop.Schema)))
		}
		return fmt.Sprintf("o(%s;%s:%s)", strings.Join(parts, ","), n.Additional, fingerprint(n.AdditionalSchema))
	case apispec.KindArray:
		return "a(" + fingerprint(n.Items) + ")"
	case apispec.KindComposition:
		parts := make([]string, 0, len(n.Members))
		for _, m := range n.Members {
			parts = append(parts, fingerprint(m))
		}
		if n.Compose != apispec.ComposeAllOf {
			sort.Strings(parts)
		}
		return fmt.Sprintf("c(%s:%s)", n.Compose, strings.Join(parts, ","))
	case apispec.KindReference:
		return "r(" + n.Ref + ")"
	default:
		return "?"
	}
}

// describeNode renders a short human-readable label for a schema node.
func describeNode(n *apispec.SchemaNode) string {
	if n == nil {
		return "unknown"
	}
	switch n.Kind {
	case apispec.KindPrimitive:
		if n.Format != "" {
			return n.Type + " (" + n.Format + ")"
		}
		return n.Type
	case apispec.KindReference:
		return n.Ref
	case apispec.KindComposition:
		return string(n.Compose)
	default:
		return n.Kind.String()
	}
}

func describeResolved(r apispec.Resolved) string {
	if name := r.Name(); name != "" {
		return name
	}
	return describeNode(r.Node)
}
