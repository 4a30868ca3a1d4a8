package differ

import (
	"fmt"
	"sort"

	"github.com/specgate/specgate/apispec"
	"github.com/specgate/specgate/internal/maputil"
)

// emit classifies one change through the rule table and appends it unless
// the matching rule says to ignore it.
func (c *comparison) emit(changes []Change, ch Change, def Severity) []Change {
	key := RuleKey{Category: ch.Category, ChangeType: ch.Type, SubType: ch.SubType}
	sev, ignore := c.differ.Rules.getRule(key).Apply(def)
	if ignore {
		return changes
	}
	ch.Severity = sev
	return append(changes, ch)
}

// operationRemoved reports a removed operation as one aggregate breaking
// change, plus the informational required-field notes for its request body.
func (c *comparison) operationRemoved(op *apispec.Operation) []Change {
	changes := c.emit(nil, Change{
		Operation: op.Key,
		Type:      ChangeTypeRemoved,
		Category:  CategoryOperation,
		OldValue:  op.Key.String(),
		Message:   "operation removed",
	}, SeverityBreaking)
	return append(changes, c.requiredFieldNotes(op, ChangeTypeRemoved, c.baseline)...)
}

// operationAdded reports an added operation as one aggregate non-breaking
// change, plus the informational required-field notes for its request body.
func (c *comparison) operationAdded(op *apispec.Operation) []Change {
	changes := c.emit(nil, Change{
		Operation: op.Key,
		Type:      ChangeTypeAdded,
		Category:  CategoryOperation,
		NewValue:  op.Key.String(),
		Message:   "operation added",
	}, SeverityNonBreaking)
	return append(changes, c.requiredFieldNotes(op, ChangeTypeAdded, c.candidate)...)
}

// requiredFieldNotes walks an added or removed operation's request body
// once and surfaces its required properties as informational changes, so
// reviewers see the payload obligations without a matched pair to diff.
// The walk is best-effort and never recurses past the top-level object.
func (c *comparison) requiredFieldNotes(op *apispec.Operation, typ ChangeType, r *apispec.Resolver) []Change {
	if op.RequestBody == nil {
		return nil
	}
	var changes []Change
	for _, mt := range maputil.SortedKeys(op.RequestBody.Content) {
		res, err := r.Resolve(op.RequestBody.Content[mt], apispec.NewTrail(), op.Key.String())
		if err != nil || res.Cyclic || res.Node.Kind != apispec.KindObject {
			continue
		}
		names := make([]string, 0, len(res.Node.Properties))
		for name, prop := range res.Node.Properties {
			if prop.Required {
				names = append(names, name)
			}
		}
		sort.Strings(names)
		for _, name := range names {
			ch := Change{
				Operation:  op.Key,
				Breadcrumb: "requestBody > " + mt + " > properties." + name,
				Type:       typ,
				Category:   CategoryRequestBody,
				SubType:    subTypeRequiredProperty,
				Message:    fmt.Sprintf("request body of %s operation has required property %q", typ, name),
			}
			if typ == ChangeTypeRemoved {
				ch.OldValue = name
			} else {
				ch.NewValue = name
			}
			changes = c.emit(changes, ch, SeverityInformational)
		}
	}
	return changes
}

// compareOperation compares one matched operation pair and returns its
// classified changes.
func (c *comparison) compareOperation(base, cand *apispec.Operation) ([]Change, error) {
	var changes []Change

	if base.Deprecated != cand.Deprecated {
		msg := "operation deprecated"
		if base.Deprecated {
			msg = "operation no longer deprecated"
		}
		changes = c.emit(changes, Change{
			Operation: base.Key,
			Type:      ChangeTypeModified,
			Category:  CategoryOperation,
			SubType:   subTypeDeprecated,
			OldValue:  base.Deprecated,
			NewValue:  cand.Deprecated,
			Message:   msg,
		}, SeverityInformational)
	}

	paramChanges, err := c.compareParameters(base, cand)
	if err != nil {
		return nil, err
	}
	changes = append(changes, paramChanges...)

	bodyChanges, err := c.compareRequestBodies(base, cand)
	if err != nil {
		return nil, err
	}
	changes = append(changes, bodyChanges...)

	respChanges, err := c.compareResponses(base, cand)
	if err != nil {
		return nil, err
	}
	return append(changes, respChanges...), nil
}

func (c *comparison) compareParameters(base, cand *apispec.Operation) ([]Change, error) {
	matched, removed, added := alignParams(base.Parameters, cand.Parameters)

	byKey := func(params []*apispec.Parameter) map[apispec.ParameterKey]*apispec.Parameter {
		m := make(map[apispec.ParameterKey]*apispec.Parameter, len(params))
		for _, p := range params {
			m[p.Key()] = p
		}
		return m
	}
	baseParams := byKey(base.Parameters)
	candParams := byKey(cand.Parameters)

	var changes []Change
	for _, key := range removed {
		p := baseParams[key]
		sub, msg := subTypeOptional, "optional parameter removed"
		if p.Required {
			sub, msg = subTypeRequired, "required parameter removed"
		}
		changes = c.emit(changes, Change{
			Operation:  base.Key,
			Breadcrumb: "parameter " + key.String(),
			Type:       ChangeTypeRemoved,
			Category:   CategoryParameter,
			SubType:    sub,
			OldValue:   key.String(),
			Message:    msg,
		}, SeverityNonBreaking)
	}
	for _, key := range added {
		p := candParams[key]
		sub, msg, def := subTypeOptional, "optional parameter added", SeverityNonBreaking
		if p.Required {
			sub, msg, def = subTypeRequired, "required parameter added", SeverityBreaking
		}
		changes = c.emit(changes, Change{
			Operation:  base.Key,
			Breadcrumb: "parameter " + key.String(),
			Type:       ChangeTypeAdded,
			Category:   CategoryParameter,
			SubType:    sub,
			NewValue:   key.String(),
			Message:    msg,
		}, def)
	}

	for _, key := range matched {
		bp, cp := baseParams[key], candParams[key]
		crumb := "parameter " + key.String()

		if bp.Required != cp.Required {
			def, msg := SeverityNonBreaking, "parameter no longer required"
			if cp.Required {
				def, msg = SeverityBreaking, "parameter became required"
			}
			changes = c.emit(changes, Change{
				Operation:  base.Key,
				Breadcrumb: crumb,
				Type:       ChangeTypeModified,
				Category:   CategoryParameter,
				SubType:    subTypeRequired,
				OldValue:   bp.Required,
				NewValue:   cp.Required,
				Message:    msg,
			}, def)
		}
		if bp.Deprecated != cp.Deprecated {
			msg := "parameter deprecated"
			if bp.Deprecated {
				msg = "parameter no longer deprecated"
			}
			changes = c.emit(changes, Change{
				Operation:  base.Key,
				Breadcrumb: crumb,
				Type:       ChangeTypeModified,
				Category:   CategoryParameter,
				SubType:    subTypeDeprecated,
				OldValue:   bp.Deprecated,
				NewValue:   cp.Deprecated,
				Message:    msg,
			}, SeverityInformational)
		}

		schemaChanges, err := c.diffSchema(bp.Schema, cp.Schema, base.Key, PositionRequest, crumb)
		if err != nil {
			return nil, err
		}
		changes = append(changes, schemaChanges...)
	}
	return changes, nil
}

func (c *comparison) compareRequestBodies(base, cand *apispec.Operation) ([]Change, error) {
	bb, cb := base.RequestBody, cand.RequestBody
	switch {
	case bb == nil && cb == nil:
		return nil, nil
	case bb == nil:
		def, msg := SeverityNonBreaking, "optional request body added"
		if cb.Required {
			def, msg = SeverityBreaking, "required request body added"
		}
		return c.emit(nil, Change{
			Operation:  base.Key,
			Breadcrumb: "requestBody",
			Type:       ChangeTypeAdded,
			Category:   CategoryRequestBody,
			Message:    msg,
		}, def), nil
	case cb == nil:
		return c.emit(nil, Change{
			Operation:  base.Key,
			Breadcrumb: "requestBody",
			Type:       ChangeTypeRemoved,
			Category:   CategoryRequestBody,
			Message:    "request body removed",
		}, SeverityBreaking), nil
	}

	var changes []Change
	if bb.Required != cb.Required {
		def, msg := SeverityNonBreaking, "request body no longer required"
		if cb.Required {
			def, msg = SeverityBreaking, "request body became required"
		}
		changes = c.emit(changes, Change{
			Operation:  base.Key,
			Breadcrumb: "requestBody",
			Type:       ChangeTypeModified,
			Category:   CategoryRequestBody,
			SubType:    subTypeRequired,
			OldValue:   bb.Required,
			NewValue:   cb.Required,
			Message:    msg,
		}, def)
	}

	mediaChanges, err := c.compareContent(base.Key, CategoryRequestBody, PositionRequest,
		"requestBody", bb.Content, cb.Content)
	if err != nil {
		return nil, err
	}
	return append(changes, mediaChanges...), nil
}

func (c *comparison) compareResponses(base, cand *apispec.Operation) ([]Change, error) {
	matched, removed, added := alignStrings(maputil.SortedKeys(base.Responses), maputil.SortedKeys(cand.Responses))

	var changes []Change
	for _, code := range removed {
		changes = c.emit(changes, Change{
			Operation:  base.Key,
			Breadcrumb: "response " + code,
			Type:       ChangeTypeRemoved,
			Category:   CategoryResponse,
			Position:   PositionResponse,
			OldValue:   code,
			Message:    "response status code " + code + " removed",
		}, SeverityBreaking)
	}
	for _, code := range added {
		changes = c.emit(changes, Change{
			Operation:  base.Key,
			Breadcrumb: "response " + code,
			Type:       ChangeTypeAdded,
			Category:   CategoryResponse,
			Position:   PositionResponse,
			NewValue:   code,
			Message:    "response status code " + code + " added",
		}, SeverityNonBreaking)
	}

	for _, code := range matched {
		mediaChanges, err := c.compareContent(base.Key, CategoryResponse, PositionResponse,
			"response "+code, base.Responses[code].Content, cand.Responses[code].Content)
		if err != nil {
			return nil, err
		}
		changes = append(changes, mediaChanges...)
	}
	return changes, nil
}

// compareContent aligns the media types of one request body or response
// pair and recurses into matched schemas.
func (c *comparison) compareContent(op apispec.OperationKey, cat ChangeCategory, pos Position,
	crumb string, base, cand map[string]*apispec.SchemaNode) ([]Change, error) {

	matched, removed, added := alignStrings(maputil.SortedKeys(base), maputil.SortedKeys(cand))

	var changes []Change
	for _, mt := range removed {
		changes = c.emit(changes, Change{
			Operation:  op,
			Breadcrumb: crumb + " > " + mt,
			Type:       ChangeTypeRemoved,
			Category:   cat,
			SubType:    subTypeMediaType,
			Position:   pos,
			OldValue:   mt,
			Message:    "media type " + mt + " removed",
		}, SeverityBreaking)
	}
	for _, mt := range added {
		changes = c.emit(changes, Change{
			Operation:  op,
			Breadcrumb: crumb + " > " + mt,
			Type:       ChangeTypeAdded,
			Category:   cat,
			SubType:    subTypeMediaType,
			Position:   pos,
			NewValue:   mt,
			Message:    "media type " + mt + " added",
		}, SeverityNonBreaking)
	}

	for _, mt := range matched {
		schemaChanges, err := c.diffSchema(base[mt], cand[mt], op, pos, crumb+" > "+mt)
		if err != nil {
			return nil, err
		}
		changes = append(changes, schemaChanges...)
	}
	return changes, nil
}
