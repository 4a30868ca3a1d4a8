package apispec

import (
	"fmt"
	"sort"
	"strings"

	"github.com/specgate/specgate/internal/httputil"
	"github.com/specgate/specgate/internal/maputil"
	"github.com/specgate/specgate/specerrors"
)

const schemaRefPrefix = "#/components/schemas/"

// decodeDocument builds a Document from generic decoded JSON/YAML data.
// Malformed structure is rejected with a LoadError; it is never repaired.
func decodeDocument(data map[string]any, source string) (*Document, error) {
	doc := &Document{
		Source: source,
		Types:  make(map[string]*SchemaNode),
	}

	if info, ok := data["info"].(map[string]any); ok {
		doc.Title = asString(info["title"])
		doc.Version = asString(info["version"])
	}

	rawPaths, ok := data["paths"].(map[string]any)
	if !ok {
		return nil, &specerrors.LoadError{Source: source, Message: "document has no paths object"}
	}

	// Maps lose document order during decoding; sorted path and canonical
	// method order keep Operations deterministic across runs.
	for _, pathName := range maputil.SortedKeys(rawPaths) {
		item, ok := rawPaths[pathName].(map[string]any)
		if !ok {
			return nil, &specerrors.LoadError{Source: source, Message: fmt.Sprintf("path %q is not an object", pathName)}
		}

		shared, err := decodeParameters(item["parameters"], source, pathName)
		if err != nil {
			return nil, err
		}

		for _, method := range httputil.CanonicalMethods {
			rawOp, present := item[method]
			if !present {
				continue
			}
			opData, ok := rawOp.(map[string]any)
			if !ok {
				return nil, &specerrors.LoadError{Source: source, Message: fmt.Sprintf("operation %s %s is not an object", strings.ToUpper(method), pathName)}
			}
			op, err := decodeOperation(opData, OperationKey{Path: pathName, Method: method}, shared, source)
			if err != nil {
				return nil, err
			}
			doc.Operations = append(doc.Operations, op)
		}
	}

	if components, ok := data["components"].(map[string]any); ok {
		if schemas, ok := components["schemas"].(map[string]any); ok {
			for name, raw := range schemas {
				doc.Types[name] = decodeSchema(raw)
			}
		}
	}

	return doc, nil
}

// decodeOperation builds one Operation. Path-level parameters are shared
// across every operation on the path and prepended unless shadowed by an
// operation-level parameter with the same identity key.
func decodeOperation(data map[string]any, key OperationKey, shared []*Parameter, source string) (*Operation, error) {
	op := &Operation{
		Key:        key,
		Responses:  make(map[string]*Response),
		Deprecated: asBool(data["deprecated"]),
	}

	own, err := decodeParameters(data["parameters"], source, key.String())
	if err != nil {
		return nil, err
	}
	ownKeys := make(map[ParameterKey]bool, len(own))
	for _, p := range own {
		ownKeys[p.Key()] = true
	}
	for _, p := range shared {
		if !ownKeys[p.Key()] {
			op.Parameters = append(op.Parameters, p)
		}
	}
	op.Parameters = append(op.Parameters, own...)

	if rawBody, ok := data["requestBody"].(map[string]any); ok {
		op.RequestBody = &RequestBody{
			Required: asBool(rawBody["required"]),
			Content:  decodeContent(rawBody["content"]),
		}
	}

	if rawResponses, ok := data["responses"].(map[string]any); ok {
		for code, rawResp := range rawResponses {
			if !httputil.ValidStatusCode(code) {
				return nil, &specerrors.LoadError{Source: source, Message: fmt.Sprintf("operation %s has invalid response code %q", key, code)}
			}
			respData, _ := rawResp.(map[string]any)
			op.Responses[code] = &Response{
				Required: asBool(respData["required"]),
				Content:  decodeContent(respData["content"]),
			}
		}
	}

	return op, nil
}

func decodeParameters(raw any, source, where string) ([]*Parameter, error) {
	if raw == nil {
		return nil, nil
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, &specerrors.LoadError{Source: source, Message: fmt.Sprintf("parameters of %s are not a list", where)}
	}

	params := make([]*Parameter, 0, len(list))
	for _, item := range list {
		data, ok := item.(map[string]any)
		if !ok {
			return nil, &specerrors.LoadError{Source: source, Message: fmt.Sprintf("parameter of %s is not an object", where)}
		}
		name := asString(data["name"])
		if name == "" {
			return nil, &specerrors.LoadError{Source: source, Message: fmt.Sprintf("parameter of %s has no name", where)}
		}
		loc := Location(asString(data["in"]))
		if !ValidLocation(loc) {
			return nil, &specerrors.LoadError{Source: source, Message: fmt.Sprintf("parameter %q of %s has invalid location %q", name, where, loc)}
		}
		params = append(params, &Parameter{
			Name:       name,
			In:         loc,
			Required:   asBool(data["required"]),
			Deprecated: asBool(data["deprecated"]),
			Schema:     decodeSchema(data["schema"]),
		})
	}
	return params, nil
}

func decodeContent(raw any) map[string]*SchemaNode {
	content := make(map[string]*SchemaNode)
	data, ok := raw.(map[string]any)
	if !ok {
		return content
	}
	for mediaType, rawMedia := range data {
		media, _ := rawMedia.(map[string]any)
		content[mediaType] = decodeSchema(media["schema"])
	}
	return content
}

// decodeSchema builds a SchemaNode from a raw schema object. Shapes that
// cannot be determined decode to Unknown rather than failing; comparison
// treats Unknown conservatively.
func decodeSchema(raw any) *SchemaNode {
	data, ok := raw.(map[string]any)
	if !ok {
		return UnknownSchema
	}

	if ref := asString(data["$ref"]); ref != "" {
		if name, ok := strings.CutPrefix(ref, schemaRefPrefix); ok && name != "" {
			return &SchemaNode{Kind: KindReference, Ref: name}
		}
		return UnknownSchema
	}

	for _, compose := range []CompositionKind{ComposeAllOf, ComposeOneOf, ComposeAnyOf} {
		if rawMembers, ok := data[string(compose)].([]any); ok {
			node := &SchemaNode{Kind: KindComposition, Compose: compose, Nullable: asBool(data["nullable"])}
			for _, m := range rawMembers {
				node.Members = append(node.Members, decodeSchema(m))
			}
			return node
		}
	}

	typ := asString(data["type"])

	_, hasProps := data["properties"]
	_, hasAdditional := data["additionalProperties"]
	if typ == "object" || hasProps || hasAdditional {
		return decodeObjectSchema(data)
	}

	if _, hasItems := data["items"]; typ == "array" || hasItems {
		return &SchemaNode{
			Kind:     KindArray,
			Nullable: asBool(data["nullable"]),
			Items:    decodeSchema(data["items"]),
		}
	}

	switch typ {
	case "string", "number", "integer", "boolean":
		return &SchemaNode{
			Kind:     KindPrimitive,
			Type:     typ,
			Format:   asString(data["format"]),
			Enum:     decodeEnum(data["enum"]),
			Nullable: asBool(data["nullable"]),
		}
	}

	return UnknownSchema
}

func decodeObjectSchema(data map[string]any) *SchemaNode {
	node := &SchemaNode{
		Kind:       KindObject,
		Nullable:   asBool(data["nullable"]),
		Properties: make(map[string]*Property),
	}

	required := make(map[string]bool)
	if rawRequired, ok := data["required"].([]any); ok {
		for _, r := range rawRequired {
			required[asString(r)] = true
		}
	}

	if props, ok := data["properties"].(map[string]any); ok {
		for name, rawProp := range props {
			node.Properties[name] = &Property{
				Schema:   decodeSchema(rawProp),
				Required: required[name],
			}
		}
	}

	switch ap := data["additionalProperties"].(type) {
	case bool:
		if ap {
			node.Additional = AdditionalAllowed
		} else {
			node.Additional = AdditionalForbidden
		}
	case map[string]any:
		node.Additional = AdditionalTyped
		node.AdditionalSchema = decodeSchema(ap)
	default:
		node.Additional = AdditionalAllowed
	}

	return node
}

// decodeEnum canonicalizes enum values to sorted strings. Enum comparison
// is set-based, so document order carries no meaning.
func decodeEnum(raw any) []string {
	list, ok := raw.([]any)
	if !ok || len(list) == 0 {
		return nil
	}
	values := make([]string, 0, len(list))
	for _, v := range list {
		values = append(values, fmt.Sprint(v))
	}
	sort.Strings(values)
	return values
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asBool(v any) bool {
	b, _ := v.(bool)
	return b
}
