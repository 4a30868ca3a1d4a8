// Package testutil provides test utilities and fixtures for unit tests.
package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"go.yaml.in/yaml/v4"

	"github.com/specgate/specgate/apispec"
)

// StringSchema returns a primitive string node, optionally with a format.
func StringSchema(format string) *apispec.SchemaNode {
	return &apispec.SchemaNode{Kind: apispec.KindPrimitive, Type: "string", Format: format}
}

// IntegerSchema returns a primitive integer node.
func IntegerSchema() *apispec.SchemaNode {
	return &apispec.SchemaNode{Kind: apispec.KindPrimitive, Type: "integer"}
}

// EnumSchema returns a primitive string node constrained to the given
// values. Values must already be sorted.
func EnumSchema(values ...string) *apispec.SchemaNode {
	return &apispec.SchemaNode{Kind: apispec.KindPrimitive, Type: "string", Enum: values}
}

// RefSchema returns a reference node pointing at the named registry type.
func RefSchema(name string) *apispec.SchemaNode {
	return &apispec.SchemaNode{Kind: apispec.KindReference, Ref: name}
}

// ArraySchema returns an array node with the given item schema.
func ArraySchema(items *apispec.SchemaNode) *apispec.SchemaNode {
	return &apispec.SchemaNode{Kind: apispec.KindArray, Items: items}
}

// ObjectSchema returns an object node over the given properties, with the
// named ones marked required.
func ObjectSchema(props map[string]*apispec.SchemaNode, required ...string) *apispec.SchemaNode {
	isRequired := make(map[string]bool, len(required))
	for _, name := range required {
		isRequired[name] = true
	}
	node := &apispec.SchemaNode{
		Kind:       apispec.KindObject,
		Properties: make(map[string]*apispec.Property, len(props)),
	}
	for name, schema := range props {
		node.Properties[name] = &apispec.Property{Schema: schema, Required: isRequired[name]}
	}
	return node
}

// NewSimpleDocument creates a minimal document with one GET operation and
// an empty type registry.
func NewSimpleDocument() *apispec.Document {
	return &apispec.Document{
		Source:  "simple.yaml",
		Title:   "Test API",
		Version: "1.0.0",
		Operations: []*apispec.Operation{
			{
				Key: apispec.OperationKey{Path: "/health", Method: "get"},
				Responses: map[string]*apispec.Response{
					"200": {},
				},
			},
		},
		Types: map[string]*apispec.SchemaNode{},
	}
}

// NewDetailedDocument creates a document exercising the common surface:
// parameters, a request body, JSON responses, and a self-referencing
// registry type.
func NewDetailedDocument() *apispec.Document {
	pet := ObjectSchema(map[string]*apispec.SchemaNode{
		"id":     IntegerSchema(),
		"name":   StringSchema(""),
		"friend": RefSchema("Pet"),
	}, "id", "name")

	return &apispec.Document{
		Source:  "detailed.yaml",
		Title:   "Pet Store",
		Version: "1.0.0",
		Operations: []*apispec.Operation{
			{
				Key: apispec.OperationKey{Path: "/pets", Method: "get"},
				Parameters: []*apispec.Parameter{
					{Name: "limit", In: apispec.LocationQuery, Schema: IntegerSchema()},
				},
				Responses: map[string]*apispec.Response{
					"200": {Content: map[string]*apispec.SchemaNode{
						"application/json": ArraySchema(RefSchema("Pet")),
					}},
				},
			},
			{
				Key: apispec.OperationKey{Path: "/pets", Method: "post"},
				RequestBody: &apispec.RequestBody{
					Required: true,
					Content: map[string]*apispec.SchemaNode{
						"application/json": RefSchema("Pet"),
					},
				},
				Responses: map[string]*apispec.Response{
					"201": {Content: map[string]*apispec.SchemaNode{
						"application/json": RefSchema("Pet"),
					}},
				},
			},
		},
		Types: map[string]*apispec.SchemaNode{
			"Pet": pet,
		},
	}
}

// WriteTempYAML writes doc as YAML to a temporary file and returns its path.
func WriteTempYAML(t *testing.T, doc any) string {
	t.Helper()
	data, err := yaml.Marshal(doc)
	if err != nil {
		t.Fatalf("failed to marshal YAML: %v", err)
	}
	path := filepath.Join(t.TempDir(), "fixture.yaml")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	return path
}

// WriteTempJSON writes doc as JSON to a temporary file and returns its path.
func WriteTempJSON(t *testing.T, doc any) string {
	t.Helper()
	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("failed to marshal JSON: %v", err)
	}
	path := filepath.Join(t.TempDir(), "fixture.json")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	return path
}
