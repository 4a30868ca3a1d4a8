package apispec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v4"

	"github.com/specgate/specgate/specerrors"
)

func decodeYAML(t *testing.T, src string) (*Document, error) {
	t.Helper()
	var raw map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(src), &raw))
	return decodeDocument(raw, "test.yaml")
}

func TestDecodeDocument(t *testing.T) {
	doc, err := decodeYAML(t, `
info:
  title: Pet Store
  version: 1.2.0
paths:
  /pets:
    get:
      parameters:
        - name: limit
          in: query
          schema:
            type: integer
            format: int32
      responses:
        "200":
          content:
            application/json:
              schema:
                type: array
                items:
                  $ref: "#/components/schemas/Pet"
    post:
      requestBody:
        required: true
        content:
          application/json:
            schema:
              $ref: "#/components/schemas/Pet"
      responses:
        "201": {}
        "4XX": {}
components:
  schemas:
    Pet:
      type: object
      required: [name]
      properties:
        name:
          type: string
        tag:
          type: string
`)
	require.NoError(t, err)

	assert.Equal(t, "Pet Store", doc.Title)
	assert.Equal(t, "1.2.0", doc.Version)
	require.Len(t, doc.Operations, 2)

	get := doc.Operation(OperationKey{Path: "/pets", Method: "get"})
	require.NotNil(t, get)
	require.Len(t, get.Parameters, 1)
	assert.Equal(t, ParameterKey{Name: "limit", Location: LocationQuery}, get.Parameters[0].Key())
	assert.False(t, get.Parameters[0].Required)
	assert.Equal(t, "integer", get.Parameters[0].Schema.Type)
	assert.Equal(t, "int32", get.Parameters[0].Schema.Format)

	resp := get.Responses["200"]
	require.NotNil(t, resp)
	listSchema := resp.Content["application/json"]
	require.NotNil(t, listSchema)
	assert.Equal(t, KindArray, listSchema.Kind)
	assert.Equal(t, KindReference, listSchema.Items.Kind)
	assert.Equal(t, "Pet", listSchema.Items.Ref)

	post := doc.Operation(OperationKey{Path: "/pets", Method: "post"})
	require.NotNil(t, post)
	require.NotNil(t, post.RequestBody)
	assert.True(t, post.RequestBody.Required)
	assert.Contains(t, post.Responses, "201")
	assert.Contains(t, post.Responses, "4XX")

	pet := doc.Types["Pet"]
	require.NotNil(t, pet)
	assert.Equal(t, KindObject, pet.Kind)
	require.Contains(t, pet.Properties, "name")
	assert.True(t, pet.Properties["name"].Required)
	assert.False(t, pet.Properties["tag"].Required)
	assert.Equal(t, AdditionalAllowed, pet.Additional)
}

func TestDecodeDocumentSharedParameters(t *testing.T) {
	doc, err := decodeYAML(t, `
paths:
  /items/{id}:
    parameters:
      - name: id
        in: path
        required: true
        schema:
          type: string
    get:
      responses:
        "200": {}
    delete:
      parameters:
        - name: id
          in: path
          required: true
          schema:
            type: integer
      responses:
        "204": {}
`)
	require.NoError(t, err)

	get := doc.Operation(OperationKey{Path: "/items/{id}", Method: "get"})
	require.NotNil(t, get)
	require.Len(t, get.Parameters, 1)
	assert.Equal(t, "string", get.Parameters[0].Schema.Type)

	// Operation-level parameter shadows the shared one with the same key.
	del := doc.Operation(OperationKey{Path: "/items/{id}", Method: "delete"})
	require.NotNil(t, del)
	require.Len(t, del.Parameters, 1)
	assert.Equal(t, "integer", del.Parameters[0].Schema.Type)
}

func TestDecodeDocumentRejectsMalformed(t *testing.T) {
	cases := []struct {
		name string
		src  string
	}{
		{"no paths", `info: {title: x}`},
		{"path not object", `paths: {/a: 7}`},
		{"parameter without name", "paths:\n  /a:\n    get:\n      parameters:\n        - in: query\n      responses: {}"},
		{"parameter bad location", "paths:\n  /a:\n    get:\n      parameters:\n        - name: x\n          in: body\n      responses: {}"},
		{"invalid response code", "paths:\n  /a:\n    get:\n      responses:\n        \"999\": {}"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := decodeYAML(t, tc.src)
			require.Error(t, err)
			var loadErr *specerrors.LoadError
			assert.ErrorAs(t, err, &loadErr)
		})
	}
}

func TestDecodeSchema(t *testing.T) {
	cases := []struct {
		name  string
		src   string
		check func(t *testing.T, n *SchemaNode)
	}{
		{
			name: "primitive with enum",
			src:  `{type: string, enum: [red, blue, green]}`,
			check: func(t *testing.T, n *SchemaNode) {
				assert.Equal(t, KindPrimitive, n.Kind)
				assert.Equal(t, []string{"blue", "green", "red"}, n.Enum)
			},
		},
		{
			name: "nullable primitive",
			src:  `{type: integer, nullable: true}`,
			check: func(t *testing.T, n *SchemaNode) {
				assert.Equal(t, KindPrimitive, n.Kind)
				assert.True(t, n.Nullable)
			},
		},
		{
			name: "object inferred from properties",
			src:  `{properties: {a: {type: string}}}`,
			check: func(t *testing.T, n *SchemaNode) {
				assert.Equal(t, KindObject, n.Kind)
				assert.Contains(t, n.Properties, "a")
			},
		},
		{
			name: "additionalProperties false",
			src:  `{type: object, additionalProperties: false}`,
			check: func(t *testing.T, n *SchemaNode) {
				assert.Equal(t, AdditionalForbidden, n.Additional)
			},
		},
		{
			name: "additionalProperties typed",
			src:  `{type: object, additionalProperties: {type: string}}`,
			check: func(t *testing.T, n *SchemaNode) {
				assert.Equal(t, AdditionalTyped, n.Additional)
				require.NotNil(t, n.AdditionalSchema)
				assert.Equal(t, "string", n.AdditionalSchema.Type)
			},
		},
		{
			name: "array inferred from items",
			src:  `{items: {type: number}}`,
			check: func(t *testing.T, n *SchemaNode) {
				assert.Equal(t, KindArray, n.Kind)
				assert.Equal(t, "number", n.Items.Type)
			},
		},
		{
			name: "oneOf composition",
			src:  `{oneOf: [{type: string}, {type: integer}]}`,
			check: func(t *testing.T, n *SchemaNode) {
				assert.Equal(t, KindComposition, n.Kind)
				assert.Equal(t, ComposeOneOf, n.Compose)
				assert.Len(t, n.Members, 2)
			},
		},
		{
			name: "reference",
			src:  `{$ref: "#/components/schemas/Pet"}`,
			check: func(t *testing.T, n *SchemaNode) {
				assert.Equal(t, KindReference, n.Kind)
				assert.Equal(t, "Pet", n.Ref)
			},
		},
		{
			name: "ref takes priority over siblings",
			src:  `{$ref: "#/components/schemas/Pet", type: object, properties: {a: {type: string}}}`,
			check: func(t *testing.T, n *SchemaNode) {
				assert.Equal(t, KindReference, n.Kind)
			},
		},
		{
			name: "external ref is unknown",
			src:  `{$ref: "other.yaml#/Pet"}`,
			check: func(t *testing.T, n *SchemaNode) {
				assert.Equal(t, KindUnknown, n.Kind)
			},
		},
		{
			name: "missing type is unknown",
			src:  `{description: free-form}`,
			check: func(t *testing.T, n *SchemaNode) {
				assert.Equal(t, KindUnknown, n.Kind)
			},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var raw any
			require.NoError(t, yaml.Unmarshal([]byte(tc.src), &raw))
			tc.check(t, decodeSchema(raw))
		})
	}
}
