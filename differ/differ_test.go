package differ

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specgate/specgate/apispec"
	"github.com/specgate/specgate/internal/testutil"
)

func mustCompare(t *testing.T, d *Differ, base, cand *apispec.Document) *Report {
	t.Helper()
	report, err := d.Compare(base, cand)
	require.NoError(t, err)
	return report
}

func TestCompareIdenticalDocuments(t *testing.T) {
	report := mustCompare(t, New(), testutil.NewDetailedDocument(), testutil.NewDetailedDocument())
	assert.Empty(t, report.Changes)
	assert.Equal(t, NoChanges, report.Verdict)
	assert.False(t, report.HasBreaking())
}

func TestCompareOperationRemoved(t *testing.T) {
	base := testutil.NewDetailedDocument()
	cand := testutil.NewDetailedDocument()
	cand.Operations = cand.Operations[:1]

	report := mustCompare(t, New(), base, cand)
	require.NotEmpty(t, report.Changes)
	assert.Equal(t, HasBreakingChanges, report.Verdict)

	var opChange *Change
	for i := range report.Changes {
		if report.Changes[i].Category == CategoryOperation {
			opChange = &report.Changes[i]
		}
	}
	require.NotNil(t, opChange)
	assert.Equal(t, ChangeTypeRemoved, opChange.Type)
	assert.Equal(t, SeverityBreaking, opChange.Severity)
	assert.Equal(t, "POST /pets", opChange.Operation.String())
}

func TestCompareOperationAdded(t *testing.T) {
	base := testutil.NewSimpleDocument()
	cand := testutil.NewSimpleDocument()
	cand.Operations = append(cand.Operations, &apispec.Operation{
		Key:       apispec.OperationKey{Path: "/metrics", Method: "get"},
		Responses: map[string]*apispec.Response{"200": {}},
	})

	report := mustCompare(t, New(), base, cand)
	require.Len(t, report.Changes, 1)
	assert.Equal(t, ChangeTypeAdded, report.Changes[0].Type)
	assert.Equal(t, SeverityNonBreaking, report.Changes[0].Severity)
	assert.Equal(t, ChangesDetected, report.Verdict)
}

func TestRemovedOperationRequiredFieldNotes(t *testing.T) {
	base := testutil.NewDetailedDocument()
	cand := testutil.NewDetailedDocument()
	cand.Operations = cand.Operations[:1]

	report := mustCompare(t, New(), base, cand)

	var notes []Change
	for _, ch := range report.Changes {
		if ch.SubType == subTypeRequiredProperty {
			notes = append(notes, ch)
		}
	}
	// Pet requires id and name; both surface as informational notes on the
	// removed POST /pets body.
	require.Len(t, notes, 2)
	for _, ch := range notes {
		assert.Equal(t, SeverityInformational, ch.Severity)
		assert.Equal(t, ChangeTypeRemoved, ch.Type)
	}
}

func TestCompareParameters(t *testing.T) {
	withParam := func(p *apispec.Parameter) *apispec.Document {
		doc := testutil.NewSimpleDocument()
		if p != nil {
			doc.Operations[0].Parameters = []*apispec.Parameter{p}
		}
		return doc
	}
	limit := func(required bool) *apispec.Parameter {
		return &apispec.Parameter{
			Name: "limit", In: apispec.LocationQuery,
			Required: required, Schema: testutil.IntegerSchema(),
		}
	}

	t.Run("required parameter removed is non-breaking", func(t *testing.T) {
		report := mustCompare(t, New(), withParam(limit(true)), withParam(nil))
		require.Len(t, report.Changes, 1)
		assert.Equal(t, ChangeTypeRemoved, report.Changes[0].Type)
		assert.Equal(t, SeverityNonBreaking, report.Changes[0].Severity)
		assert.Equal(t, ChangesDetected, report.Verdict)
	})

	t.Run("required parameter added is breaking", func(t *testing.T) {
		report := mustCompare(t, New(), withParam(nil), withParam(limit(true)))
		require.Len(t, report.Changes, 1)
		assert.Equal(t, SeverityBreaking, report.Changes[0].Severity)
		assert.Equal(t, HasBreakingChanges, report.Verdict)
	})

	t.Run("optional parameter added is non-breaking", func(t *testing.T) {
		report := mustCompare(t, New(), withParam(nil), withParam(limit(false)))
		require.Len(t, report.Changes, 1)
		assert.Equal(t, SeverityNonBreaking, report.Changes[0].Severity)
	})

	t.Run("parameter became required is breaking", func(t *testing.T) {
		report := mustCompare(t, New(), withParam(limit(false)), withParam(limit(true)))
		require.Len(t, report.Changes, 1)
		assert.Equal(t, subTypeRequired, report.Changes[0].SubType)
		assert.Equal(t, SeverityBreaking, report.Changes[0].Severity)
	})

	t.Run("location move is remove plus add", func(t *testing.T) {
		header := limit(true)
		header.In = apispec.LocationHeader
		report := mustCompare(t, New(), withParam(limit(true)), withParam(header))
		require.Len(t, report.Changes, 2)
		assert.Equal(t, HasBreakingChanges, report.Verdict)
	})

	t.Run("parameter schema compared in request position", func(t *testing.T) {
		str := limit(false)
		str.Schema = testutil.StringSchema("")
		report := mustCompare(t, New(), withParam(limit(false)), withParam(str))
		require.Len(t, report.Changes, 1)
		assert.Equal(t, PositionRequest, report.Changes[0].Position)
		assert.Equal(t, SeverityBreaking, report.Changes[0].Severity)
	})
}

func TestCompareRequestBody(t *testing.T) {
	withBody := func(body *apispec.RequestBody) *apispec.Document {
		doc := testutil.NewSimpleDocument()
		doc.Operations[0].RequestBody = body
		return doc
	}

	t.Run("required body added is breaking", func(t *testing.T) {
		report := mustCompare(t, New(), withBody(nil), withBody(&apispec.RequestBody{Required: true}))
		require.Len(t, report.Changes, 1)
		assert.Equal(t, SeverityBreaking, report.Changes[0].Severity)
	})

	t.Run("body removed is breaking", func(t *testing.T) {
		report := mustCompare(t, New(), withBody(&apispec.RequestBody{}), withBody(nil))
		require.Len(t, report.Changes, 1)
		assert.Equal(t, SeverityBreaking, report.Changes[0].Severity)
	})

	t.Run("media type removed is breaking", func(t *testing.T) {
		base := withBody(&apispec.RequestBody{Content: map[string]*apispec.SchemaNode{
			"application/json": testutil.StringSchema(""),
			"application/xml":  testutil.StringSchema(""),
		}})
		cand := withBody(&apispec.RequestBody{Content: map[string]*apispec.SchemaNode{
			"application/json": testutil.StringSchema(""),
		}})
		report := mustCompare(t, New(), base, cand)
		require.Len(t, report.Changes, 1)
		assert.Equal(t, subTypeMediaType, report.Changes[0].SubType)
		assert.Equal(t, SeverityBreaking, report.Changes[0].Severity)
	})
}

func TestCompareResponses(t *testing.T) {
	withCodes := func(codes ...string) *apispec.Document {
		doc := testutil.NewSimpleDocument()
		responses := make(map[string]*apispec.Response, len(codes))
		for _, code := range codes {
			responses[code] = &apispec.Response{}
		}
		doc.Operations[0].Responses = responses
		return doc
	}

	t.Run("status code added is non-breaking", func(t *testing.T) {
		report := mustCompare(t, New(), withCodes("200"), withCodes("200", "429"))
		require.Len(t, report.Changes, 1)
		assert.Equal(t, SeverityNonBreaking, report.Changes[0].Severity)
		assert.Equal(t, ChangesDetected, report.Verdict)
	})

	t.Run("status code removed is breaking", func(t *testing.T) {
		report := mustCompare(t, New(), withCodes("200", "404"), withCodes("200"))
		require.Len(t, report.Changes, 1)
		assert.Equal(t, SeverityBreaking, report.Changes[0].Severity)
	})
}

func TestCompareDeprecationFlag(t *testing.T) {
	base := testutil.NewSimpleDocument()
	cand := testutil.NewSimpleDocument()
	cand.Operations[0].Deprecated = true

	report := mustCompare(t, New(), base, cand)
	require.Len(t, report.Changes, 1)
	assert.Equal(t, SeverityInformational, report.Changes[0].Severity)
	assert.Equal(t, subTypeDeprecated, report.Changes[0].SubType)
	assert.Equal(t, ChangesDetected, report.Verdict)
}

// Adding a required body property must produce exactly one breaking change
// at the property breadcrumb.
func TestAddRequiredBodyProperty(t *testing.T) {
	withSchema := func(schema *apispec.SchemaNode) *apispec.Document {
		doc := testutil.NewSimpleDocument()
		doc.Operations[0].RequestBody = &apispec.RequestBody{
			Required: true,
			Content:  map[string]*apispec.SchemaNode{"application/json": schema},
		}
		return doc
	}

	base := withSchema(testutil.ObjectSchema(map[string]*apispec.SchemaNode{
		"name": testutil.StringSchema(""),
	}, "name"))
	cand := withSchema(testutil.ObjectSchema(map[string]*apispec.SchemaNode{
		"name": testutil.StringSchema(""),
		"age":  testutil.IntegerSchema(),
	}, "name", "age"))

	report := mustCompare(t, New(), base, cand)
	require.Len(t, report.Changes, 1)
	assert.Equal(t, SeverityBreaking, report.Changes[0].Severity)
	assert.True(t, strings.HasSuffix(report.Changes[0].Breadcrumb, "properties.age"),
		"breadcrumb %q should end at the added property", report.Changes[0].Breadcrumb)
	assert.Equal(t, HasBreakingChanges, report.Verdict)
}

// Any change detected forward must have a corresponding change at the same
// breadcrumb in the reverse comparison, though severity may differ.
func TestChangeDetectionIsSymmetric(t *testing.T) {
	base := testutil.NewDetailedDocument()
	cand := testutil.NewDetailedDocument()
	cand.Operations[0].Parameters[0].Required = true
	cand.Types["Pet"].Properties["name"].Required = false
	cand.Types["Pet"].Properties["tag"] = &apispec.Property{Schema: testutil.StringSchema("")}

	forward := mustCompare(t, New(), base, cand)
	reverse := mustCompare(t, New(), cand, base)
	require.NotEmpty(t, forward.Changes)

	reverseCrumbs := make(map[string]bool)
	for _, ch := range reverse.Changes {
		reverseCrumbs[ch.Operation.String()+"|"+ch.Breadcrumb] = true
	}
	for _, ch := range forward.Changes {
		assert.True(t, reverseCrumbs[ch.Operation.String()+"|"+ch.Breadcrumb],
			"no reverse change at %s > %s", ch.Operation, ch.Breadcrumb)
	}
}

func TestCompareSharedTypePerPosition(t *testing.T) {
	// The same named type reachable from both positions is classified
	// independently per position.
	build := func(nullable bool) *apispec.Document {
		item := testutil.ObjectSchema(map[string]*apispec.SchemaNode{
			"note": {Kind: apispec.KindPrimitive, Type: "string", Nullable: nullable},
		})
		return &apispec.Document{
			Source: "shared.yaml",
			Operations: []*apispec.Operation{{
				Key: apispec.OperationKey{Path: "/items", Method: "put"},
				RequestBody: &apispec.RequestBody{Content: map[string]*apispec.SchemaNode{
					"application/json": testutil.RefSchema("Item"),
				}},
				Responses: map[string]*apispec.Response{
					"200": {Content: map[string]*apispec.SchemaNode{
						"application/json": testutil.RefSchema("Item"),
					}},
				},
			}},
			Types: map[string]*apispec.SchemaNode{"Item": item},
		}
	}

	report := mustCompare(t, New(), build(false), build(true))
	require.Len(t, report.Changes, 2)

	bySeverity := map[Severity]Position{}
	for _, ch := range report.Changes {
		bySeverity[ch.Severity] = ch.Position
	}
	assert.Equal(t, PositionResponse, bySeverity[SeverityBreaking])
	assert.Equal(t, PositionRequest, bySeverity[SeverityNonBreaking])
}

func TestCompareWithRuleOverrides(t *testing.T) {
	base := testutil.NewDetailedDocument()
	cand := testutil.NewDetailedDocument()
	cand.Operations = cand.Operations[:1]

	d := New()
	d.Rules = &RulesConfig{
		Operation: &OperationRules{Removed: &Rule{Severity: SeverityPtr(SeverityNonBreaking)}},
	}
	report := mustCompare(t, d, base, cand)
	assert.Equal(t, ChangesDetected, report.Verdict)

	d.Rules = &RulesConfig{
		Operation: &OperationRules{Removed: &Rule{Ignore: true}},
	}
	report = mustCompare(t, d, base, cand)
	for _, ch := range report.Changes {
		assert.NotEqual(t, CategoryOperation, ch.Category)
	}
}

func TestParallelCompareMatchesSequential(t *testing.T) {
	base := testutil.NewDetailedDocument()
	cand := testutil.NewDetailedDocument()
	cand.Operations[0].Parameters[0].Required = true
	cand.Types["Pet"].Properties["extra"] = &apispec.Property{Schema: testutil.StringSchema("")}

	sequential := mustCompare(t, New(), base, cand)

	parallel := New()
	parallel.Workers = 4
	concurrent := mustCompare(t, parallel, base, cand)

	assert.Equal(t, sequential.Changes, concurrent.Changes)
	assert.Equal(t, sequential.Verdict, concurrent.Verdict)
}

func TestCompareUnresolvedReferenceFails(t *testing.T) {
	base := testutil.NewSimpleDocument()
	base.Operations[0].Responses["200"] = &apispec.Response{Content: map[string]*apispec.SchemaNode{
		"application/json": testutil.RefSchema("Ghost"),
	}}
	cand := testutil.NewSimpleDocument()
	cand.Operations[0].Responses["200"] = &apispec.Response{Content: map[string]*apispec.SchemaNode{
		"application/json": testutil.RefSchema("Ghost"),
	}}

	_, err := New().Compare(base, cand)
	require.Error(t, err)
}
