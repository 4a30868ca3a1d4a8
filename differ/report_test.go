package differ

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specgate/specgate/apispec"
	"github.com/specgate/specgate/internal/testutil"
)

func TestSortChanges(t *testing.T) {
	changes := []Change{
		{Operation: apispec.OperationKey{Path: "/b", Method: "get"}, Severity: SeverityBreaking, Breadcrumb: "x"},
		{Operation: apispec.OperationKey{Path: "/a", Method: "post"}, Severity: SeverityInformational, Breadcrumb: "z"},
		{Operation: apispec.OperationKey{Path: "/a", Method: "post"}, Severity: SeverityBreaking, Breadcrumb: "y"},
		{Operation: apispec.OperationKey{Path: "/a", Method: "get"}, Severity: SeverityNonBreaking, Breadcrumb: "a"},
		{Operation: apispec.OperationKey{Path: "/a", Method: "post"}, Severity: SeverityBreaking, Breadcrumb: "b"},
	}
	sortChanges(changes)

	assert.Equal(t, "GET /a", changes[0].Operation.String())
	assert.Equal(t, "POST /a", changes[1].Operation.String())
	// Within POST /a: breaking changes first, then breadcrumb order.
	assert.Equal(t, SeverityBreaking, changes[1].Severity)
	assert.Equal(t, "b", changes[1].Breadcrumb)
	assert.Equal(t, "y", changes[2].Breadcrumb)
	assert.Equal(t, SeverityInformational, changes[3].Severity)
	assert.Equal(t, "GET /b", changes[4].Operation.String())
}

func TestReportVerdictAndCounts(t *testing.T) {
	base := testutil.NewDetailedDocument()
	cand := testutil.NewDetailedDocument()
	cand.Operations[0].Deprecated = true
	cand.Operations[0].Responses["429"] = &apispec.Response{}
	cand.Types["Pet"].Properties["name"].Required = false

	report := mustCompare(t, New(), base, cand)

	// name no longer required: non-breaking for requests (POST body),
	// breaking for the two response occurrences.
	assert.Equal(t, 2, report.BreakingCount)
	assert.Equal(t, 2, report.NonBreakingCount)
	assert.Equal(t, 1, report.InfoCount)
	assert.Equal(t, len(report.Changes), report.BreakingCount+report.NonBreakingCount+report.InfoCount)
	assert.Equal(t, HasBreakingChanges, report.Verdict)
}

func TestReportExitCode(t *testing.T) {
	cases := []struct {
		verdict       Verdict
		failOnChanges bool
		want          int
	}{
		{NoChanges, false, 0},
		{NoChanges, true, 0},
		{ChangesDetected, false, 0},
		{ChangesDetected, true, 1},
		{HasBreakingChanges, false, 1},
		{HasBreakingChanges, true, 1},
	}
	for _, tc := range cases {
		r := &Report{Verdict: tc.verdict}
		assert.Equal(t, tc.want, r.ExitCode(tc.failOnChanges), "verdict %s failOnChanges %t", tc.verdict, tc.failOnChanges)
	}
}

func TestRenderText(t *testing.T) {
	base := testutil.NewDetailedDocument()
	cand := testutil.NewDetailedDocument()
	cand.Operations[0].Parameters[0].Required = true

	report := mustCompare(t, New(), base, cand)

	var buf strings.Builder
	report.RenderText(&buf)
	out := buf.String()

	assert.Contains(t, out, "GET /pets")
	assert.Contains(t, out, "parameter limit (in query)")
	assert.Contains(t, out, "parameter became required")
	assert.Contains(t, out, "Summary: 1 breaking, 0 non-breaking, 0 informational")
	assert.Contains(t, out, "Verdict: HAS_BREAKING_CHANGES")
}

func TestRenderTextNoChanges(t *testing.T) {
	report := mustCompare(t, New(), testutil.NewSimpleDocument(), testutil.NewSimpleDocument())

	var buf strings.Builder
	report.RenderText(&buf)
	assert.Contains(t, buf.String(), "No changes detected.")
	assert.Contains(t, buf.String(), "Verdict: NO_CHANGES")
}

func TestRenderMarkdown(t *testing.T) {
	base := testutil.NewDetailedDocument()
	cand := testutil.NewDetailedDocument()
	cand.Operations[0].Parameters[0].Required = true
	cand.Operations[0].Responses["429"] = &apispec.Response{}

	report := mustCompare(t, New(), base, cand)

	var buf strings.Builder
	report.RenderMarkdown(&buf)
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, MarkdownHeader), "markdown must start with the comment header")
	assert.Contains(t, out, "## ❌ Breaking Changes")
	assert.Contains(t, out, "## ⚠️ Non-Breaking Changes")
	assert.Contains(t, out, "### `GET /pets`")
	assert.Contains(t, out, "- **parameter limit (in query)**: parameter became required")
	assert.Contains(t, out, "Verdict: `HAS_BREAKING_CHANGES`")
}

// Identical inputs must render byte-identically run after run.
func TestRenderDeterminism(t *testing.T) {
	build := func() (*apispec.Document, *apispec.Document) {
		base := testutil.NewDetailedDocument()
		cand := testutil.NewDetailedDocument()
		cand.Operations[0].Parameters[0].Required = true
		cand.Types["Pet"].Properties["tag"] = &apispec.Property{Schema: testutil.StringSchema("")}
		cand.Operations[1].Responses["429"] = &apispec.Response{}
		return base, cand
	}

	render := func() string {
		base, cand := build()
		report := mustCompare(t, New(), base, cand)
		var buf strings.Builder
		report.RenderText(&buf)
		buf.WriteString("\n---\n")
		report.RenderMarkdown(&buf)
		return buf.String()
	}

	first := render()
	for i := 0; i < 5; i++ {
		require.Equal(t, first, render())
	}
}
