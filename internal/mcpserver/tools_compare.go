package mcpserver

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/specgate/specgate/apispec"
	"github.com/specgate/specgate/differ"
)

// specInput selects one API description source: a file on disk or the
// base URL of a running application.
type specInput struct {
	FilePath string `json:"file_path,omitempty" jsonschema:"Path to a JSON or YAML API description file"`
	URL      string `json:"url,omitempty"       jsonschema:"Base URL of a running application whose description is fetched live"`
}

// load fetches and decodes the selected source.
func (s specInput) load(ctx context.Context, side string) (*apispec.Document, error) {
	switch {
	case s.FilePath != "" && s.URL != "":
		return nil, fmt.Errorf("%s: exactly one of file_path or url is required", side)
	case s.FilePath != "":
		return apispec.LoadWithOptions(ctx, apispec.WithFilePath(s.FilePath))
	case s.URL != "":
		return apispec.LoadWithOptions(ctx,
			apispec.WithURL(s.URL),
			apispec.WithIntrospectionPath(cfg.IntrospectionPath),
		)
	default:
		return nil, fmt.Errorf("%s: one of file_path or url is required", side)
	}
}

type compareInput struct {
	Baseline     specInput `json:"baseline"                jsonschema:"The baseline (previously published) API description"`
	Candidate    specInput `json:"candidate"               jsonschema:"The candidate (proposed) API description"`
	Rules        string    `json:"rules,omitempty"         jsonschema:"Classification preset: default, strict, or lenient"`
	BreakingOnly bool      `json:"breaking_only,omitempty" jsonschema:"Only list breaking changes"`
}

type compareChange struct {
	Operation  string `json:"operation"`
	Breadcrumb string `json:"breadcrumb,omitempty"`
	Type       string `json:"type"`
	Category   string `json:"category"`
	Position   string `json:"position"`
	Severity   string `json:"severity"`
	Message    string `json:"message"`
}

type compareOutput struct {
	Verdict          string          `json:"verdict"`
	BreakingCount    int             `json:"breaking_count"`
	NonBreakingCount int             `json:"non_breaking_count"`
	InfoCount        int             `json:"info_count"`
	Changes          []compareChange `json:"changes,omitempty"`
	Summary          string          `json:"summary"`
}

func handleCompare(ctx context.Context, _ *mcp.CallToolRequest, input compareInput) (*mcp.CallToolResult, compareOutput, error) {
	report, err := runComparison(ctx, input.Baseline, input.Candidate, input.Rules)
	if err != nil {
		return errResult(err), compareOutput{}, nil
	}

	output := compareOutput{
		Verdict:          string(report.Verdict),
		BreakingCount:    report.BreakingCount,
		NonBreakingCount: report.NonBreakingCount,
		InfoCount:        report.InfoCount,
		Changes:          makeSlice[compareChange](len(report.Changes)),
	}

	for _, c := range report.Changes {
		if input.BreakingOnly && c.Severity != differ.SeverityBreaking {
			continue
		}
		output.Changes = append(output.Changes, compareChange{
			Operation:  c.Operation.String(),
			Breadcrumb: c.Breadcrumb,
			Type:       string(c.Type),
			Category:   string(c.Category),
			Position:   c.Position.String(),
			Severity:   c.Severity.String(),
			Message:    c.Message,
		})
	}
	output.Summary = buildCompareSummary(output)

	return nil, output, nil
}

// runComparison loads both sources and compares them with the requested
// rules preset and the configured worker bound.
func runComparison(ctx context.Context, baseline, candidate specInput, rulesName string) (*differ.Report, error) {
	rules, ok := rulesFor(rulesName)
	if !ok {
		return nil, fmt.Errorf("invalid rules %q: must be default, strict, or lenient", rulesName)
	}
	baseDoc, err := baseline.load(ctx, "baseline")
	if err != nil {
		return nil, err
	}
	candDoc, err := candidate.load(ctx, "candidate")
	if err != nil {
		return nil, err
	}
	return differ.CompareWithOptions(ctx,
		differ.WithBaselineDocument(baseDoc),
		differ.WithCandidateDocument(candDoc),
		differ.WithRules(rules),
		differ.WithWorkers(cfg.Workers),
	)
}

func buildCompareSummary(output compareOutput) string {
	return fmt.Sprintf("%s: %d breaking, %d non-breaking, %d informational",
		output.Verdict, output.BreakingCount, output.NonBreakingCount, output.InfoCount)
}
