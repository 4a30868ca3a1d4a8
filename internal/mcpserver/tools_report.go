package mcpserver

import (
	"context"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/specgate/specgate/consumers"
)

type reportInput struct {
	Baseline        specInput `json:"baseline"                   jsonschema:"The baseline (previously published) API description"`
	Candidate       specInput `json:"candidate"                  jsonschema:"The candidate (proposed) API description"`
	Rules           string    `json:"rules,omitempty"            jsonschema:"Classification preset: default, strict, or lenient"`
	ConsumersConfig string    `json:"consumers_config,omitempty" jsonschema:"Path to a consumers registry YAML file for impact analysis"`
}

type reportOutput struct {
	Verdict  string `json:"verdict"`
	Markdown string `json:"markdown"`
}

func handleReport(ctx context.Context, _ *mcp.CallToolRequest, input reportInput) (*mcp.CallToolResult, reportOutput, error) {
	report, err := runComparison(ctx, input.Baseline, input.Candidate, input.Rules)
	if err != nil {
		return errResult(err), reportOutput{}, nil
	}

	var markdown strings.Builder
	report.RenderMarkdown(&markdown)

	if input.ConsumersConfig != "" {
		registry, err := consumers.LoadRegistry(input.ConsumersConfig)
		if err != nil {
			return errResult(err), reportOutput{}, nil
		}
		consumers.RenderMarkdown(&markdown, consumers.Analyze(report, registry))
	}

	return nil, reportOutput{
		Verdict:  string(report.Verdict),
		Markdown: markdown.String(),
	}, nil
}
