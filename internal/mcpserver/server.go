// Package mcpserver implements an MCP (Model Context Protocol) server
// that exposes specgate's comparison capabilities as MCP tools over stdio.
package mcpserver

import (
	"context"
	"regexp"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/specgate/specgate"
)

const serverInstructions = `specgate MCP server: compares API descriptions and reports breaking changes.

Configuration: defaults are configurable via SPECGATE_* environment variables set in your MCP client config.

Key settings:
- SPECGATE_RULES (default: default): classification preset, one of default, strict, or lenient
- SPECGATE_WORKERS (default: 0): number of operation pairs compared concurrently
- SPECGATE_INTROSPECTION_PATH (default: /openapi.json): description path fetched under live base URLs

Each tool accepts a baseline and a candidate source; a source is either a file_path or a url (the base URL of a running application whose description is fetched live).`

// Run starts the MCP server over stdio and blocks until the client
// disconnects or the context is cancelled.
func Run(ctx context.Context) error {
	server := mcp.NewServer(
		&mcp.Implementation{Name: "specgate", Version: specgate.Version()},
		&mcp.ServerOptions{
			Instructions: serverInstructions,
		},
	)
	registerAllTools(server)
	return server.Run(ctx, &mcp.StdioTransport{})
}

func registerAllTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "compare",
		Description: "Compare a baseline API description against a candidate and report classified changes. Every change carries an operation, a breadcrumb into the operation's surface, a request/response position, and a severity (breaking, non-breaking, informational). The verdict is NO_CHANGES, CHANGES_DETECTED, or HAS_BREAKING_CHANGES. Use breaking_only=true to focus on breaking changes. The rules preset defaults to SPECGATE_RULES.",
	}, handleCompare)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "report",
		Description: "Compare a baseline API description against a candidate and return the markdown report used for PR comments, optionally extended with per-consumer impact when consumers_config points at a registry file. The report is deterministic: identical inputs produce byte-identical markdown.",
	}, handleReport)
}

func makeSlice[T any](n int) []T {
	if n == 0 {
		return nil
	}
	return make([]T, 0, n)
}

// sanitizeError strips absolute filesystem paths from error messages
// to prevent leaking internal directory structure to MCP clients.
var pathPattern = regexp.MustCompile(`(?:/(?:home|tmp|var|Users|etc|opt|usr|private|root|mnt|srv|run|snap|nix)[a-zA-Z0-9._/-]*)`)

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return pathPattern.ReplaceAllString(err.Error(), "<path>")
}

func errResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: sanitizeError(err)}},
	}
}
