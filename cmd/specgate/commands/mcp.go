package commands

import (
	"context"
	"errors"
	"flag"

	"github.com/specgate/specgate/internal/cliutil"
	"github.com/specgate/specgate/internal/mcpserver"
)

// SetupMCPFlags creates and configures a FlagSet for the mcp command.
func SetupMCPFlags() *flag.FlagSet {
	fs := flag.NewFlagSet("mcp", flag.ContinueOnError)

	fs.Usage = func() {
		cliutil.Writef(fs.Output(), "Usage: specgate mcp\n\n")
		cliutil.Writef(fs.Output(), "Run the MCP server over stdio, exposing compare and report tools.\n\n")
		cliutil.Writef(fs.Output(), "Defaults are configurable via SPECGATE_* environment variables:\n")
		cliutil.Writef(fs.Output(), "  SPECGATE_RULES               classification preset (default, strict, lenient)\n")
		cliutil.Writef(fs.Output(), "  SPECGATE_WORKERS             concurrent operation comparisons (default 0)\n")
		cliutil.Writef(fs.Output(), "  SPECGATE_INTROSPECTION_PATH  description path on live URLs (default /openapi.json)\n")
	}

	return fs
}

// HandleMCP executes the mcp command, blocking until the client disconnects.
func HandleMCP(args []string) error {
	fs := SetupMCPFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	return mcpserver.Run(context.Background())
}
