package main

import (
	"fmt"
	"os"

	"github.com/specgate/specgate"
	"github.com/specgate/specgate/cmd/specgate/commands"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "version", "-v", "--version":
		fmt.Printf("specgate v%s\n", specgate.Version())
	case "help", "-h", "--help":
		printUsage()
	case "diff":
		if err := commands.HandleDiff(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "check":
		if err := commands.HandleCheck(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "mcp":
		if err := commands.HandleMCP(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		if suggestion := suggestCommand(command); suggestion != "" {
			fmt.Fprintf(os.Stderr, "Did you mean: %s?\n", suggestion)
		}
		fmt.Fprintln(os.Stderr)
		printUsage()
		os.Exit(1)
	}
}

var knownCommands = []string{"diff", "check", "mcp", "version", "help"}

// suggestCommand returns the closest known command within edit distance 2,
// or an empty string when nothing is close enough.
func suggestCommand(input string) string {
	best, bestDist := "", 3
	for _, cmd := range knownCommands {
		if d := editDistance(input, cmd); d < bestDist {
			best, bestDist = cmd, d
		}
	}
	return best
}

func editDistance(a, b string) int {
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func printUsage() {
	fmt.Println(`specgate - API description change gate

Usage:
  specgate <command> [options]

Commands:
  diff        Compare two API descriptions and report changes
  check       Run the full CI gate: compare, analyze consumers, publish
  mcp         Run the MCP server over stdio
  version     Show version information
  help        Show this help message

Examples:
  specgate diff baseline.yaml candidate.yaml
  specgate diff --format markdown --rules strict baseline.json http://localhost:8000
  specgate check --baseline-file baseline.yaml --candidate-url http://localhost:8000 \
      --consumers consumers.yaml --repo acme/petstore --pr 42
  specgate mcp

Run 'specgate <command> --help' for more information on a command.`)
}
