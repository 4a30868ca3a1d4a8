package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/specgate/specgate/differ"
	"github.com/specgate/specgate/internal/cliutil"
)

// DiffFlags contains flags for the diff command
type DiffFlags struct {
	Format        string
	Rules         string
	Workers       int
	FailOnChanges bool
}

// SetupDiffFlags creates and configures a FlagSet for the diff command.
// Returns the FlagSet and a DiffFlags struct with bound flag variables.
func SetupDiffFlags() (*flag.FlagSet, *DiffFlags) {
	fs := flag.NewFlagSet("diff", flag.ContinueOnError)
	flags := &DiffFlags{}

	fs.StringVar(&flags.Format, "format", FormatText, "output format: text, json, yaml, or markdown")
	fs.StringVar(&flags.Rules, "rules", "default", "classification preset: default, strict, or lenient")
	fs.IntVar(&flags.Workers, "workers", 0, "compare up to N operation pairs concurrently (0 = sequential)")
	fs.BoolVar(&flags.FailOnChanges, "fail-on-changes", false, "exit non-zero on any change, not just breaking ones")

	fs.Usage = func() {
		cliutil.Writef(fs.Output(), "Usage: specgate diff [flags] <baseline> <candidate>\n\n")
		cliutil.Writef(fs.Output(), "Compare two API descriptions and report classified changes.\n")
		cliutil.Writef(fs.Output(), "Each source is a file path or an http(s) URL of a running application.\n\n")
		cliutil.Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		cliutil.Writef(fs.Output(), "\nOutput Formats:\n")
		cliutil.Writef(fs.Output(), "  text (default)  Human-readable text output\n")
		cliutil.Writef(fs.Output(), "  json            JSON report for programmatic processing\n")
		cliutil.Writef(fs.Output(), "  yaml            YAML report for programmatic processing\n")
		cliutil.Writef(fs.Output(), "  markdown        Markdown report suitable for a PR comment\n")
		cliutil.Writef(fs.Output(), "\nExamples:\n")
		cliutil.Writef(fs.Output(), "  specgate diff baseline.yaml candidate.yaml\n")
		cliutil.Writef(fs.Output(), "  specgate diff --rules strict baseline.json candidate.json\n")
		cliutil.Writef(fs.Output(), "  specgate diff --format markdown baseline.yaml http://localhost:8000\n")
		cliutil.Writef(fs.Output(), "\nExit Status:\n")
		cliutil.Writef(fs.Output(), "  0    No breaking changes (no changes at all with --fail-on-changes)\n")
		cliutil.Writef(fs.Output(), "  1    Breaking changes found, or any change with --fail-on-changes\n")
	}

	return fs, flags
}

// HandleDiff executes the diff command
func HandleDiff(args []string) error {
	fs, flags := SetupDiffFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if fs.NArg() != 2 {
		fs.Usage()
		return fmt.Errorf("diff command requires exactly two file paths or URLs")
	}

	if err := ValidateOutputFormat(flags.Format); err != nil {
		return err
	}
	rules, err := ResolveRules(flags.Rules)
	if err != nil {
		return err
	}

	report, err := differ.CompareWithOptions(context.Background(),
		sourceOption(fs.Arg(0), true),
		sourceOption(fs.Arg(1), false),
		differ.WithRules(rules),
		differ.WithWorkers(flags.Workers),
	)
	if err != nil {
		return fmt.Errorf("comparing descriptions: %w", err)
	}

	switch flags.Format {
	case FormatJSON, FormatYAML:
		if err := OutputStructured(report, flags.Format); err != nil {
			return err
		}
	case FormatMarkdown:
		report.RenderMarkdown(os.Stdout)
	default:
		report.RenderText(os.Stdout)
	}

	if code := report.ExitCode(flags.FailOnChanges); code != 0 {
		os.Exit(code)
	}
	return nil
}
