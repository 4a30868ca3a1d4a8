package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/specgate/specgate/consumers"
	"github.com/specgate/specgate/differ"
	"github.com/specgate/specgate/internal/cliutil"
	"github.com/specgate/specgate/publisher"
)

// CheckFlags contains flags for the check command
type CheckFlags struct {
	BaselineFile  string
	BaselineURL   string
	CandidateFile string
	CandidateURL  string
	Consumers     string
	Rules         string
	Workers       int
	Repo          string
	PR            int
	FailOnChanges bool
}

// SetupCheckFlags creates and configures a FlagSet for the check command.
// Returns the FlagSet and a CheckFlags struct with bound flag variables.
func SetupCheckFlags() (*flag.FlagSet, *CheckFlags) {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	flags := &CheckFlags{}

	fs.StringVar(&flags.BaselineFile, "baseline-file", "", "baseline description file")
	fs.StringVar(&flags.BaselineURL, "baseline-url", "", "baseline application base URL")
	fs.StringVar(&flags.CandidateFile, "candidate-file", "", "candidate description file")
	fs.StringVar(&flags.CandidateURL, "candidate-url", "", "candidate application base URL")
	fs.StringVar(&flags.Consumers, "consumers", "", "consumers registry YAML file")
	fs.StringVar(&flags.Rules, "rules", "default", "classification preset: default, strict, or lenient")
	fs.IntVar(&flags.Workers, "workers", 0, "compare up to N operation pairs concurrently (0 = sequential)")
	fs.StringVar(&flags.Repo, "repo", "", "GitHub repository (owner/name) to publish the report to")
	fs.IntVar(&flags.PR, "pr", 0, "pull request number to publish the report to")
	fs.BoolVar(&flags.FailOnChanges, "fail-on-changes", false, "exit non-zero on any change, not just breaking ones")

	fs.Usage = func() {
		cliutil.Writef(fs.Output(), "Usage: specgate check [flags]\n\n")
		cliutil.Writef(fs.Output(), "Run the full change gate: compare baseline against candidate, analyze\n")
		cliutil.Writef(fs.Output(), "consumer impact, and publish the markdown report to a pull request.\n\n")
		cliutil.Writef(fs.Output(), "Exactly one of --baseline-file/--baseline-url and one of\n")
		cliutil.Writef(fs.Output(), "--candidate-file/--candidate-url is required.\n\n")
		cliutil.Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		cliutil.Writef(fs.Output(), "\nPublishing:\n")
		cliutil.Writef(fs.Output(), "  With --repo and --pr the markdown report is posted as a PR comment,\n")
		cliutil.Writef(fs.Output(), "  updating the previous report comment when one exists. The GitHub\n")
		cliutil.Writef(fs.Output(), "  token is read from the GITHUB_TOKEN environment variable.\n")
		cliutil.Writef(fs.Output(), "\nExamples:\n")
		cliutil.Writef(fs.Output(), "  specgate check --baseline-file main/openapi.yaml --candidate-url http://localhost:8000\n")
		cliutil.Writef(fs.Output(), "  specgate check --baseline-file base.yaml --candidate-file head.yaml \\\n")
		cliutil.Writef(fs.Output(), "      --consumers consumers.yaml --repo acme/petstore --pr 42\n")
		cliutil.Writef(fs.Output(), "\nExit Status:\n")
		cliutil.Writef(fs.Output(), "  0    No breaking changes (no changes at all with --fail-on-changes)\n")
		cliutil.Writef(fs.Output(), "  1    Breaking changes found, or any change with --fail-on-changes\n")
	}

	return fs, flags
}

// ValidateCheckFlags checks the source selection and publishing flags.
func ValidateCheckFlags(flags *CheckFlags) error {
	if (flags.BaselineFile == "") == (flags.BaselineURL == "") {
		return fmt.Errorf("exactly one of --baseline-file or --baseline-url is required")
	}
	if (flags.CandidateFile == "") == (flags.CandidateURL == "") {
		return fmt.Errorf("exactly one of --candidate-file or --candidate-url is required")
	}
	if (flags.Repo == "") != (flags.PR == 0) {
		return fmt.Errorf("--repo and --pr must be used together")
	}
	return nil
}

// HandleCheck executes the check command
func HandleCheck(args []string) error {
	fs, flags := SetupCheckFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	if fs.NArg() != 0 {
		fs.Usage()
		return fmt.Errorf("check command takes no positional arguments")
	}
	if err := ValidateCheckFlags(flags); err != nil {
		fs.Usage()
		return err
	}
	rules, err := ResolveRules(flags.Rules)
	if err != nil {
		return err
	}

	ctx := context.Background()

	opts := []differ.Option{
		differ.WithRules(rules),
		differ.WithWorkers(flags.Workers),
	}
	if flags.BaselineFile != "" {
		opts = append(opts, differ.WithBaselineFile(flags.BaselineFile))
	} else {
		opts = append(opts, differ.WithBaselineURL(flags.BaselineURL))
	}
	if flags.CandidateFile != "" {
		opts = append(opts, differ.WithCandidateFile(flags.CandidateFile))
	} else {
		opts = append(opts, differ.WithCandidateURL(flags.CandidateURL))
	}

	report, err := differ.CompareWithOptions(ctx, opts...)
	if err != nil {
		return fmt.Errorf("comparing descriptions: %w", err)
	}

	var impacts []consumers.Impact
	if flags.Consumers != "" {
		registry, err := consumers.LoadRegistry(flags.Consumers)
		if err != nil {
			return err
		}
		impacts = consumers.Analyze(report, registry)
	}

	var markdown strings.Builder
	report.RenderMarkdown(&markdown)
	if impacts != nil {
		consumers.RenderMarkdown(&markdown, impacts)
	}

	if flags.Repo != "" {
		token := os.Getenv("GITHUB_TOKEN")
		client, err := publisher.New(ctx, token, flags.Repo)
		if err != nil {
			return err
		}
		if err := client.PublishReport(ctx, flags.PR, markdown.String()); err != nil {
			return err
		}
		cliutil.Writef(os.Stderr, "Report published to %s#%d\n", flags.Repo, flags.PR)
	} else {
		cliutil.Writef(os.Stdout, "%s", markdown.String())
	}

	report.RenderText(os.Stderr)

	if code := report.ExitCode(flags.FailOnChanges); code != 0 {
		os.Exit(code)
	}
	return nil
}
