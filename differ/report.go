package differ

import (
	"fmt"
	"io"
	"sort"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/specgate/specgate/apispec"
	"github.com/specgate/specgate/internal/cliutil"
)

// Verdict is the overall outcome of a comparison.
type Verdict string

const (
	// NoChanges means the candidate is semantically identical to the baseline.
	NoChanges Verdict = "NO_CHANGES"
	// ChangesDetected means differences exist but none are breaking.
	ChangesDetected Verdict = "CHANGES_DETECTED"
	// HasBreakingChanges means at least one breaking change was found.
	HasBreakingChanges Verdict = "HAS_BREAKING_CHANGES"
)

// MarkdownHeader is the first line of every markdown rendering. Publishers
// key update-or-create comment logic on it.
const MarkdownHeader = "# API Specification Changes"

// DocumentInfo summarizes one side of the comparison for reporting.
type DocumentInfo struct {
	Source         string `json:"source" yaml:"source"`
	Title          string `json:"title,omitempty" yaml:"title,omitempty"`
	Version        string `json:"version,omitempty" yaml:"version,omitempty"`
	OperationCount int    `json:"operationCount" yaml:"operationCount"`
}

// Report is the deterministic, ordered outcome of comparing a baseline
// description against a candidate one. Identical inputs always produce
// byte-identical rendered reports.
type Report struct {
	// Baseline and Candidate summarize the two compared documents.
	Baseline  DocumentInfo `json:"baseline" yaml:"baseline"`
	Candidate DocumentInfo `json:"candidate" yaml:"candidate"`
	// Changes holds every classified change, sorted by operation key,
	// then severity (breaking first), then breadcrumb.
	Changes []Change `json:"changes" yaml:"changes"`
	// BreakingCount is the number of breaking changes
	BreakingCount int `json:"breakingCount" yaml:"breakingCount"`
	// NonBreakingCount is the number of non-breaking changes
	NonBreakingCount int `json:"nonBreakingCount" yaml:"nonBreakingCount"`
	// InfoCount is the number of informational changes
	InfoCount int `json:"infoCount" yaml:"infoCount"`
	// Verdict is the overall outcome
	Verdict Verdict `json:"verdict" yaml:"verdict"`
}

// HasBreaking reports whether at least one breaking change was found.
func (r *Report) HasBreaking() bool {
	return r.BreakingCount > 0
}

// ExitCode maps the verdict to a process exit code. By convention breaking
// changes fail the run; with failOnChanges any change at all fails it.
func (r *Report) ExitCode(failOnChanges bool) int {
	switch r.Verdict {
	case HasBreakingChanges:
		return 1
	case ChangesDetected:
		if failOnChanges {
			return 1
		}
	}
	return 0
}

func documentInfo(doc *apispec.Document) DocumentInfo {
	return DocumentInfo{
		Source:         doc.Source,
		Title:          doc.Title,
		Version:        doc.Version,
		OperationCount: len(doc.Operations),
	}
}

// buildReport assembles, sorts, and counts the classified changes.
func buildReport(baseline, candidate *apispec.Document, changes []Change) *Report {
	sortChanges(changes)

	r := &Report{
		Baseline:  documentInfo(baseline),
		Candidate: documentInfo(candidate),
		Changes:   changes,
	}
	for _, ch := range changes {
		switch ch.Severity {
		case SeverityBreaking:
			r.BreakingCount++
		case SeverityNonBreaking:
			r.NonBreakingCount++
		default:
			r.InfoCount++
		}
	}
	switch {
	case r.BreakingCount > 0:
		r.Verdict = HasBreakingChanges
	case len(changes) > 0:
		r.Verdict = ChangesDetected
	default:
		r.Verdict = NoChanges
	}
	return r
}

// sortChanges orders changes by operation identity key, then severity with
// breaking first, then breadcrumb, with further tiebreakers so the order
// is fully deterministic regardless of traversal or completion order.
func sortChanges(changes []Change) {
	sort.SliceStable(changes, func(i, j int) bool {
		a, b := changes[i], changes[j]
		if a.Operation.Path != b.Operation.Path {
			return a.Operation.Path < b.Operation.Path
		}
		if a.Operation.Method != b.Operation.Method {
			return a.Operation.Method < b.Operation.Method
		}
		if a.Severity != b.Severity {
			return a.Severity > b.Severity
		}
		if a.Breadcrumb != b.Breadcrumb {
			return a.Breadcrumb < b.Breadcrumb
		}
		if a.Type != b.Type {
			return a.Type < b.Type
		}
		return a.Message < b.Message
	})
}

func severitySymbol(s Severity) string {
	switch s {
	case SeverityBreaking:
		return "✗"
	case SeverityNonBreaking:
		return "⚠"
	default:
		return "ℹ"
	}
}

// RenderText writes the plain-text rendering: changes grouped under
// per-operation headings with severity markers, followed by the summary
// and the verdict.
func (r *Report) RenderText(w io.Writer) {
	cliutil.Writef(w, "Comparing baseline %s against candidate %s\n",
		describeDocument(r.Baseline), describeDocument(r.Candidate))

	if len(r.Changes) == 0 {
		cliutil.Writef(w, "\nNo changes detected.\n")
		cliutil.Writef(w, "\nVerdict: %s\n", r.Verdict)
		return
	}

	var lastOp apispec.OperationKey
	for i, ch := range r.Changes {
		if i == 0 || ch.Operation != lastOp {
			cliutil.Writef(w, "\n%s\n", ch.Operation)
			lastOp = ch.Operation
		}
		line := ch.Message
		if ch.Breadcrumb != "" {
			line = ch.Breadcrumb + ": " + ch.Message
		}
		cliutil.Writef(w, "  %s [%s] %s\n", severitySymbol(ch.Severity), ch.Severity, line)
	}

	cliutil.Writef(w, "\nSummary: %d breaking, %d non-breaking, %d informational\n",
		r.BreakingCount, r.NonBreakingCount, r.InfoCount)
	cliutil.Writef(w, "Verdict: %s\n", r.Verdict)
}

func describeDocument(info DocumentInfo) string {
	src := info.Source
	if src == "" {
		src = "(in memory)"
	}
	if info.Version != "" {
		return fmt.Sprintf("%s (%s)", src, info.Version)
	}
	return src
}

var markdownSections = []struct {
	severity Severity
	emoji    string
}{
	{SeverityBreaking, "❌"},
	{SeverityNonBreaking, "⚠️"},
	{SeverityInformational, "ℹ️"},
}

// RenderMarkdown writes the markdown rendering used for review comments:
// one section per severity, changes grouped under per-operation headings.
func (r *Report) RenderMarkdown(w io.Writer) {
	cliutil.Writef(w, "%s\n\n", MarkdownHeader)
	cliutil.Writef(w, "Comparing baseline `%s` against candidate `%s`.\n",
		describeDocument(r.Baseline), describeDocument(r.Candidate))

	if len(r.Changes) == 0 {
		cliutil.Writef(w, "\nNo changes detected.\n")
		return
	}

	heading := cases.Title(language.English)
	for _, section := range markdownSections {
		var sectionChanges []Change
		for _, ch := range r.Changes {
			if ch.Severity == section.severity {
				sectionChanges = append(sectionChanges, ch)
			}
		}
		if len(sectionChanges) == 0 {
			continue
		}

		title := heading.String(section.severity.String() + " changes")
		cliutil.Writef(w, "\n## %s %s\n", section.emoji, title)

		var lastOp apispec.OperationKey
		first := true
		for _, ch := range sectionChanges {
			if first || ch.Operation != lastOp {
				cliutil.Writef(w, "\n### `%s`\n\n", ch.Operation)
				lastOp = ch.Operation
				first = false
			}
			if ch.Breadcrumb != "" {
				cliutil.Writef(w, "- **%s**: %s\n", ch.Breadcrumb, ch.Message)
				continue
			}
			cliutil.Writef(w, "- %s\n", ch.Message)
		}
	}

	cliutil.Writef(w, "\n**Summary:** %d breaking, %d non-breaking, %d informational. Verdict: `%s`\n",
		r.BreakingCount, r.NonBreakingCount, r.InfoCount, r.Verdict)
}
