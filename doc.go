// Package specgate provides a change gate for HTTP API descriptions.
//
// specgate compares a baseline and a candidate API description, classifies
// every detected difference as breaking, non-breaking, or informational, and
// produces a deterministic report suitable for posting against a pull
// request in a change-review pipeline.
//
// # Overview
//
// The module consists of these packages:
//
//   - apispec: the in-memory API description model, reference resolution,
//     and document providers (static files and live introspection URLs)
//   - differ: the comparison engine: alignment, recursive schema diffing,
//     change classification, and report building
//   - consumers: consumer registry and per-consumer impact analysis
//   - publisher: posting reports as pull-request comments
//   - specerrors: structured error types shared across packages
//
// # Quick Start
//
// Compare two documents from disk:
//
//	baseline, err := apispec.LoadFile("api-main.json")
//	if err != nil {
//		log.Fatal(err)
//	}
//	candidate, err := apispec.LoadFile("api-branch.json")
//	if err != nil {
//		log.Fatal(err)
//	}
//	report, err := differ.Compare(baseline, candidate)
//	if err != nil {
//		log.Fatal(err)
//	}
//	if report.Verdict == differ.HasBreakingChanges {
//		fmt.Println(report.RenderText())
//		os.Exit(1)
//	}
//
// Compare against a running application's self-description endpoint:
//
//	candidate, err := apispec.LoadURL(ctx, "http://localhost:8000")
//
// The severity assigned to each change kind is a configurable policy table;
// see differ.RulesConfig, differ.StrictRules, and differ.LenientRules.
package specgate
