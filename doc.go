// Package gitship is a one-shot commit-and-push workflow tool
//
// gitship automates the routine sequence most projects run dozens of times a
// day: check the working tree, run the tests, stage everything, commit with a
// sensible message, push, and glance at the recent history. It replaces a
// shell alias with a single binary that classifies what changed, warns
// instead of aborting on soft failures, and reports the outcome through its
// exit code.
//
// # Quick Start
//
//	# Navigate to your Git repository
//	cd /path/to/your/repo
//
//	# Commit and push with a generated message
//	gitship
//
//	# Or supply the commit message yourself
//	gitship "Fix pagination in the orders API"
//
// # Key Features
//
//   - Fixed pipeline: status, classify, test, syntax-check, stage, commit, push, history
//   - Advisory classification of changed paths (data vs API), configurable via .gitship.yaml
//   - Optional project test run and entry-point syntax checks; failures warn, never abort
//   - Distinct exit codes: 0 for success or nothing-to-commit, 1 for precondition,
//     commit, or push failures
//
// # Module Structure
//
// The module is organized into these packages:
//
//   - cmd/gitship: Command-line interface
//   - internal/git: Git operations and the pipeline
//   - internal/classify: Changed-path classification rules
//   - internal/checks: Optional test and syntax-check steps
//   - internal/exec: Command execution abstraction
//   - internal/config: Configuration layering and validation
//   - internal/lock: File-based locking mechanism
//   - internal/logger: Logging facilities
//   - internal/errors: Error handling utilities
//
// # Implementation Notes
//
// gitship uses the command-line Git executable rather than a Go Git library to
// ensure compatibility with all Git features and repository configurations.
// Commands are executed through an abstracted interface that can be replaced
// for testing.
//
// Every external process runs under the command context, so an interrupt
// (SIGINT, SIGTERM) cancels the in-flight child process and still releases
// the repository lock on the way out.
package gitship
