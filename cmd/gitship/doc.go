// Package main implements gitship, a one-shot commit-and-push workflow tool
//
// This package provides the command-line interface: flag and argument
// parsing, configuration layering, dependency wiring, and exit-code mapping.
// The pipeline itself lives in internal/git.
//
// # Basic Usage
//
//	gitship                        # Commit and push with a generated message
//	gitship "Tighten rate limits"  # Commit and push with an explicit message
//	gitship --skip-tests           # Skip the project test step
//	gitship --repo /path/to/repo   # Operate on another repository
//
// # Configuration Options
//
// The tool can be configured via command-line flags or environment variables
// (flags win). A .gitship.env file in the current directory is loaded first
// and never overrides the real environment:
//
//	--repo        Path to repository (env: GITSHIP_REPO)
//	--remote      Remote to push to (env: GITSHIP_REMOTE)
//	--skip-tests  Skip the project test step (env: GITSHIP_SKIP_TESTS)
//	--quiet       Hide informational messages (env: GITSHIP_VERBOSE=false)
//	--debug       Enable debug logging to a file (env: GITSHIP_DEBUG)
//	--log-file    Path to log file (env: GITSHIP_LOG_FILE)
//	--rules       Classification rules file (env: GITSHIP_RULES_FILE)
//	--version     Print version information and exit
//
// # Exit Codes
//
// 0 means a full success or a legitimate no-op (nothing to commit). 1 means
// the directory is not a repository, another instance holds the lock, the
// commit failed, or the push failed after a successful commit - callers that
// need to distinguish partial success can inspect the output.
package main
