package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gitship/gitship/internal/config"
)

// Version information - injected at build time
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

const longHelp = `gitship automates the routine commit-and-push workflow in one shot.

It checks that the current directory is a git repository, shows the working
tree status, classifies changed paths into data-related and API-related
advisories, optionally runs the project test suite and syntax-checks known
entry points, then stages everything, commits, and pushes the current branch
to its remote. With no changes to commit it shows recent history and exits
successfully.

Features:

  - One-shot pipeline: status, classify, test, check, stage, commit, push
  - Advisory classification of changed paths (data vs API), configurable
    via a .gitship.yaml rules file in the repository root
  - Optional project test run (backend/manage.py) - failures warn, never abort
  - Best-effort syntax checks of known entry points - failures warn, never abort
  - Generated commit message when none is given:
    "Update: YYYY-MM-DD HH:MM:SS - auto commit"
  - Exit code 0 on success or when there is nothing to commit;
    exit code 1 when the directory is not a repository, the commit fails,
    or the push fails after a successful commit

Examples:

  # Commit and push with a generated message
  gitship

  # Commit and push with an explicit message
  gitship "Fix pagination in the orders API"

  # Skip the project test step
  gitship --skip-tests "Quick docs update"

  # Operate on another repository
  gitship --repo /path/to/repo`

// newRootCmd builds the root command around a fresh Config. Configuration
// layering follows defaults -> env file -> environment -> flags.
func newRootCmd() *cobra.Command {
	cfg := config.New()
	cfg.VersionInfo = config.VersionInfo{Version: version, Commit: commit, Date: date}

	if err := cfg.LoadEnvFile(""); err != nil {
		fmt.Fprintf(os.Stderr, "[WARN] %v\n", err)
	}
	cfg.LoadFromEnvironment()

	var quiet bool

	cmd := &cobra.Command{
		Use:   "gitship [commit message]",
		Short: "Automate the status-test-commit-push workflow",
		Long:  longHelp,
		Args:  cobra.MaximumNArgs(1),
		// Errors are already printed through the logger; cobra would
		// otherwise print them a second time and its usage on top.
		SilenceErrors: true,
		SilenceUsage:  true,
		Version:       fmt.Sprintf("%s (%s) built on %s", version, commit, date),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				cfg.Message = args[0]
			}
			if quiet {
				cfg.Verbose = false
			}

			app := NewApp(AppOptions{Config: cfg})
			return app.Run(cmd.Context())
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&cfg.RepoPath, "repo", cfg.RepoPath, "Path to repository (default: current directory)")
	flags.StringVar(&cfg.Remote, "remote", cfg.Remote, "Remote to push to")
	flags.BoolVar(&cfg.SkipTests, "skip-tests", cfg.SkipTests, "Skip the project test step")
	flags.BoolVar(&quiet, "quiet", false, "Hide informational messages")
	flags.BoolVar(&cfg.Debug, "debug", cfg.Debug, "Enable debug logging to a file")
	flags.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "Path to log file (default: under XDG data home)")
	flags.StringVar(&cfg.RulesFile, "rules", cfg.RulesFile, "Path to a classification rules file (default: .gitship.yaml if present)")

	return cmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	cmd := newRootCmd()
	err := cmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
