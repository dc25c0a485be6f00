package git

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/gitship/gitship/internal/checks"
	"github.com/gitship/gitship/internal/classify"
	gitshipErrors "github.com/gitship/gitship/internal/errors"
	"github.com/gitship/gitship/internal/exec"
	"github.com/gitship/gitship/internal/logger"
)

// ShipConfig contains configuration for a single pipeline run.
type ShipConfig struct {
	// RepoPath specifies the filesystem path to the Git repository.
	// Must be non-empty; validation fails otherwise.
	RepoPath string

	// Remote names the remote that receives the push step.
	Remote string

	// Message is the commit message supplied by the user. Empty means the
	// default timestamped message is generated at commit time.
	Message string

	// HistoryCount is how many one-line log entries the history display shows.
	HistoryCount int

	// SkipTests disables the optional project test step.
	SkipTests bool
}

// Validate sanity-checks the config and returns an error if something is wrong.
func (c *ShipConfig) Validate() error {
	if c.RepoPath == "" {
		return gitshipErrors.Errorf("RepoPath must not be empty")
	}
	if c.Remote == "" {
		return gitshipErrors.Errorf("Remote must not be empty")
	}
	if c.HistoryCount < 1 {
		return gitshipErrors.Errorf("HistoryCount must be at least 1 (got %d)", c.HistoryCount)
	}
	return nil
}

// Ship runs the commit-and-push pipeline against a git repository.
//
// The pipeline is strictly sequential: status display, change detection,
// advisory classification, optional tests, optional syntax checks, stage,
// commit, push, history display. Soft failures (tests, syntax checks) are
// logged and swallowed; stage and commit failures abort; a push failure
// after a successful commit is reported as a partial success via the
// returned error.
type Ship struct {
	// config holds all the settings for this run
	config ShipConfig

	// logger handles all output messages with appropriate formatting
	logger logger.Logger

	// executor runs external commands and captures their output
	executor exec.CommandExecutor

	// rules classifies changed paths into advisory categories
	rules *classify.RuleSet

	// checker runs the optional test and syntax-check steps
	checker *checks.Checker

	// now is the clock used for generated commit messages and the banner
	now func() time.Time
}

// NewShip creates a Ship with default dependencies. The configuration is
// validated and the built-in classification rules apply unless a rule set is
// supplied via WithRules.
func NewShip(config ShipConfig, log logger.Logger) (*Ship, error) {
	executor := exec.NewRealExecutor()
	return NewShipWithDeps(config, log, executor, classify.DefaultRules(), checks.New(log, executor))
}

// NewShipWithDeps creates a Ship with custom dependencies
func NewShipWithDeps(
	config ShipConfig,
	log logger.Logger,
	executor exec.CommandExecutor,
	rules *classify.RuleSet,
	checker *checks.Checker,
) (*Ship, error) {
	if err := config.Validate(); err != nil {
		return nil, gitshipErrors.Wrap(err, "invalid gitship configuration")
	}

	return &Ship{
		config:   config,
		logger:   log,
		executor: executor,
		rules:    rules,
		checker:  checker,
		now:      time.Now,
	}, nil
}

// WithRules replaces the classification rule set.
func (s *Ship) WithRules(rules *classify.RuleSet) *Ship {
	s.rules = rules
	return s
}

// Run executes the pipeline with the given context for cancellation.
//
// A nil return means either a full success or the legitimate no-op outcome
// (nothing to commit). A returned error wrapping ErrPushFailed means the
// local commit is durable but the remote was not updated; any other error
// means the pipeline aborted.
func (s *Ship) Run(ctx context.Context) error {
	s.logger.Step("Checking working tree status")
	status, err := s.statusShort(ctx)
	if err != nil {
		return err
	}
	if strings.TrimSpace(status) != "" {
		s.logger.StatusMessage("%s", strings.TrimRight(status, "\n"))
	}

	paths, err := s.changedPaths(ctx)
	if err != nil {
		return err
	}

	if len(paths) == 0 {
		s.logger.InfoToUser("No changes to commit")
		s.showHistory(ctx)
		return nil
	}
	s.logger.Info("Detected %d changed path(s)", len(paths))

	s.classifyChanges(paths)

	if !s.config.SkipTests {
		s.checker.RunProjectTests(ctx, s.config.RepoPath)
	}
	s.checker.SyntaxCheck(ctx, s.config.RepoPath)

	s.logger.Step("Staging all changes")
	if _, err := s.git(ctx, "add", "-A"); err != nil {
		s.logger.Error("Failed to stage changes: %v", err)
		return err
	}

	message := s.resolveMessage()
	s.logger.Step("Committing")
	if _, err := s.git(ctx, "commit", "-m", message); err != nil {
		// Commit failure is fatal: the tree is left staged and the push
		// step must not run.
		s.logger.Error("Commit failed: %v", err)
		return err
	}
	s.logger.Success("Committed: %s", message)

	if err := s.push(ctx); err != nil {
		s.logger.WarningToUser("Local commit succeeded but remote synchronization failed: %v", err)
		s.showHistory(ctx)
		s.printBanner()
		return gitshipErrors.Wrap(gitshipErrors.ErrPushFailed, err.Error())
	}

	s.showHistory(ctx)
	s.printBanner()
	return nil
}

// classifyChanges prints one advisory per category with at least one match.
// Purely informational; zero matches in any category is fine.
func (s *Ship) classifyChanges(paths []string) {
	result := s.rules.Classify(paths)
	for _, category := range result.Categories() {
		matched := result.Paths(category)
		s.logger.Advisory(strings.ToUpper(category),
			"Detected %s-related changes (%d file(s))", category, len(matched))
		s.logger.Info("%s-related paths: %s", category, strings.Join(matched, ", "))
	}
}

// push resolves the current branch and pushes it to the configured remote.
func (s *Ship) push(ctx context.Context) error {
	branch, err := s.currentBranch(ctx)
	if err != nil {
		return err
	}

	s.logger.Step("Pushing %s to %s", branch, s.config.Remote)
	if _, err := s.git(ctx, "push", s.config.Remote, branch); err != nil {
		return err
	}

	s.logger.Success("Pushed %s to %s", branch, s.config.Remote)
	return nil
}

// resolveMessage returns the user-supplied commit message, or the generated
// default of the form "Update: YYYY-MM-DD HH:MM:SS - auto commit".
func (s *Ship) resolveMessage() string {
	if s.config.Message != "" {
		return s.config.Message
	}
	return "Update: " + s.now().Format("2006-01-02 15:04:05") + " - auto commit"
}

// showHistory prints the most recent log entries in one-line form. Failures
// here are soft: a freshly initialized repository has no log yet.
func (s *Ship) showHistory(ctx context.Context) {
	output, err := s.git(ctx, "log", "--oneline", "-n", strconv.Itoa(s.config.HistoryCount))
	if err != nil {
		s.logger.Warning("Failed to read commit history: %v", err)
		return
	}

	s.logger.StatusMessage("")
	s.logger.StatusMessage("Recent commits:")
	s.logger.StatusMessage("%s", output)
}

// printBanner prints the completion banner. It prints on full success and on
// partial success (push failed); the exit code distinguishes the two.
func (s *Ship) printBanner() {
	s.logger.StatusMessage("")
	s.logger.StatusMessage("---------------------------------------------")
	s.logger.StatusMessage("gitship run completed at %s", s.now().Format("2006-01-02 15:04:05"))
}

// Git operations

// statusShort returns the concise per-file status listing.
func (s *Ship) statusShort(ctx context.Context) (string, error) {
	return s.git(ctx, "status", "--short")
}

// changedPaths lists every path that differs from the last committed state,
// staged or not, including untracked files. Parsed from porcelain status so
// it also works in a repository with no commits yet.
func (s *Ship) changedPaths(ctx context.Context) ([]string, error) {
	output, err := s.git(ctx, "status", "--porcelain")
	if err != nil {
		return nil, err
	}
	return parsePorcelainPaths(output), nil
}

// currentBranch returns the name of the current git branch.
func (s *Ship) currentBranch(ctx context.Context) (string, error) {
	output, err := s.git(ctx, "branch", "--show-current")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(output), nil
}

// git executes a git subcommand in the repository directory.
func (s *Ship) git(ctx context.Context, args ...string) (string, error) {
	allArgs := append([]string{"-C", s.config.RepoPath}, args...)
	output, err := s.executor.Output(ctx, "", "git", allArgs...)
	if err != nil {
		operation := args[0]
		var stderr string
		var exitErr *exec.ExitError
		if gitshipErrors.As(err, &exitErr) {
			stderr = exitErr.Stderr
		}
		return "", gitshipErrors.NewGitError(operation, args[1:],
			gitshipErrors.Wrap(gitshipErrors.ErrGitOperationFailed, err.Error()), stderr)
	}
	return output, nil
}

// parsePorcelainPaths extracts file paths from `git status --porcelain`
// output. Rename entries contribute their new path.
func parsePorcelainPaths(output string) []string {
	var paths []string
	for _, line := range strings.Split(output, "\n") {
		if len(line) < 4 {
			continue
		}
		path := strings.TrimSpace(line[3:])
		if i := strings.Index(path, " -> "); i >= 0 {
			path = path[i+len(" -> "):]
		}
		path = strings.Trim(path, `"`)
		if path != "" {
			paths = append(paths, path)
		}
	}
	return paths
}
