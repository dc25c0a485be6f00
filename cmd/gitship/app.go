package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/gitship/gitship/internal/checks"
	"github.com/gitship/gitship/internal/classify"
	"github.com/gitship/gitship/internal/config"
	gitshipErrors "github.com/gitship/gitship/internal/errors"
	gitshipExec "github.com/gitship/gitship/internal/exec"
	"github.com/gitship/gitship/internal/git"
	"github.com/gitship/gitship/internal/lock"
	"github.com/gitship/gitship/internal/logger"
)

// Shipper runs the commit-and-push pipeline
type Shipper interface {
	Run(ctx context.Context) error
}

// Locker manages file locking
type Locker interface {
	Acquire() error
	Release() error
}

// AppOptions contains app configuration and dependencies.
// This struct allows injection of both required and optional dependencies,
// enabling flexible configuration and easier testing.
type AppOptions struct {
	// Config holds the application configuration settings (required).
	// The application will panic if this field is nil.
	Config *config.Config

	// Optional components

	// Logger provides logging functionality (optional, a default will be created if nil).
	Logger logger.Logger

	// Locker manages repository locking (optional, a default will be created if nil).
	Locker Locker

	// Ship runs the pipeline (optional, a default will be created if nil).
	Ship Shipper

	// Executor runs external commands (optional, defaults to the real one).
	Executor gitshipExec.CommandExecutor

	// I/O dependencies

	// Stdout is the writer for standard output (optional, defaults to os.Stdout).
	Stdout io.Writer

	// Stderr is the writer for error output (optional, defaults to os.Stderr).
	Stderr io.Writer

	// System dependencies

	// ExecLookPath is used to find executables in PATH (optional, defaults to exec.LookPath).
	ExecLookPath func(file string) (string, error)

	// IsRepository checks if a path is a valid Git repository (optional, defaults to git.IsRepository).
	IsRepository func(string) (bool, error)
}

// App is the main gitship application. It wires the configuration, logger,
// lock and pipeline together and maps errors to the process exit code.
type App struct {
	Config *config.Config
	Logger logger.Logger
	Locker Locker
	Ship   Shipper

	Stdout io.Writer
	Stderr io.Writer

	executor     gitshipExec.CommandExecutor
	execLookPath func(file string) (string, error)
	isRepository func(string) (bool, error)
}

// NewApp creates an App with the dependencies specified in opts, filling in
// defaults for any optional dependency left nil.
//
// Panics if opts.Config is nil.
func NewApp(opts AppOptions) *App {
	if opts.Config == nil {
		panic("Config is required in AppOptions")
	}

	app := &App{
		Config:       opts.Config,
		Logger:       opts.Logger,
		Locker:       opts.Locker,
		Ship:         opts.Ship,
		Stdout:       opts.Stdout,
		Stderr:       opts.Stderr,
		executor:     opts.Executor,
		execLookPath: opts.ExecLookPath,
		isRepository: opts.IsRepository,
	}

	// Set defaults for nil dependencies
	if app.Stdout == nil {
		app.Stdout = os.Stdout
	}
	if app.Stderr == nil {
		app.Stderr = os.Stderr
	}
	if app.executor == nil {
		app.executor = gitshipExec.NewRealExecutor()
	}
	if app.execLookPath == nil {
		app.execLookPath = exec.LookPath
	}
	if app.isRepository == nil {
		app.isRepository = git.IsRepository
	}

	return app
}

// Initialize sets up components not provided during construction
func (a *App) Initialize() error {
	if err := a.Config.Finalize(); err != nil {
		if gitshipErrors.Is(err, gitshipErrors.ErrInvalidConfiguration) {
			return err
		}
		return gitshipErrors.Wrap(gitshipErrors.ErrInvalidConfiguration, err.Error())
	}

	if a.Logger == nil {
		a.Logger = logger.NewWithOutput(a.Config.Debug, a.Config.LogFile, a.Config.Verbose, a.Stdout, a.Stderr)
	}

	if a.Locker == nil {
		locker, err := lock.New(a.Config.RepoPath)
		if err != nil {
			return gitshipErrors.Wrap(err, "failed to initialize lock")
		}
		a.Locker = locker
	}

	if a.Ship == nil {
		rules := classify.DefaultRules()
		if a.Config.RulesFile != "" {
			loaded, err := classify.LoadRulesFile(a.Config.RulesFile)
			if err != nil {
				return err
			}
			rules = loaded
		}

		shipConfig := git.ShipConfig{
			RepoPath:     a.Config.RepoPath,
			Remote:       a.Config.Remote,
			Message:      a.Config.Message,
			HistoryCount: a.Config.HistoryCount,
			SkipTests:    a.Config.SkipTests,
		}
		checker := checks.NewWithLookPath(a.Logger, a.executor, a.execLookPath)
		ship, err := git.NewShipWithDeps(shipConfig, a.Logger, a.executor, rules, checker)
		if err != nil {
			return fmt.Errorf("failed to create pipeline: %w", err)
		}
		a.Ship = ship
	}

	return nil
}

// Run executes the pipeline with the given context. The returned error, if
// any, maps to exit code 1; nil maps to exit code 0 (including the
// legitimate "nothing to commit" outcome).
func (a *App) Run(ctx context.Context) error {
	if err := a.Initialize(); err != nil {
		_, _ = fmt.Fprintf(a.Stderr, "[ERROR] %v\n", err)
		return err
	}

	// Ensure we always clean up logger / lock, even on early error paths
	defer func() {
		if err := a.Close(); err != nil {
			_, _ = fmt.Fprintf(a.Stderr, "[ERROR] Error during cleanup: %v\n", err)
		}
	}()

	// Verify prerequisites
	if err := a.checkRequiredCommands(); err != nil {
		a.Logger.Error("%v. Please install it and try again.", err)
		return err
	}

	// The single hard-abort gate: nothing below runs outside a repository.
	isRepo, err := a.isRepository(a.Config.RepoPath)
	if err != nil {
		a.Logger.Error("Failed to check if path is a git repository: %v", err)
		return gitshipErrors.Wrap(gitshipErrors.ErrGitOperationFailed, err.Error())
	}
	if !isRepo {
		a.Logger.Error("Not a git repository: %s", a.Config.RepoPath)
		return gitshipErrors.ErrNotGitRepository
	}
	a.Logger.Info("Git repository verified")

	// Acquire the per-repository run lock before any mutating step
	if err := a.Locker.Acquire(); err != nil {
		if gitshipErrors.Is(err, gitshipErrors.ErrAlreadyRunning) {
			a.Logger.Error("%v", err)
			return err
		}
		wrapped := gitshipErrors.Wrap(gitshipErrors.ErrLockAcquisitionFailure, err.Error())
		a.Logger.Error("%v", wrapped)
		return wrapped
	}

	return a.Ship.Run(ctx)
}

// checkRequiredCommands verifies git is available in PATH
func (a *App) checkRequiredCommands() error {
	_, err := a.execLookPath("git")
	if err != nil {
		return fmt.Errorf("git is not found in PATH")
	}
	return nil
}

// Close releases resources held by the App
func (a *App) Close() error {
	var errs []error

	if a.Locker != nil {
		if err := a.Locker.Release(); err != nil {
			if a.Logger != nil {
				a.Logger.Error("Failed to release lock during cleanup: %v", err)
			} else {
				_, _ = fmt.Fprintf(a.Stderr, "[ERROR] Failed to release lock during cleanup: %v\n", err)
			}
			errs = append(errs, err)
		}
	}

	if a.Logger != nil {
		if err := a.Logger.Close(); err != nil {
			_, _ = fmt.Fprintf(a.Stderr, "[ERROR] Failed to close logger: %v\n", err)
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return gitshipErrors.Join(errs...)
	}
	return nil
}
