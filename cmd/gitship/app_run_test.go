package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitship/gitship/internal/config"
	gitshipErrors "github.com/gitship/gitship/internal/errors"
	gitshipExec "github.com/gitship/gitship/internal/exec"
	"github.com/gitship/gitship/internal/logger"
)

type fakeLocker struct {
	acquireErr error
	acquired   bool
	released   bool
}

func (f *fakeLocker) Acquire() error {
	if f.acquireErr != nil {
		return f.acquireErr
	}
	f.acquired = true
	return nil
}

func (f *fakeLocker) Release() error {
	f.released = true
	return nil
}

type fakeShip struct {
	err error
	ran bool
}

func (f *fakeShip) Run(ctx context.Context) error {
	f.ran = true
	return f.err
}

type appFixture struct {
	app    *App
	locker *fakeLocker
	ship   *fakeShip
	mock   *gitshipExec.MockExecutor
	stdout *bytes.Buffer
	stderr *bytes.Buffer
}

func newTestApp(t *testing.T, mutate func(*AppOptions)) *appFixture {
	t.Helper()

	cfg := config.New()
	cfg.RepoPath = t.TempDir()

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	locker := &fakeLocker{}
	ship := &fakeShip{}
	mock := gitshipExec.NewMockExecutor()

	opts := AppOptions{
		Config:       cfg,
		Logger:       logger.NewWithOutput(false, "", true, stdout, stderr),
		Locker:       locker,
		Ship:         ship,
		Executor:     mock,
		Stdout:       stdout,
		Stderr:       stderr,
		ExecLookPath: func(string) (string, error) { return "/usr/bin/git", nil },
		IsRepository: func(string) (bool, error) { return true, nil },
	}
	if mutate != nil {
		mutate(&opts)
	}

	return &appFixture{
		app:    NewApp(opts),
		locker: locker,
		ship:   ship,
		mock:   mock,
		stdout: stdout,
		stderr: stderr,
	}
}

func TestNewAppRequiresConfig(t *testing.T) {
	assert.Panics(t, func() {
		NewApp(AppOptions{})
	})
}

func TestRunSuccess(t *testing.T) {
	fx := newTestApp(t, nil)

	require.NoError(t, fx.app.Run(context.Background()))

	assert.True(t, fx.ship.ran)
	assert.True(t, fx.locker.acquired)
	assert.True(t, fx.locker.released, "lock must be released on the way out")
}

func TestRunOutsideRepositoryAbortsEverything(t *testing.T) {
	fx := newTestApp(t, func(opts *AppOptions) {
		opts.IsRepository = func(string) (bool, error) { return false, nil }
	})

	err := fx.app.Run(context.Background())
	require.Error(t, err)
	assert.True(t, gitshipErrors.Is(err, gitshipErrors.ErrNotGitRepository))

	// No mutation happened: the pipeline never ran and no git command
	// was issued.
	assert.False(t, fx.ship.ran)
	assert.False(t, fx.locker.acquired)
	assert.Empty(t, fx.mock.Calls())
	assert.Contains(t, fx.stderr.String(), "Not a git repository")
}

func TestRunRepositoryCheckErrorIsFatal(t *testing.T) {
	fx := newTestApp(t, func(opts *AppOptions) {
		opts.IsRepository = func(string) (bool, error) {
			return false, errors.New("permission denied")
		}
	})

	err := fx.app.Run(context.Background())
	require.Error(t, err)
	assert.True(t, gitshipErrors.Is(err, gitshipErrors.ErrGitOperationFailed))
	assert.False(t, fx.ship.ran)
}

func TestRunMissingGitBinary(t *testing.T) {
	fx := newTestApp(t, func(opts *AppOptions) {
		opts.ExecLookPath = func(string) (string, error) {
			return "", errors.New("not found")
		}
	})

	err := fx.app.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "git is not found in PATH")
	assert.False(t, fx.ship.ran)
}

func TestRunLockHeldByAnotherInstance(t *testing.T) {
	fx := newTestApp(t, func(opts *AppOptions) {
		opts.Locker = &fakeLocker{
			acquireErr: gitshipErrors.NewLockError("/tmp/gitship.lock", 1234,
				gitshipErrors.ErrAlreadyRunning),
		}
	})

	err := fx.app.Run(context.Background())
	require.Error(t, err)
	assert.True(t, gitshipErrors.Is(err, gitshipErrors.ErrAlreadyRunning))
	assert.False(t, fx.ship.ran)
}

func TestRunShipErrorPropagates(t *testing.T) {
	fx := newTestApp(t, func(opts *AppOptions) {
		opts.Ship = &fakeShip{err: gitshipErrors.Wrap(gitshipErrors.ErrPushFailed, "remote unreachable")}
	})

	err := fx.app.Run(context.Background())
	require.Error(t, err)
	assert.True(t, gitshipErrors.Is(err, gitshipErrors.ErrPushFailed))
	assert.True(t, fx.locker.released)
}

func TestInitializeLoadsRulesFile(t *testing.T) {
	repo := t.TempDir()
	rules := filepath.Join(repo, "rules.yaml")
	require.NoError(t, os.WriteFile(rules, []byte("rules:\n  - category: data\n    pattern: data/\n"), 0644))

	cfg := config.New()
	cfg.RepoPath = repo
	cfg.RulesFile = rules

	app := NewApp(AppOptions{
		Config: cfg,
		Logger: logger.NewWithOutput(false, "", true, &bytes.Buffer{}, &bytes.Buffer{}),
	})

	require.NoError(t, app.Initialize())
	assert.NotNil(t, app.Ship)
}

func TestInitializeRejectsBrokenRulesFile(t *testing.T) {
	repo := t.TempDir()
	rules := filepath.Join(repo, "rules.yaml")
	require.NoError(t, os.WriteFile(rules, []byte("rules: [broken"), 0644))

	cfg := config.New()
	cfg.RepoPath = repo
	cfg.RulesFile = rules

	app := NewApp(AppOptions{
		Config: cfg,
		Logger: logger.NewWithOutput(false, "", true, &bytes.Buffer{}, &bytes.Buffer{}),
	})

	err := app.Initialize()
	require.Error(t, err)
	assert.True(t, gitshipErrors.Is(err, gitshipErrors.ErrInvalidConfiguration))
}

func TestInitializeRejectsInvalidConfig(t *testing.T) {
	cfg := config.New()
	cfg.Remote = ""

	app := NewApp(AppOptions{Config: cfg})

	err := app.Initialize()
	require.Error(t, err)
	assert.True(t, gitshipErrors.Is(err, gitshipErrors.ErrInvalidConfiguration))
}

func TestCloseReleasesLockAndLogger(t *testing.T) {
	fx := newTestApp(t, nil)
	require.NoError(t, fx.app.Initialize())

	require.NoError(t, fx.app.Close())
	assert.True(t, fx.locker.released)
}
