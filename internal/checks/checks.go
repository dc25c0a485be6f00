// Package checks implements the optional, best-effort pipeline steps: the
// project test run and the entry-point syntax checks. Every outcome here is
// advisory; nothing in this package can abort the pipeline.
package checks

import (
	"context"
	"os"
	osexec "os/exec"
	"path/filepath"

	"github.com/gitship/gitship/internal/exec"
	"github.com/gitship/gitship/internal/logger"
)

// Well-known project entry points. The test entry point doubles as the
// Python syntax-check target.
const (
	testEntryPoint   = "backend/manage.py"
	frontendAppEntry = "frontend/src/App.js"
)

// Checker runs the optional test and syntax-check steps.
type Checker struct {
	logger   logger.Logger
	executor exec.CommandExecutor
	lookPath func(file string) (string, error)
}

// New creates a Checker with the default PATH lookup.
func New(log logger.Logger, executor exec.CommandExecutor) *Checker {
	return NewWithLookPath(log, executor, osexec.LookPath)
}

// NewWithLookPath creates a Checker with a custom PATH lookup, used by tests
// to simulate missing toolchains.
func NewWithLookPath(log logger.Logger, executor exec.CommandExecutor, lookPath func(string) (string, error)) *Checker {
	return &Checker{
		logger:   log,
		executor: executor,
		lookPath: lookPath,
	}
}

// pythonInterpreter resolves the Python binary, preferring python3.
func (c *Checker) pythonInterpreter() (string, bool) {
	for _, name := range []string{"python3", "python"} {
		if path, err := c.lookPath(name); err == nil {
			return path, true
		}
	}
	return "", false
}

// RunProjectTests runs the project test entry point if it exists on disk.
// The test process runs with its working directory set to the entry point's
// containing directory; the gitship process itself never changes directory,
// so there is nothing to restore afterwards. A failing test run is a warning
// only. A missing entry point skips the step silently.
func (c *Checker) RunProjectTests(ctx context.Context, repoRoot string) {
	entry := filepath.Join(repoRoot, filepath.FromSlash(testEntryPoint))
	if _, err := os.Stat(entry); err != nil {
		c.logger.Info("No test entry point at %s, skipping tests", entry)
		return
	}

	python, ok := c.pythonInterpreter()
	if !ok {
		c.logger.Info("Test entry point present but no Python interpreter on PATH, skipping tests")
		return
	}

	c.logger.Step("Running project tests")

	dir := filepath.Dir(entry)
	_, stderr, err := c.executor.Run(ctx, dir, python, "manage.py", "test", "--verbosity", "0")
	if err != nil {
		c.logger.Warning("Project tests failed: %v (stderr: %s)", err, stderr)
		c.logger.WarningToUser("Tests failed - continuing anyway")
		return
	}

	c.logger.Success("Tests passed")
}

// syntaxTarget pairs an entry-point file with the toolchain invocation that
// validates it.
type syntaxTarget struct {
	relPath string
	tool    func() (string, bool)
	args    func(file string) []string
}

// SyntaxCheck performs a best-effort syntax-only validation of the known
// entry-point files. A missing file or a missing toolchain skips that target
// silently; a failing check is reported as a warning and never aborts.
func (c *Checker) SyntaxCheck(ctx context.Context, repoRoot string) {
	targets := []syntaxTarget{
		{
			relPath: testEntryPoint,
			tool:    c.pythonInterpreter,
			args: func(file string) []string {
				return []string{"-m", "py_compile", file}
			},
		},
		{
			relPath: frontendAppEntry,
			tool: func() (string, bool) {
				path, err := c.lookPath("node")
				return path, err == nil
			},
			args: func(file string) []string {
				return []string{"--check", file}
			},
		},
	}

	for _, target := range targets {
		file := filepath.Join(repoRoot, filepath.FromSlash(target.relPath))
		if _, err := os.Stat(file); err != nil {
			continue
		}

		tool, ok := target.tool()
		if !ok {
			c.logger.Info("No toolchain available to syntax-check %s, skipping", target.relPath)
			continue
		}

		_, stderr, err := c.executor.Run(ctx, "", tool, target.args(file)...)
		if err != nil {
			c.logger.Warning("Syntax check failed for %s: %v (stderr: %s)", target.relPath, err, stderr)
			c.logger.WarningToUser("Syntax check failed for %s", target.relPath)
			continue
		}

		c.logger.InfoToUser("Syntax OK: %s", target.relPath)
	}
}
