// Package exec provides an abstraction over command execution for testability.
// Production code uses RealExecutor, which shells out via os/exec; tests
// inject MockExecutor, which replays pre-recorded responses and records every
// invocation for verification.
package exec

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"sync"
)

// CommandExecutor abstracts command execution for testability.
//
// The dir argument sets the child process working directory; an empty dir
// runs the command in the caller's current directory. The parent process
// never changes its own working directory.
type CommandExecutor interface {
	// Run executes a command and returns stdout, stderr, and any error.
	Run(ctx context.Context, dir string, name string, args ...string) (stdout, stderr string, err error)

	// Output executes a command and returns trimmed stdout, or an error
	// carrying the stderr text.
	Output(ctx context.Context, dir string, name string, args ...string) (string, error)
}

// RealExecutor executes commands using os/exec.
type RealExecutor struct{}

// NewRealExecutor returns a new RealExecutor.
func NewRealExecutor() *RealExecutor {
	return &RealExecutor{}
}

// Run executes a command and returns stdout, stderr, and any error.
func (e *RealExecutor) Run(ctx context.Context, dir string, name string, args ...string) (stdout, stderr string, err error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	err = cmd.Run()
	return stdoutBuf.String(), stderrBuf.String(), err
}

// Output executes a command and returns trimmed stdout. On failure the
// returned error wraps the command error with the stderr text, which is
// usually the part worth showing to a user.
func (e *RealExecutor) Output(ctx context.Context, dir string, name string, args ...string) (string, error) {
	stdout, stderr, err := e.Run(ctx, dir, name, args...)
	if err != nil {
		if msg := strings.TrimSpace(stderr); msg != "" {
			return "", &ExitError{Stderr: msg, Err: err}
		}
		return "", err
	}
	return strings.TrimRight(stdout, "\n"), nil
}

// ExitError carries a command's stderr alongside the underlying exec error.
type ExitError struct {
	Stderr string
	Err    error
}

func (e *ExitError) Error() string {
	return e.Stderr + ": " + e.Err.Error()
}

// Unwrap returns the underlying error for use with errors.Is and errors.As.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// MockResponse defines the response for a mocked command.
type MockResponse struct {
	Stdout string
	Stderr string
	Err    error
}

// CommandMatcher is a function that determines if a command matches.
type CommandMatcher func(dir, name string, args []string) bool

// MockRule defines a matching rule and its response.
type MockRule struct {
	Match    CommandMatcher
	Response MockResponse
}

// MockCall records a command invocation for verification.
type MockCall struct {
	Dir  string
	Name string
	Args []string
}

// MockExecutor returns pre-recorded responses for commands. Rules are
// matched in registration order; unmatched commands succeed with empty
// output.
type MockExecutor struct {
	mu    sync.RWMutex
	rules []MockRule
	calls []MockCall
}

// NewMockExecutor creates a new MockExecutor.
func NewMockExecutor() *MockExecutor {
	return &MockExecutor{}
}

// AddRule adds a matching rule with its response.
func (e *MockExecutor) AddRule(match CommandMatcher, response MockResponse) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rules = append(e.rules, MockRule{Match: match, Response: response})
}

// AddPrefixMatch adds a rule that matches commands starting with specific args.
func (e *MockExecutor) AddPrefixMatch(name string, prefixArgs []string, response MockResponse) {
	e.AddRule(func(dir, n string, a []string) bool {
		if n != name {
			return false
		}
		if len(a) < len(prefixArgs) {
			return false
		}
		for i, arg := range prefixArgs {
			if a[i] != arg {
				return false
			}
		}
		return true
	}, response)
}

// AddContainsMatch adds a rule that matches any command whose argv contains
// all the given tokens in order, regardless of position. Convenient for git
// commands where a leading "-C <path>" varies per test.
func (e *MockExecutor) AddContainsMatch(name string, tokens []string, response MockResponse) {
	e.AddRule(func(dir, n string, a []string) bool {
		if n != name {
			return false
		}
		i := 0
		for _, arg := range a {
			if i < len(tokens) && arg == tokens[i] {
				i++
			}
		}
		return i == len(tokens)
	}, response)
}

// Calls returns all recorded command invocations.
func (e *MockExecutor) Calls() []MockCall {
	e.mu.RLock()
	defer e.mu.RUnlock()
	calls := make([]MockCall, len(e.calls))
	copy(calls, e.calls)
	return calls
}

// CallsFor returns recorded invocations of the given executable.
func (e *MockExecutor) CallsFor(name string) []MockCall {
	var out []MockCall
	for _, c := range e.Calls() {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

func (e *MockExecutor) findMatch(dir, name string, args []string) *MockResponse {
	e.mu.RLock()
	defer e.mu.RUnlock()

	for _, rule := range e.rules {
		if rule.Match(dir, name, args) {
			return &rule.Response
		}
	}
	return nil
}

func (e *MockExecutor) recordCall(dir, name string, args []string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls = append(e.calls, MockCall{Dir: dir, Name: name, Args: args})
}

// Run executes a mocked command.
func (e *MockExecutor) Run(ctx context.Context, dir string, name string, args ...string) (stdout, stderr string, err error) {
	e.recordCall(dir, name, args)

	if resp := e.findMatch(dir, name, args); resp != nil {
		return resp.Stdout, resp.Stderr, resp.Err
	}
	return "", "", nil
}

// Output executes a mocked command.
func (e *MockExecutor) Output(ctx context.Context, dir string, name string, args ...string) (string, error) {
	e.recordCall(dir, name, args)

	if resp := e.findMatch(dir, name, args); resp != nil {
		if resp.Err != nil {
			if msg := strings.TrimSpace(resp.Stderr); msg != "" {
				return "", &ExitError{Stderr: msg, Err: resp.Err}
			}
			return "", resp.Err
		}
		return strings.TrimRight(resp.Stdout, "\n"), nil
	}
	return "", nil
}

// Ensure implementations satisfy the interface.
var _ CommandExecutor = (*RealExecutor)(nil)
var _ CommandExecutor = (*MockExecutor)(nil)
