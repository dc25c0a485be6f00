package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/fatih/color"
)

// Logger defines the common logging interface used throughout the application.
// It separates internal (debug) logs from user-facing messages: the debug
// channel is written to a log file when enabled, while the user channel is
// printed with a fixed, colored category prefix so a human scanning output
// can immediately see which class a line belongs to.
type Logger interface {
	// Private logging methods (typically written only to log file)

	// Info logs an informational message for debugging purposes.
	// These messages are only written to the log file.
	Info(format string, args ...interface{})

	// Warning logs a warning message for debugging purposes.
	// Shown to users only in verbose mode.
	Warning(format string, args ...interface{})

	// Error logs an error message. Always shown to users on stderr
	// with the [ERROR] prefix in addition to being logged.
	Error(format string, args ...interface{})

	// User-facing logging methods (written to both file and stdout)

	// InfoToUser prints an informational message with the [INFO] prefix.
	InfoToUser(format string, args ...interface{})

	// WarningToUser prints a warning with the [WARN] prefix.
	WarningToUser(format string, args ...interface{})

	// Success prints a success message with the [OK] prefix.
	Success(format string, args ...interface{})

	// Step announces a pipeline step with the [STEP] prefix.
	Step(format string, args ...interface{})

	// Advisory prints a change-classification advisory tagged with the
	// category name, e.g. [DATA] or [API].
	Advisory(category string, format string, args ...interface{})

	// StatusMessage prints a plain status line with no prefix. Used for
	// passthrough output such as git status and log listings.
	StatusMessage(format string, args ...interface{})

	// Close ensures any buffered data is written and closes open log file handles.
	Close() error
}

// Fixed prefixes for each message class. Color is applied on top of these;
// when stdout is not a terminal fatih/color disables itself and the bare
// prefixes remain, which keeps output grep-able in scripts and tests.
const (
	prefixInfo    = "[INFO]"
	prefixWarn    = "[WARN]"
	prefixError   = "[ERROR]"
	prefixOK      = "[OK]"
	prefixStep    = "[STEP]"
	advisoryShape = "[%s]"
)

var (
	infoColor     = color.New(color.FgCyan)
	warnColor     = color.New(color.FgYellow)
	errorColor    = color.New(color.FgRed)
	successColor  = color.New(color.FgGreen)
	stepColor     = color.New(color.FgBlue, color.Bold)
	advisoryColor = color.New(color.FgMagenta, color.Bold)
)

// DefaultLogger provides structured logging capability and implements the Logger interface
type DefaultLogger struct {
	mu      sync.Mutex
	logger  *slog.Logger
	enabled bool
	logFile string
	verbose bool
	stdout  io.Writer
	stderr  io.Writer
	file    *os.File // Store file handle for closing
}

// New creates a new Logger instance
func New(enabled bool, logFile string, verbose bool) Logger {
	return NewWithOutput(enabled, logFile, verbose, os.Stdout, os.Stderr)
}

// NewWithOutput creates a DefaultLogger with custom output writers
func NewWithOutput(enabled bool, logFile string, verbose bool, stdout, stderr io.Writer) *DefaultLogger {
	var logger *slog.Logger

	opts := &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}

	var file *os.File

	if enabled {
		logDir := filepath.Dir(logFile)
		if logDir != "." {
			err := os.MkdirAll(logDir, 0755)
			if err != nil {
				_, _ = fmt.Fprintf(stderr, "%s Failed to create log directory: %v\n", prefixWarn, err)
			}
		}

		f, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err == nil {
			file = f
			fileHandler := slog.NewTextHandler(f, opts)
			logger = slog.New(fileHandler)
			_, _ = fmt.Fprintf(stdout, "%s Debug logging enabled. Logs will be written to: %s\n", prefixInfo, logFile)

			logger.Info("gitship debug logging started")
		} else {
			// Fallback to standard logger
			logger = slog.New(slog.NewTextHandler(stderr, opts))
			_, _ = fmt.Fprintf(stderr, "%s Failed to open log file: %v, using stderr instead\n", prefixWarn, err)
		}
	} else {
		// Setup non-file logger
		logger = slog.New(slog.NewTextHandler(stderr, opts))
	}

	return &DefaultLogger{
		logger:  logger,
		enabled: enabled,
		logFile: logFile,
		verbose: verbose,
		stdout:  stdout,
		stderr:  stderr,
		file:    file,
	}
}

// Info logs an informational message (file only)
func (l *DefaultLogger) Info(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.enabled {
		return
	}

	msg := fmt.Sprintf(format, args...)
	l.logger.Info(msg)
}

// InfoToUser logs an informational message to both file and stdout
func (l *DefaultLogger) InfoToUser(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	msg := fmt.Sprintf(format, args...)

	if l.enabled {
		l.logger.Info(msg)
	}

	_, _ = fmt.Fprintf(l.stdout, "%s %s\n", infoColor.Sprint(prefixInfo), msg)
}

// Success logs a success message to both file and stdout
func (l *DefaultLogger) Success(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	msg := fmt.Sprintf(format, args...)

	if l.enabled {
		l.logger.Info(msg)
	}

	_, _ = fmt.Fprintf(l.stdout, "%s %s\n", successColor.Sprint(prefixOK), msg)
}

// Step announces a pipeline step to both file and stdout
func (l *DefaultLogger) Step(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	msg := fmt.Sprintf(format, args...)

	if l.enabled {
		l.logger.Info(msg)
	}

	_, _ = fmt.Fprintf(l.stdout, "%s %s\n", stepColor.Sprint(prefixStep), msg)
}

// Advisory prints a classification advisory tagged with the category name
func (l *DefaultLogger) Advisory(category string, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	msg := fmt.Sprintf(format, args...)
	tag := fmt.Sprintf(advisoryShape, category)

	if l.enabled {
		l.logger.Info(msg, "category", category)
	}

	_, _ = fmt.Fprintf(l.stdout, "%s %s\n", advisoryColor.Sprint(tag), msg)
}

// Warning logs a warning message
func (l *DefaultLogger) Warning(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	msg := fmt.Sprintf(format, args...)

	if l.enabled {
		l.logger.Warn(msg)
	}

	// Always show the message to the user when verbose is on,
	// regardless of whether file logging is enabled
	if l.verbose {
		_, _ = fmt.Fprintf(l.stdout, "%s %s\n", warnColor.Sprint(prefixWarn), msg)
	}
}

// WarningToUser logs a warning message to both file and stdout
func (l *DefaultLogger) WarningToUser(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	msg := fmt.Sprintf(format, args...)

	if l.enabled {
		l.logger.Warn(msg)
	}

	_, _ = fmt.Fprintf(l.stdout, "%s %s\n", warnColor.Sprint(prefixWarn), msg)
}

// Error logs an error message
func (l *DefaultLogger) Error(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	msg := fmt.Sprintf(format, args...)

	if l.enabled {
		l.logger.Error(msg)
	}

	// Always show errors to the user regardless of debug status
	_, _ = fmt.Fprintf(l.stderr, "%s %s\n", errorColor.Sprint(prefixError), msg)
}

// StatusMessage prints a status message to stdout only (no logging)
func (l *DefaultLogger) StatusMessage(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	msg := fmt.Sprintf(format, args...)
	_, _ = fmt.Fprintln(l.stdout, msg)
}

// Close ensures any buffered data is written and closes open log file handles
func (l *DefaultLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file != nil {
		// Sync ensures any buffered data is flushed to disk before closing
		if err := l.file.Sync(); err != nil {
			return err
		}
		return l.file.Close()
	}
	return nil
}

// SetStdout sets a custom writer for user-facing stdout messages only.
// NOTE: This does not affect where structured log messages from slog are directed.
// This method is thread-safe and is primarily intended for testing.
func (l *DefaultLogger) SetStdout(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.stdout = w
}

// SetStderr sets a custom writer for user-facing stderr messages only.
// NOTE: This does not affect where structured log messages from slog are directed.
// This method is thread-safe and is primarily intended for testing.
func (l *DefaultLogger) SetStderr(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.stderr = w
}
