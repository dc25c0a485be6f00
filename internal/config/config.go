package config

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"github.com/gitship/gitship/internal/errors"
)

const (
	// DefaultRemote is the remote that receives the push step.
	DefaultRemote = "origin"

	// DefaultEnvFile is the optional per-repository env file loaded before
	// environment variables are read.
	DefaultEnvFile = ".gitship.env"

	// DefaultRulesFile is the optional per-repository classification rules
	// file. It is only consulted when present.
	DefaultRulesFile = ".gitship.yaml"

	// DefaultHistoryCount is how many one-line log entries the history
	// display shows.
	DefaultHistoryCount = 5
)

// Config holds all gitship application settings
type Config struct {
	// Repository configuration
	RepoPath string
	Remote   string

	// Message is the commit message supplied as the positional argument.
	// Empty means "generate the default timestamped message at commit time".
	Message string

	// Pipeline behavior
	SkipTests    bool
	HistoryCount int

	// RulesFile points at the classification rules file. Empty means the
	// built-in rules apply unless DefaultRulesFile exists in the repo root.
	RulesFile string

	// User experience
	Verbose bool

	// Debugging
	Debug   bool
	LogFile string

	// Build metadata
	VersionInfo VersionInfo
}

// VersionInfo contains build-time version metadata
type VersionInfo struct {
	Version string
	Commit  string
	Date    string
}

// New creates a new Config with default values
func New() *Config {
	return &Config{
		Remote:       DefaultRemote,
		HistoryCount: DefaultHistoryCount,
		Verbose:      true,

		// Default version info, will be overridden if provided
		VersionInfo: VersionInfo{
			Version: "dev",
			Commit:  "unknown",
			Date:    "unknown",
		},
	}
}

// LoadEnvFile loads the optional per-repository env file into the process
// environment. Existing variables are never overwritten, so the real
// environment always wins over the file. A missing file is not an error.
func (c *Config) LoadEnvFile(path string) error {
	if path == "" {
		path = DefaultEnvFile
	}
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return errors.NewConfigError("envFile", path,
			errors.Wrap(errors.ErrInvalidConfiguration, err.Error()))
	}
	return nil
}

// LoadFromEnvironment updates config from GITSHIP_* environment variables
func (c *Config) LoadFromEnvironment() {
	c.RepoPath = getEnvString("GITSHIP_REPO", c.RepoPath)
	c.Remote = getEnvString("GITSHIP_REMOTE", c.Remote)
	c.SkipTests = getEnvBool("GITSHIP_SKIP_TESTS", c.SkipTests)
	c.Verbose = getEnvBool("GITSHIP_VERBOSE", c.Verbose)
	c.Debug = getEnvBool("GITSHIP_DEBUG", c.Debug)
	c.LogFile = getEnvString("GITSHIP_LOG_FILE", c.LogFile)
	c.RulesFile = getEnvString("GITSHIP_RULES_FILE", c.RulesFile)
}

// Finalize validates and finalizes the configuration
func (c *Config) Finalize() error {
	if c.RepoPath == "" {
		var err error
		c.RepoPath, err = os.Getwd()
		if err != nil {
			return errors.NewConfigError("repoPath", "", errors.Wrap(errors.ErrInvalidConfiguration, fmt.Sprintf("failed to get current directory: %v", err)))
		}
	}

	absRepoPath, err := filepath.Abs(c.RepoPath)
	if err != nil {
		return errors.NewConfigError("repoPath", c.RepoPath, errors.Wrap(errors.ErrInvalidConfiguration, fmt.Sprintf("failed to resolve absolute path: %v", err)))
	}
	c.RepoPath = absRepoPath

	if c.Remote == "" {
		return errors.NewConfigError("remote", "", errors.Wrap(errors.ErrInvalidConfiguration, "remote name must not be empty"))
	}

	if c.HistoryCount < 1 {
		return errors.NewConfigError("historyCount", c.HistoryCount, errors.Wrap(errors.ErrInvalidConfiguration, "history count must be at least 1"))
	}

	if c.LogFile == "" {
		// Follow XDG Base Directory Specification
		logDir := os.Getenv("XDG_DATA_HOME")
		if logDir == "" {
			// Default XDG data home if not set
			homeDir, err := os.UserHomeDir()
			if err == nil {
				logDir = filepath.Join(homeDir, ".local", "share")
			} else {
				// Fallback to the temp directory if home dir can't be determined
				logDir = os.TempDir()
			}
		}

		// Create a unique identifier for the repository
		repoHash := fmt.Sprintf("%x", sha256OfString(c.RepoPath)[:8])

		// Final log directory and file
		gitshipLogDir := filepath.Join(logDir, "gitship", "logs")
		c.LogFile = filepath.Join(gitshipLogDir, fmt.Sprintf("gitship-%s.log", repoHash))
	}

	// Resolve the rules file against the repo root; keep it empty when the
	// default file does not exist so the built-in rules apply.
	if c.RulesFile == "" {
		candidate := filepath.Join(c.RepoPath, DefaultRulesFile)
		if _, err := os.Stat(candidate); err == nil {
			c.RulesFile = candidate
		}
	} else if !filepath.IsAbs(c.RulesFile) {
		c.RulesFile = filepath.Join(c.RepoPath, c.RulesFile)
	}

	return nil
}

// getEnvString returns an environment variable string or a default value
func getEnvString(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvBool returns an environment variable as bool or a default value
func getEnvBool(key string, defaultValue bool) bool {
	if valueStr, exists := os.LookupEnv(key); exists {
		valueLower := strings.ToLower(valueStr)
		if valueLower == "true" || valueLower == "1" || valueLower == "yes" {
			return true
		}
		if valueLower == "false" || valueLower == "0" || valueLower == "no" {
			return false
		}
		// For any other value, fall back to default
	}
	return defaultValue
}

// sha256OfString returns the SHA256 hash of a string
func sha256OfString(input string) []byte {
	hash := sha256.Sum256([]byte(input))
	return hash[:]
}
