// Package cli implements the nurl command-line interface.
//
// nurl has a single root command that takes a repository URL and an
// optional revision, resolves the matching Nix fetcher, prefetches its hash
// and prints the call. The only subcommand generates shell completions.
//
// # Logging
//
// Logs go to stderr through charmbracelet/log. Every external command is
// echoed at info level before it runs; --verbose (-v) adds debug output and
// --quiet (-q) restricts logging to errors. The logger is passed to the
// command through its context.
//
// # Configuration
//
// Defaults for --fallback, --nixpkgs and --indent, and API tokens, can be
// kept in $XDG_CONFIG_HOME/nurl/config.toml. Flags given on the command line
// win over the file; token environment variables win over both.
package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"

	"github.com/matzehuels/nurl/pkg/command"
	"github.com/matzehuels/nurl/pkg/fetcher"
	"github.com/matzehuels/nurl/pkg/nix"
	"github.com/matzehuels/nurl/pkg/pipeline"
	"github.com/matzehuels/nurl/pkg/vcs"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "nurl"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
	LogError = log.ErrorLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Stdout receives results; logs always go to the logger.
	Stdout io.Writer
	// Getenv reads token variables; os.Getenv when nil.
	Getenv func(string) string

	// Prefetcher and Revisions replace the nix and network back-ends
	// when set.
	Prefetcher fetcher.Prefetcher
	Revisions  pipeline.RevisionSource
}

// New creates a new CLI instance that logs to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Stdout: os.Stdout,
		Getenv: os.Getenv,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use. External commands are
// echoed to the log before they run.
func (c *CLI) newRunner(logger *log.Logger, creds pipeline.Credentials) *pipeline.Runner {
	exec := &command.Exec{Echo: commandEcho(logger)}

	p := c.Prefetcher
	if p == nil {
		p = nix.NewPrefetcher(exec, logger)
	}
	revs := c.Revisions
	if revs == nil {
		revs = &pipeline.Remote{Credentials: creds, Git: &vcs.Git{Runner: exec}}
	}
	return pipeline.NewRunner(p, revs, logger)
}

// =============================================================================
// Paths
// =============================================================================

// configPath returns the default config file using XDG standard
// (~/.config/nurl/config.toml).
func (c *CLI) configPath() (string, error) {
	if configHome := c.getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

func (c *CLI) getenv(key string) string {
	if c.Getenv == nil {
		return os.Getenv(key)
	}
	return c.Getenv(key)
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
