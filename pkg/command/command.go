// Package command runs the external tools nurl delegates to (nix, git) and
// captures their output.
//
// [Runner] is the seam between nurl and the host system: [Exec] runs real
// processes, while tests substitute a scripted fake so hashing strategies
// can be verified without nix installed.
package command

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

// Result holds the captured output of a finished process.
type Result struct {
	Stdout []byte
	Stderr []byte
}

// Runner starts a process and waits for it.
//
// Run returns the captured output even when the process exits non-zero, in
// which case err is an *ExitError. Callers that expect failure (the
// fixed-output build) inspect the Result rather than the error.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (Result, error)
}

// ExitError reports a process that ran but exited unsuccessfully.
type ExitError struct {
	Line   string // shell-quoted command line
	Code   int
	Stderr string
}

func (e *ExitError) Error() string {
	msg := fmt.Sprintf("%s exited with status %d", e.Line, e.Code)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

// Exec runs commands with os/exec.
type Exec struct {
	// Echo, when set, receives the shell-quoted command line before the
	// process starts.
	Echo func(line string)
}

// Run implements [Runner].
func (e *Exec) Run(ctx context.Context, name string, args ...string) (Result, error) {
	line := Line(name, args...)
	if e.Echo != nil {
		e.Echo(line)
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := Result{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}
	if err == nil {
		return res, nil
	}
	if ctx.Err() != nil {
		return res, ctx.Err()
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return res, &ExitError{
			Line:   line,
			Code:   exitErr.ExitCode(),
			Stderr: strings.TrimSpace(stderr.String()),
		}
	}
	return res, fmt.Errorf("%s: %w", line, err)
}

// Line renders name and args as a shell command line, quoting arguments
// that need it.
func Line(name string, args ...string) string {
	parts := make([]string, 0, len(args)+1)
	for _, s := range append([]string{name}, args...) {
		parts = append(parts, quote(s))
	}
	return strings.Join(parts, " ")
}

func quote(s string) string {
	q, err := syntax.Quote(s, syntax.LangBash)
	if err != nil {
		return strconv.Quote(s)
	}
	return q
}
