// SPDX-License-Identifier: MPL-2.0

package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"mvdan.cc/sh/v3/shell"
	"mvdan.cc/sh/v3/syntax"
)

var (
	// ErrProcessFailed is the sentinel error wrapped by FailureError.
	ErrProcessFailed = errors.New("process failed")
	// ErrToolNotFound is returned when the executable is not on PATH.
	ErrToolNotFound = errors.New("tool not found")
)

type (
	// Command describes one external process invocation.
	Command struct {
		// Name is the executable, resolved through PATH.
		Name string
		Args []string
		// Dir is the working directory; empty means the current directory.
		Dir string
		// Env is appended to the current environment.
		Env []string
		// Stdout and Stderr, when set, also receive the output as it is produced.
		Stdout io.Writer
		Stderr io.Writer
	}

	// Result is the outcome of a finished process.
	Result struct {
		ExitCode int
		Stdout   string
		Stderr   string
	}

	// FailureError is returned when a process cannot start or exits non-zero.
	FailureError struct {
		// CommandLine is the shell-quoted command that failed.
		CommandLine string
		ExitCode    int
		Stderr      string
		// Err is the underlying start or wait error.
		Err error
	}

	// Runner executes commands. The pipeline depends on this interface so tests
	// can substitute a fake for the real toolchain.
	Runner interface {
		Run(ctx context.Context, cmd Command) (Result, error)
	}

	// RunnerFunc adapts a function to the Runner interface.
	RunnerFunc func(ctx context.Context, cmd Command) (Result, error)

	// ExecRunner runs commands with os/exec.
	ExecRunner struct{}
)

// Error implements the error interface.
func (e *FailureError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s exited with status %d", e.CommandLine, e.ExitCode)
	if e.Err != nil && !isExitError(e.Err) {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		sb.WriteString("\n")
		sb.WriteString(stderr)
	}
	return sb.String()
}

// Unwrap returns ErrProcessFailed and the underlying error.
func (e *FailureError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrProcessFailed}
	}
	return []error{ErrProcessFailed, e.Err}
}

// Run calls f(ctx, cmd).
func (f RunnerFunc) Run(ctx context.Context, cmd Command) (Result, error) {
	return f(ctx, cmd)
}

// Run implements Runner with Execute.
func (ExecRunner) Run(ctx context.Context, cmd Command) (Result, error) {
	return Execute(ctx, cmd)
}

// Execute runs cmd to completion and captures its output. A non-zero exit, a
// missing executable or a cancelled context yields a *FailureError; the
// Result is filled in either way.
func Execute(ctx context.Context, cmd Command) (Result, error) {
	var stdout, stderr bytes.Buffer

	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.Dir = cmd.Dir
	if len(cmd.Env) > 0 {
		c.Env = append(os.Environ(), cmd.Env...)
	}
	c.Stdout = teeTo(&stdout, cmd.Stdout)
	c.Stderr = teeTo(&stderr, cmd.Stderr)

	err := c.Run()
	result := Result{
		ExitCode: exitCode(err),
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
	}
	if err == nil {
		return result, nil
	}
	if errors.Is(err, exec.ErrNotFound) {
		err = fmt.Errorf("%w: %s: %w", ErrToolNotFound, cmd.Name, err)
	}
	return result, &FailureError{
		CommandLine: cmd.String(),
		ExitCode:    result.ExitCode,
		Stderr:      result.Stderr,
		Err:         err,
	}
}

// String returns the command line, shell-quoted so it can be pasted into a terminal.
func (c Command) String() string {
	words := make([]string, 0, len(c.Args)+1)
	for _, w := range append([]string{c.Name}, c.Args...) {
		words = append(words, quote(w))
	}
	return strings.Join(words, " ")
}

// SplitCommandLine splits a configured tool command such as "cargo +nightly"
// into its executable and leading arguments, using shell quoting rules.
// Variable references are expanded from the environment.
func SplitCommandLine(line string) (string, []string, error) {
	fields, err := shell.Fields(line, os.Getenv)
	if err != nil {
		return "", nil, fmt.Errorf("parse command %q: %w", line, err)
	}
	if len(fields) == 0 {
		return "", nil, fmt.Errorf("parse command %q: empty command", line)
	}
	return fields[0], fields[1:], nil
}

func quote(s string) string {
	if s != "" && !strings.ContainsAny(s, " \t\n'\"\\$`!*?[]{}()<>|&;#~") {
		return s
	}
	q, err := syntax.Quote(s, syntax.LangBash)
	if err != nil {
		return strconv.Quote(s)
	}
	return q
}

func teeTo(buf *bytes.Buffer, w io.Writer) io.Writer {
	if w == nil {
		return buf
	}
	return io.MultiWriter(buf, w)
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() > 0 {
		return exitErr.ExitCode()
	}
	// Not started, killed by a signal or cancelled.
	return 1
}

func isExitError(err error) bool {
	var exitErr *exec.ExitError
	return errors.As(err, &exitErr)
}
