// SPDX-License-Identifier: MPL-2.0

package process

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"testing"
)

func requireShell(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func TestExecuteSuccess(t *testing.T) {
	t.Parallel()
	requireShell(t)

	var live bytes.Buffer
	res, err := Execute(t.Context(), Command{
		Name:   "sh",
		Args:   []string{"-c", "echo hello; echo warn >&2; pwd"},
		Dir:    t.TempDir(),
		Stdout: &live,
	})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if res.ExitCode != 0 {
		t.Errorf("ExitCode = %d, want 0", res.ExitCode)
	}
	if !strings.HasPrefix(res.Stdout, "hello\n") || strings.TrimSpace(res.Stderr) != "warn" {
		t.Errorf("unexpected output: stdout=%q stderr=%q", res.Stdout, res.Stderr)
	}
	if live.String() != res.Stdout {
		t.Errorf("streamed stdout %q differs from captured %q", live.String(), res.Stdout)
	}
}

func TestExecuteEnv(t *testing.T) {
	t.Parallel()
	requireShell(t)

	res, err := Execute(t.Context(), Command{Name: "sh", Args: []string{"-c", "printf %s \"$SWIFTPACK_TEST\""}, Env: []string{"SWIFTPACK_TEST=1"}})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if res.Stdout != "1" {
		t.Errorf("Stdout = %q, want %q", res.Stdout, "1")
	}
}

func TestExecuteNonZeroExit(t *testing.T) {
	t.Parallel()
	requireShell(t)

	res, err := Execute(t.Context(), Command{Name: "sh", Args: []string{"-c", "echo broken >&2; exit 3"}})
	if res.ExitCode != 3 {
		t.Errorf("ExitCode = %d, want 3", res.ExitCode)
	}

	var failure *FailureError
	if !errors.As(err, &failure) {
		t.Fatalf("expected *FailureError, got %v", err)
	}
	if !errors.Is(err, ErrProcessFailed) {
		t.Error("FailureError should wrap ErrProcessFailed")
	}
	if failure.ExitCode != 3 || strings.TrimSpace(failure.Stderr) != "broken" {
		t.Errorf("unexpected failure: %+v", failure)
	}
	if failure.CommandLine != `sh -c 'echo broken >&2; exit 3'` {
		t.Errorf("CommandLine = %q", failure.CommandLine)
	}
	if !strings.Contains(err.Error(), "exited with status 3\nbroken") {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestExecuteToolNotFound(t *testing.T) {
	t.Parallel()

	_, err := Execute(t.Context(), Command{Name: "swiftpack-definitely-missing-tool"})
	if !errors.Is(err, ErrToolNotFound) || !errors.Is(err, ErrProcessFailed) {
		t.Errorf("expected ErrToolNotFound and ErrProcessFailed, got %v", err)
	}
}

func TestExecuteCancelledContext(t *testing.T) {
	t.Parallel()
	requireShell(t)

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	res, err := Execute(ctx, Command{Name: "sh", Args: []string{"-c", "exit 0"}})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if res.ExitCode != 1 {
		t.Errorf("ExitCode = %d, want 1", res.ExitCode)
	}
}

func TestCommandString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		cmd  Command
		want string
	}{
		{Command{Name: "cargo", Args: []string{"build", "--target", "aarch64-apple-ios"}}, "cargo build --target aarch64-apple-ios"},
		{Command{Name: "lipo", Args: []string{"-create", "my lib.a"}}, "lipo -create 'my lib.a'"},
		{Command{Name: "echo", Args: []string{""}}, "echo ''"},
	}

	for _, tt := range tests {
		if got := tt.cmd.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestSplitCommandLine(t *testing.T) {
	t.Parallel()

	name, args, err := SplitCommandLine("cargo +nightly")
	if err != nil || name != "cargo" || len(args) != 1 || args[0] != "+nightly" {
		t.Errorf("SplitCommandLine() = %q, %v, %v", name, args, err)
	}

	name, args, err = SplitCommandLine(`xcrun 'swift build'`)
	if err != nil || name != "xcrun" || len(args) != 1 || args[0] != "swift build" {
		t.Errorf("SplitCommandLine() = %q, %v, %v", name, args, err)
	}

	if _, _, err := SplitCommandLine("   "); err == nil {
		t.Error("expected error for empty command")
	}
	if _, _, err := SplitCommandLine(`cargo "unterminated`); err == nil {
		t.Error("expected error for unterminated quote")
	}
}

func TestRunnerFunc(t *testing.T) {
	t.Parallel()

	var got Command
	r := RunnerFunc(func(_ context.Context, cmd Command) (Result, error) {
		got = cmd
		return Result{Stdout: "ok"}, nil
	})
	res, err := r.Run(t.Context(), Command{Name: "xcodebuild"})
	if err != nil || res.Stdout != "ok" || got.Name != "xcodebuild" {
		t.Errorf("RunnerFunc.Run() = %+v, %v", res, err)
	}
}
