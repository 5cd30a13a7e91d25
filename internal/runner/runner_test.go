package runner

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"testing"

	"github.com/Iron-Ham/shortcuts/internal/errors"
)

// helperCommand re-executes the test binary as a fake collaborator.
func helperCommand(mode string, extra ...string) []string {
	args := []string{os.Args[0], "-test.run=TestHelperProcess", "--", mode}
	return append(args, extra...)
}

func helperEnv() Option {
	return WithEnv("SHORTCUTS_WANT_HELPER_PROCESS=1")
}

func TestHelperProcess(t *testing.T) {
	if os.Getenv("SHORTCUTS_WANT_HELPER_PROCESS") != "1" {
		return
	}
	args := os.Args
	for len(args) > 0 && args[0] != "--" {
		args = args[1:]
	}
	if len(args) < 2 {
		os.Exit(2)
	}
	switch args[1] {
	case "echo":
		fmt.Fprintln(os.Stdout, strings.Join(args[2:], " "))
		fmt.Fprintln(os.Stderr, "to stderr")
		os.Exit(0)
	case "cat":
		data, _ := readAll()
		fmt.Fprint(os.Stdout, data)
		os.Exit(0)
	case "fail":
		fmt.Fprintln(os.Stderr, "boom")
		os.Exit(3)
	case "env":
		fmt.Fprint(os.Stdout, os.Getenv("SHORTCUTS_RUNNER_EXTRA"))
		os.Exit(0)
	}
	os.Exit(2)
}

func readAll() (string, error) {
	var buf bytes.Buffer
	_, err := buf.ReadFrom(os.Stdin)
	return buf.String(), err
}

func TestOutput_Success(t *testing.T) {
	r := New(nil, helperEnv())
	res, err := r.Output(helperCommand("echo", "sync", "done"))
	if err != nil {
		t.Fatalf("Output() error = %v", err)
	}
	if res.ExitCode != 0 {
		t.Errorf("ExitCode = %d, want 0", res.ExitCode)
	}
	if res.Stdout != "sync done\n" {
		t.Errorf("Stdout = %q", res.Stdout)
	}
	if res.Stderr != "to stderr\n" {
		t.Errorf("Stderr = %q", res.Stderr)
	}
}

func TestOutput_NonZeroExit(t *testing.T) {
	r := New(nil, helperEnv())
	res, err := r.Output(helperCommand("fail"))
	if !errors.Is(err, errors.ErrProcessFailed) {
		t.Fatalf("Output() error = %v, want ErrProcessFailed", err)
	}

	var procErr *errors.ProcessError
	if !errors.As(err, &procErr) {
		t.Fatalf("error should be *ProcessError, got %T", err)
	}
	if procErr.ExitCode != 3 || res.ExitCode != 3 {
		t.Errorf("exit code = %d/%d, want 3", procErr.ExitCode, res.ExitCode)
	}
	if res.Stderr != "boom\n" {
		t.Errorf("Stderr = %q", res.Stderr)
	}
}

func TestRun_MissingExecutable(t *testing.T) {
	r := New(nil)
	_, err := r.Run([]string{"shortcuts-definitely-not-installed-xyz"})
	if err == nil {
		t.Fatal("Run() should fail for a missing executable")
	}
	if !errors.Is(err, exec.ErrNotFound) {
		t.Errorf("Run() error = %v, want exec.ErrNotFound in chain", err)
	}
	var procErr *errors.ProcessError
	if !errors.As(err, &procErr) || procErr.ExitCode != -1 {
		t.Errorf("error = %#v, want *ProcessError with exit -1", err)
	}
}

func TestRun_EmptyCommand(t *testing.T) {
	_, err := New(nil).Run(nil)
	if !errors.Is(err, errors.ErrInvalidInput) {
		t.Errorf("Run(nil) error = %v, want ErrInvalidInput", err)
	}
}

func TestRun_StreamsStdio(t *testing.T) {
	var stdout, stderr bytes.Buffer
	r := New(nil, helperEnv(), WithStdio(strings.NewReader("typed input"), &stdout, &stderr))

	if _, err := r.Run(helperCommand("cat")); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if stdout.String() != "typed input" {
		t.Errorf("stdout = %q, want %q", stdout.String(), "typed input")
	}
}

func TestRun_WithEnvAndDir(t *testing.T) {
	dir := t.TempDir()
	r := New(nil, helperEnv(), WithEnv("SHORTCUTS_RUNNER_EXTRA=yes"), WithDir(dir))

	res, err := r.Output(helperCommand("env"))
	if err != nil {
		t.Fatalf("Output() error = %v", err)
	}
	if res.Stdout != "yes" {
		t.Errorf("Stdout = %q, want %q", res.Stdout, "yes")
	}
}

func TestCommand_LeavesStdioUnset(t *testing.T) {
	dir := t.TempDir()
	cmd, err := New(nil, WithEnv("SHORTCUTS_STORE_PATH=/tmp/s.json"), WithDir(dir)).
		Command([]string{"shortcuts", "agent", "manual"})
	if err != nil {
		t.Fatalf("Command() error = %v", err)
	}
	if cmd.Dir != dir {
		t.Errorf("Dir = %q, want %q", cmd.Dir, dir)
	}
	if got := cmd.Env[len(cmd.Env)-1]; got != "SHORTCUTS_STORE_PATH=/tmp/s.json" {
		t.Errorf("last Env entry = %q", got)
	}
	if cmd.Stdin != nil || cmd.Stdout != nil || cmd.Stderr != nil {
		t.Error("Command() should not attach stdio")
	}

	if _, err := New(nil).Command([]string{""}); !errors.Is(err, errors.ErrInvalidInput) {
		t.Errorf("Command(\"\") error = %v, want ErrInvalidInput", err)
	}
}
