// Package runner launches collaborator programs such as the cloud sync and
// the interactive agent. Calls block until the program exits; there is no
// timeout and no cancellation once a program has started.
package runner

import (
	"bytes"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/Iron-Ham/shortcuts/internal/errors"
	"github.com/Iron-Ham/shortcuts/internal/logging"
)

// Result describes a finished collaborator run.
type Result struct {
	Command  string
	ExitCode int
	Stdout   string
	Stderr   string
	Duration time.Duration
}

// Runner executes external programs.
type Runner struct {
	logger *logging.Logger
	dir    string
	env    []string
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

// Option configures a Runner.
type Option func(*Runner)

// WithDir sets the working directory for launched programs.
func WithDir(dir string) Option {
	return func(r *Runner) { r.dir = dir }
}

// WithEnv appends KEY=VALUE pairs to the inherited environment.
func WithEnv(env ...string) Option {
	return func(r *Runner) { r.env = append(r.env, env...) }
}

// WithStdio replaces the streams used by Run. Nil values keep the default.
func WithStdio(stdin io.Reader, stdout, stderr io.Writer) Option {
	return func(r *Runner) {
		if stdin != nil {
			r.stdin = stdin
		}
		if stdout != nil {
			r.stdout = stdout
		}
		if stderr != nil {
			r.stderr = stderr
		}
	}
}

// New creates a Runner attached to the process's own stdio.
func New(logger *logging.Logger, opts ...Option) *Runner {
	if logger == nil {
		logger = logging.NopLogger()
	}
	r := &Runner{
		logger: logger.WithComponent("runner"),
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Command prepares args with the runner's directory and environment. Stdio
// is left unset for callers that attach their own, such as a TUI handing
// over the terminal.
func (r *Runner) Command(args []string) (*exec.Cmd, error) {
	if len(args) == 0 || args[0] == "" {
		return nil, errors.NewProcessError("no command given", errors.ErrInvalidInput)
	}
	cmd := exec.Command(args[0], args[1:]...)
	cmd.Dir = r.dir
	if len(r.env) > 0 {
		cmd.Env = append(os.Environ(), r.env...)
	}
	return cmd, nil
}

// Run executes args with the runner's stdio attached, so interactive
// programs can talk to the user directly.
func (r *Runner) Run(args []string) (Result, error) {
	cmd, err := r.Command(args)
	if err != nil {
		return Result{ExitCode: -1}, err
	}
	cmd.Stdin = r.stdin
	cmd.Stdout = r.stdout
	cmd.Stderr = r.stderr
	return r.wait(cmd, args, nil, nil)
}

// Output executes args and captures stdout and stderr. Stdin is empty.
func (r *Runner) Output(args []string) (Result, error) {
	cmd, err := r.Command(args)
	if err != nil {
		return Result{ExitCode: -1}, err
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	return r.wait(cmd, args, &stdout, &stderr)
}

func (r *Runner) wait(cmd *exec.Cmd, args []string, stdout, stderr *bytes.Buffer) (Result, error) {
	line := strings.Join(args, " ")
	res := Result{Command: line, ExitCode: -1}

	r.logger.Info("starting collaborator", "command", line)
	start := time.Now()
	err := cmd.Run()
	res.Duration = time.Since(start)
	if stdout != nil {
		res.Stdout = stdout.String()
		res.Stderr = stderr.String()
	}
	if cmd.ProcessState != nil {
		res.ExitCode = cmd.ProcessState.ExitCode()
	}

	if err == nil {
		r.logger.Info("collaborator finished", "command", line, "duration_ms", res.Duration.Milliseconds())
		return res, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		r.logger.Warn("collaborator exited with error",
			"command", line,
			"exit_code", res.ExitCode,
			"stderr", strings.TrimSpace(res.Stderr),
		)
		return res, errors.NewProcessError("collaborator exited unsuccessfully", errors.ErrProcessFailed).
			WithCommand(line).WithExitCode(res.ExitCode)
	}

	r.logger.Error("collaborator failed to start", "command", line, "error", err)
	return res, errors.NewProcessError("collaborator failed to start", err).WithCommand(line)
}
