package vcs

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"
)

// Runner runs an external command and returns its stdout. A non-nil error means the command could not be started or exited non-zero; implementations return a
// *CommandErr in that case.
type Runner interface {
	Run(ctx context.Context, dir string, env []string, name string, args ...string) ([]byte, error)
}

// ExecRunner runs commands with os/exec. The zero value is ready to use.
type ExecRunner struct {
	Logger *slog.Logger // optional; commands are logged at Debug
}

// Run runs name with args in dir. env entries ("KEY=value") are added to the current process environment.
func (r ExecRunner) Run(ctx context.Context, dir string, env []string, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	if len(env) > 0 {
		cmd.Env = append(os.Environ(), env...)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	if r.Logger != nil {
		r.Logger.Debug("ran command", "cmd", name, "args", args, "dir", dir, "dur", time.Since(start), "ok", err == nil)
	}
	if err != nil {
		cerr := &CommandErr{Command: name, Args: args, Stderr: strings.TrimSpace(stderr.String()), ExitCode: -1, wrapped: err}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			cerr.ExitCode = exitErr.ExitCode()
		}
		return stdout.Bytes(), cerr
	}
	return stdout.Bytes(), nil
}
