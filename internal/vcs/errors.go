package vcs

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// CommandErr is the error returned when an external command (git, jj, difft) fails to start or exits non-zero.
type CommandErr struct {
	Command  string   // program name, ex: "git"
	Args     []string // arguments passed to Command
	Stderr   string   // trimmed stderr, possibly empty
	ExitCode int      // -1 if the command did not run to completion
	wrapped  error
}

// Error returns a human-readable message naming the command and why it failed. Ex: `git command failed: fatal: bad revision 'nope' [args="diff nope"] via exit status 128`.
func (e *CommandErr) Error() string {
	var b strings.Builder
	b.WriteString(e.Command)
	b.WriteString(" command failed")
	if e.Stderr != "" {
		b.WriteString(": ")
		b.WriteString(e.Stderr)
	}
	if len(e.Args) > 0 {
		fmt.Fprintf(&b, " [args=%q]", strings.Join(e.Args, " "))
	}
	if e.wrapped != nil {
		b.WriteString(" via ")
		b.WriteString(e.wrapped.Error())
	}
	return b.String()
}

// Unwrap returns the underlying cause (ex: *exec.ExitError or exec.ErrNotFound).
func (e *CommandErr) Unwrap() error {
	return e.wrapped
}

// LogErr logs err to logger at Error level and returns err. CommandErrs are logged with structured attrs (cmd, args, stderr, exit_code, via); other errors with their
// message. A nil logger or nil err is a no-op.
func LogErr(logger *slog.Logger, err error, args ...any) error {
	if logger == nil || err == nil {
		return err
	}

	var cerr *CommandErr
	if !errors.As(err, &cerr) {
		logger.Error(err.Error(), args...)
		return err
	}

	allArgs := make([]any, 0, len(args)+10)
	allArgs = append(allArgs, "cmd", cerr.Command, "args", cerr.Args, "exit_code", cerr.ExitCode)
	if cerr.Stderr != "" {
		allArgs = append(allArgs, "stderr", cerr.Stderr)
	}
	if cerr.wrapped != nil {
		allArgs = append(allArgs, slog.String("via", cerr.wrapped.Error()))
	}
	allArgs = append(allArgs, args...)

	logger.Error("external command failed", allArgs...)
	return err
}
