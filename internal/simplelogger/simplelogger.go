// Package simplelogger builds the process logger. Logs go to the file named by DIFFTVIEW_LOG_FILE, never to the terminal, so they cannot interleave with diff
// output.
package simplelogger

import (
	"io"
	"log/slog"
	"os"
	"sync"
)

// EnvLogFile names the log file.
const EnvLogFile = "DIFFTVIEW_LOG_FILE"

// EnvLogLevel sets the minimum level ("debug", "info", "warn", "error"). Default: info.
const EnvLogLevel = "DIFFTVIEW_LOG_LEVEL"

// New returns a text logger appending to $DIFFTVIEW_LOG_FILE, and a func that closes the file. If the variable is unset/empty or the path can't be opened as a
// file, the logger discards everything and closeFn is a no-op.
func New() (logger *slog.Logger, closeFn func() error) {
	path := os.Getenv(EnvLogFile)
	if path == "" {
		return discard(), noClose
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return discard(), noClose
	}

	opts := &slog.HandlerOptions{Level: levelFromEnv()}
	return slog.New(slog.NewTextHandler(&lockedWriter{w: f}, opts)), f.Close
}

// lockedWriter serializes writes so concurrent workers don't interleave records.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

func levelFromEnv() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(os.Getenv(EnvLogLevel))); err != nil {
		return slog.LevelInfo
	}
	return level
}

func discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func noClose() error { return nil }
