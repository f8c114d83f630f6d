package simplelogger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNew_WritesAndAppends(t *testing.T) {
	t.Setenv(EnvLogFile, filepath.Join(t.TempDir(), "difftview.log"))
	t.Setenv(EnvLogLevel, "")

	logger, closeFn := New()
	logger.Info("hello", "who", "world")
	logger.Debug("hidden")
	require.NoError(t, closeFn())

	logger, closeFn = New()
	logger.Warn("again", "n", 123)
	require.NoError(t, closeFn())

	b, err := os.ReadFile(os.Getenv(EnvLogFile))
	require.NoError(t, err)
	s := string(b)
	require.Contains(t, s, "msg=hello who=world")
	require.Contains(t, s, "level=WARN msg=again n=123")
	require.NotContains(t, s, "hidden")
}

func TestNew_DebugLevel(t *testing.T) {
	t.Setenv(EnvLogFile, filepath.Join(t.TempDir(), "difftview.log"))
	t.Setenv(EnvLogLevel, "debug")

	logger, closeFn := New()
	logger.Debug("visible")
	require.NoError(t, closeFn())

	b, err := os.ReadFile(os.Getenv(EnvLogFile))
	require.NoError(t, err)
	require.Contains(t, string(b), "level=DEBUG msg=visible")
}

func TestNew_NoOpWhenUnset(t *testing.T) {
	t.Setenv(EnvLogFile, "")
	logger, closeFn := New()
	logger.Info("should not panic")
	require.NoError(t, closeFn())
}

func TestNew_NoOpWhenPathIsDirectory(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(EnvLogFile, dir)

	logger, closeFn := New()
	logger.Info("ignored", "n", 1)
	require.NoError(t, closeFn())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Empty(t, entries)
}
