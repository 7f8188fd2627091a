package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/signin/internal/ports"
)

type logEntry map[string]any

func TestLoggerInfoWithFields(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	log, err := New(Options{Level: "info", Writer: buf, Component: "form"})
	require.NoError(t, err)

	derived := log.With("identifier", "alice@example.com")
	derived.Info(context.Background(), "submission started", "attempt", 1)

	var entry logEntry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "submission started", entry["message"])
	require.Equal(t, "alice@example.com", entry["identifier"])
	require.Equal(t, "form", entry["component"])
	require.EqualValues(t, 1, entry["attempt"])
	require.Equal(t, "info", entry["level"])
}

func TestLoggerDebugRespectsLevel(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	log, err := New(Options{Level: "info", Writer: buf})
	require.NoError(t, err)

	log.Debug(context.Background(), "this should not appear")
	require.Equal(t, "", strings.TrimSpace(buf.String()))
}

func TestLoggerErrorIncludesContext(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	log, err := New(Options{Level: "debug", Writer: buf})
	require.NoError(t, err)

	ctx := ports.WithCorrelationID(context.Background(), "corr-1")
	log.Error(ctx, "lookup failed", "error", errors.New("boom"), "identifier", "bob")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry logEntry
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	require.Equal(t, "lookup failed", entry["message"])
	require.Equal(t, "boom", entry["error"])
	require.Equal(t, "corr-1", entry["correlation_id"])
	require.Equal(t, "bob", entry["identifier"])
}

func TestLoggerRejectsUnknownLevel(t *testing.T) {
	t.Parallel()

	_, err := New(Options{Level: "loud"})
	require.Error(t, err)
}

func TestLoggerHumanReadable(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	log, err := New(Options{Level: "info", HumanReadable: true, Writer: buf})
	require.NoError(t, err)

	log.Warn(context.Background(), "terminal too small")
	require.Contains(t, buf.String(), "terminal too small")
	require.Contains(t, buf.String(), "WRN")
}

func TestOpenFileCreatesDirectories(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "signin.log")
	f, err := OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	log, err := New(Options{Writer: f})
	require.NoError(t, err)
	log.Info(context.Background(), "written")
}

func TestNilAndNoOpLoggersAreSafe(t *testing.T) {
	t.Parallel()

	var log *Logger
	log.Info(context.Background(), "ignored")
	require.NotNil(t, log.With("k", "v"))

	noop := NewNoOp()
	noop.Error(context.Background(), "ignored")
	require.Equal(t, noop, noop.With("k", "v"))
}
