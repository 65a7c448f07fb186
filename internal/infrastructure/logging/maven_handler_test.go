package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMavenHandler_Format(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewMavenHandler(&buf, nil))

	logger.Info("reconciliation complete", "matches", 42)

	line := buf.String()
	assert.Contains(t, line, "[INFO]")
	assert.Contains(t, line, "reconciliation complete")
	assert.Contains(t, line, "matches=42")
	// Buffer is not a terminal, so no ANSI escapes.
	assert.NotContains(t, line, "\033[")
}

func TestMavenHandler_SystemPrefix(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewMavenHandler(&buf, nil)).With("system", "engine")

	logger.Warn("tolerance exceeded")

	line := buf.String()
	assert.Contains(t, line, "[WARN]")
	assert.Contains(t, line, "[engine]")
	assert.NotContains(t, line, "system=engine")
}

func TestMavenHandler_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	opts := &slog.HandlerOptions{Level: slog.LevelWarn}
	logger := slog.New(NewMavenHandler(&buf, opts))

	logger.Info("hidden")
	logger.Error("shown")

	require.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}
