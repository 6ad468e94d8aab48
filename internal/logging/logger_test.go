package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/backmassage/framecast/internal/config"
)

func TestNewLogger_NoFile(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.ColorMode = config.ColorNever
	l, err := NewLogger(&cfg)
	require.NoError(t, err)
	defer l.Close()
	l.Info("test message")
}

func TestNewLogger_WithFile(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.ColorMode = config.ColorNever
	cfg.LogFile = filepath.Join(t.TempDir(), "logs", "framecast.log")
	l, err := NewLogger(&cfg)
	require.NoError(t, err)

	l.Info("to file")
	require.NoError(t, l.Close())

	b, err := os.ReadFile(cfg.LogFile)
	require.NoError(t, err)
	assert.Contains(t, string(b), "[INFO] to file")
}

func TestLogger_DebugRequiresVerbose(t *testing.T) {
	var buf bytes.Buffer
	NewWriterLogger(&buf, false).Debug("hidden %d", 1)
	assert.Empty(t, buf.String())

	NewWriterLogger(&buf, true).Debug("shown %d", 2)
	assert.Contains(t, buf.String(), "[DEBUG] shown 2")
}

func TestLogger_LevelsAndFormat(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriterLogger(&buf, false)
	l.Success("done")
	l.Warn("careful")
	l.Error("broken %s", "pipe")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "[SUCCESS] done")
	assert.Contains(t, lines[1], "[WARN] careful")
	assert.Contains(t, lines[2], "[ERROR] broken pipe")
	// "2006-01-02 15:04:05 " prefix
	assert.Equal(t, byte(' '), lines[0][19])
}

func TestLogger_SetConsole(t *testing.T) {
	var first, second bytes.Buffer
	l := NewWriterLogger(&first, false)
	l.Info("before")
	l.SetConsole(&second, &second)
	l.Info("after")
	l.Error("failed")

	assert.Contains(t, first.String(), "[INFO] before")
	assert.NotContains(t, first.String(), "after")
	assert.Contains(t, second.String(), "[INFO] after")
	assert.Contains(t, second.String(), "[ERROR] failed")
}
