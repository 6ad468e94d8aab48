//go:build unix

package check

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/backmassage/framecast/internal/config"
)

// recLogger records messages per level.
type recLogger struct {
	lines []string
}

func (l *recLogger) add(level, format string, args ...interface{}) {
	l.lines = append(l.lines, level+" "+fmt.Sprintf(format, args...))
}

func (l *recLogger) Info(f string, a ...interface{})    { l.add("INFO", f, a...) }
func (l *recLogger) Success(f string, a ...interface{}) { l.add("OK", f, a...) }
func (l *recLogger) Warn(f string, a ...interface{})    { l.add("WARN", f, a...) }
func (l *recLogger) Error(f string, a ...interface{})   { l.add("ERROR", f, a...) }
func (l *recLogger) Debug(f string, a ...interface{})   { l.add("DEBUG", f, a...) }

func (l *recLogger) text() string { return strings.Join(l.lines, "\n") }

// fakeTool writes a script that answers -version and -encoders and
// succeeds for anything else unless failEncode is set.
func fakeTool(t *testing.T, dir, name, encoders string, failEncode bool) string {
	t.Helper()
	encode := "exit 0"
	if failEncode {
		encode = "exit 1"
	}
	script := fmt.Sprintf(`#!/bin/sh
case "$1" in
-version) echo "%s version 6.1-test"; echo "built with gcc"; exit 0;;
esac
for a in "$@"; do
  if [ "$a" = "-encoders" ]; then
    cat <<'OUT'
%sOUT
    exit 0
  fi
done
%s
`, name, encoders, encode)
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

func testConfig(t *testing.T, encoders string, failEncode bool) *config.Config {
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.FFmpegPath = fakeTool(t, dir, "ffmpeg", encoders, failEncode)
	cfg.FFprobePath = fakeTool(t, dir, "ffprobe", "", false)
	return &cfg
}

func TestCheckDeps(t *testing.T) {
	cfg := testConfig(t, encodersOutput, false)
	assert.NoError(t, CheckDeps(cfg))
}

func TestCheckDeps_MissingTools(t *testing.T) {
	cfg := testConfig(t, encodersOutput, false)
	cfg.FFprobePath = filepath.Join(t.TempDir(), "nope")
	assert.ErrorIs(t, CheckDeps(cfg), ErrFfprobeNotFound)

	cfg.FFmpegPath = filepath.Join(t.TempDir(), "nope")
	assert.ErrorIs(t, CheckDeps(cfg), ErrFfmpegNotFound)
}

func TestCheckDeps_MissingEncoder(t *testing.T) {
	partial := strings.Replace(encodersOutput, " V....D apng ", " V....D xpng ", 1)
	cfg := testConfig(t, partial, false)
	err := CheckDeps(cfg)
	assert.ErrorIs(t, err, ErrMissingEncoder)
	assert.Contains(t, err.Error(), "apng")
}

func TestRunCheck(t *testing.T) {
	cfg := testConfig(t, encodersOutput, false)
	log := &recLogger{}
	assert.True(t, RunCheck(cfg, log))
	out := log.text()
	assert.Contains(t, out, "OK ffmpeg: ffmpeg version 6.1-test")
	assert.Contains(t, out, "OK ffprobe: ffprobe version 6.1-test")
	assert.Contains(t, out, "OK   apng")
	assert.Contains(t, out, "OK GIF palette encode works")
}

func TestRunCheck_ReportsFailures(t *testing.T) {
	cfg := testConfig(t, encodersOutput, true)
	log := &recLogger{}
	assert.False(t, RunCheck(cfg, log))
	assert.Contains(t, log.text(), "ERROR GIF palette test encode failed")

	cfg.FFmpegPath = filepath.Join(t.TempDir(), "nope")
	log = &recLogger{}
	assert.False(t, RunCheck(cfg, log))
	assert.Contains(t, log.text(), "ERROR ffmpeg not found")
}
