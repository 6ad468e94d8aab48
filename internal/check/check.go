// Package check provides system diagnostics (framecast check) and
// pre-conversion dependency validation (CheckDeps) for ffmpeg, ffprobe and
// the gif, apng and png encoders.
package check

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/backmassage/framecast/internal/config"
)

// Sentinel errors returned by CheckDeps when a required tool or encoder is missing.
var (
	ErrFfmpegNotFound  = errors.New("ffmpeg not found")
	ErrFfprobeNotFound = errors.New("ffprobe not found")
	ErrMissingEncoder  = errors.New("ffmpeg lacks a required encoder")
)

// RequiredEncoders are the ffmpeg encoders used by the export formats.
var RequiredEncoders = []string{"gif", "apng", "png"}

// Logger is the minimal logging interface needed by RunCheck.
// Defined here (rather than importing the logging package) so that check
// remains dependency-light and testable with a mock logger.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
	Debug(string, ...interface{})
}

// RunCheck runs the interactive check flow: prints the ffmpeg and ffprobe
// versions, the availability of each required encoder, and the result of a
// short palette GIF test encode. It is informational only and reports
// whether everything passed.
func RunCheck(cfg *config.Config, log Logger) bool {
	log.Info("=== System Check ===")

	ok := checkTool(log, "ffmpeg", cfg.FFmpegPath)
	ok = checkTool(log, "ffprobe", cfg.FFprobePath) && ok
	if !ok {
		return false
	}

	ok = checkEncoders(log, cfg.FFmpegPath)
	log.Info("Testing GIF palette encode...")
	if runSilent(cfg.FFmpegPath, gifTestArgs()...) {
		log.Success("GIF palette encode works")
	} else {
		log.Error("GIF palette test encode failed")
		ok = false
	}
	return ok
}

// checkTool resolves bin and logs the first line of its -version output.
func checkTool(log Logger, name, bin string) bool {
	path, err := exec.LookPath(bin)
	if err != nil {
		log.Error("%s not found (%s)", name, bin)
		return false
	}
	log.Debug("%s resolved to %s", name, path)
	version, err := Version(path)
	if err != nil {
		log.Warn("%s found but -version failed: %v", name, err)
		return false
	}
	log.Success("%s: %s", name, version)
	return true
}

// checkEncoders logs each required encoder as present or missing.
func checkEncoders(log Logger, ffmpeg string) bool {
	log.Info("Encoders:")
	have, err := Encoders(ffmpeg)
	if err != nil {
		log.Warn("Could not list encoders: %v", err)
		return false
	}
	ok := true
	for _, name := range RequiredEncoders {
		if have[name] {
			log.Success("  %s", name)
		} else {
			log.Error("  %s missing", name)
			ok = false
		}
	}
	return ok
}

// CheckDeps is the pre-conversion validation: it verifies that the
// configured ffmpeg and ffprobe resolve and that ffmpeg provides every
// required encoder. Returns an error wrapping a sentinel on failure.
func CheckDeps(cfg *config.Config) error {
	ffmpeg, err := exec.LookPath(cfg.FFmpegPath)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrFfmpegNotFound, cfg.FFmpegPath)
	}
	if _, err := exec.LookPath(cfg.FFprobePath); err != nil {
		return fmt.Errorf("%w: %s", ErrFfprobeNotFound, cfg.FFprobePath)
	}

	have, err := Encoders(ffmpeg)
	if err != nil {
		return fmt.Errorf("list ffmpeg encoders: %w", err)
	}
	var missing []string
	for _, name := range RequiredEncoders {
		if !have[name] {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingEncoder, strings.Join(missing, ", "))
	}
	return nil
}

// --- internal helpers ---

// Version returns the first line of `bin -version`.
func Version(bin string) (string, error) {
	out, err := exec.Command(bin, "-version").Output()
	if err != nil {
		return "", err
	}
	firstLine := strings.TrimSpace(string(out))
	if idx := strings.Index(firstLine, "\n"); idx > 0 {
		firstLine = firstLine[:idx]
	}
	return firstLine, nil
}

// Encoders returns the set of encoder names listed by `ffmpeg -encoders`.
func Encoders(ffmpeg string) (map[string]bool, error) {
	out, err := exec.Command(ffmpeg, "-hide_banner", "-encoders").Output()
	if err != nil {
		return nil, err
	}
	return ParseEncoders(string(out)), nil
}

// ParseEncoders extracts encoder names from `ffmpeg -encoders` output. Entry
// lines carry a six-character capability column (" V....D gif  GIF ...");
// the legend above the "------" separator is ignored.
func ParseEncoders(out string) map[string]bool {
	names := make(map[string]bool)
	listing := false
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if !listing {
			listing = strings.HasPrefix(fields[0], "------")
			continue
		}
		if len(fields) >= 2 && len(fields[0]) == 6 {
			names[fields[1]] = true
		}
	}
	return names
}

// gifTestArgs returns the ffmpeg arguments for a minimal palette GIF encode.
func gifTestArgs() []string {
	return []string{
		"-hide_banner", "-nostdin", "-loglevel", "error",
		"-f", "lavfi", "-i", "color=black:s=64x64:d=0.2",
		"-vf", "split[s0][s1];[s0]palettegen[p];[s1][p]paletteuse",
		"-c:v", "gif", "-f", "null", "-",
	}
}

// runSilent runs a command and returns true if it exits with status 0.
// Both stdout and stderr are discarded.
func runSilent(name string, args ...string) bool {
	cmd := exec.Command(name, args...)
	cmd.Stdout = nil
	cmd.Stderr = nil
	return cmd.Run() == nil
}
