package convert

import (
	"errors"
	"fmt"
	"strings"

	"github.com/backmassage/framecast/internal/config"
	"github.com/backmassage/framecast/internal/ffmpeg"
)

// ErrInvalidRequest is matched by every *ConfigError.
var ErrInvalidRequest = errors.New("invalid conversion request")

// ConfigError rejects a request before any directory is created or process
// spawned.
type ConfigError struct {
	Field string
	Msg   string
}

func (e *ConfigError) Error() string { return "invalid request: " + e.Msg }

// Is makes errors.Is(err, ErrInvalidRequest) true.
func (e *ConfigError) Is(target error) bool { return target == ErrInvalidRequest }

func configErr(field, msg string) error {
	return &ConfigError{Field: field, Msg: msg}
}

// ProcessError reports an ffmpeg invocation that exited non-zero. The batch
// stops at the first one. Its message ends with the full captured stderr.
type ProcessError struct {
	Task     string
	Format   config.ExportFormat
	ExitCode int
	Stderr   string
}

func (e *ProcessError) Error() string {
	detail := ffmpeg.LastLine(e.Stderr)
	if detail == "" {
		detail = "unknown error"
	}
	msg := fmt.Sprintf("%s export failed for %s (exit %d): %s", stageName(e.Format), e.Task, e.ExitCode, detail)
	if hint := e.Cause().Hint(); hint != "" {
		msg += " (" + hint + ")"
	}
	if full := strings.TrimSpace(e.Stderr); full != "" {
		msg += "\nffmpeg stderr:\n" + full
	}
	return msg
}

// Cause classifies the captured stderr.
func (e *ProcessError) Cause() ffmpeg.Cause { return ffmpeg.Classify(e.Stderr) }
