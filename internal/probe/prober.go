package probe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"
)

// ErrInvalidMedia is returned when a file has no usable video stream or
// reports non-positive geometry or frame rate.
var ErrInvalidMedia = errors.New("invalid media")

// Prober runs ffprobe at Path ("ffprobe" for a PATH lookup).
type Prober struct {
	Path string
}

// Probe inspects path with the configured ffprobe binary.
func (p Prober) Probe(ctx context.Context, path string) (*MediaInfo, error) {
	bin := p.Path
	if bin == "" {
		bin = "ffprobe"
	}
	return Probe(ctx, bin, path)
}

// Probe runs a single ffprobe JSON call against path. When the stream has no
// frame count it falls back to counting decoded frames, then to
// fps*duration.
func Probe(ctx context.Context, ffprobePath, path string) (*MediaInfo, error) {
	cmd := exec.CommandContext(ctx, ffprobePath,
		"-v", "error",
		"-select_streams", "v:0",
		"-print_format", "json",
		"-show_format", "-show_streams",
		path,
	)
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("ffprobe %q: %w", path, withStderr(err))
	}

	info, err := ParseJSON(out)
	if err != nil {
		return nil, fmt.Errorf("ffprobe %q: %w", path, err)
	}
	if info.Frames == 0 {
		info.Frames = countFrames(ctx, ffprobePath, path)
	}
	info.DeriveFrames()
	return info, nil
}

// ParseJSON converts raw ffprobe JSON output into a MediaInfo. The first
// video stream that is not attached cover art is used. Exported for testing
// without a real ffprobe binary.
func ParseJSON(data []byte) (*MediaInfo, error) {
	var raw ffprobeOutput
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse ffprobe JSON: %w", err)
	}

	var video *ffprobeStream
	for i := range raw.Streams {
		s := &raw.Streams[i]
		if s.CodecType == "video" && s.Disposition["attached_pic"] != 1 {
			video = s
			break
		}
	}
	if video == nil {
		return nil, fmt.Errorf("%w: no video stream", ErrInvalidMedia)
	}

	info := &MediaInfo{
		Width:      video.Width,
		Height:     video.Height,
		FPS:        parseRate(video.RFrameRate),
		Frames:     parseInt(video.NbFrames),
		DurationMs: durationMs(video, &raw.Format),
		Codec:      video.CodecName,
		FormatName: raw.Format.FormatName,
	}
	if info.FPS <= 0 {
		info.FPS = parseRate(video.AvgFrameRate)
	}
	if info.Width <= 0 || info.Height <= 0 || info.FPS <= 0 {
		return nil, fmt.Errorf("%w: %dx%d at %g fps", ErrInvalidMedia, info.Width, info.Height, info.FPS)
	}
	return info, nil
}

// countFrames decodes the first video stream to count frames. Returns 0 on
// any failure.
func countFrames(ctx context.Context, ffprobePath, path string) int {
	cmd := exec.CommandContext(ctx, ffprobePath,
		"-v", "error",
		"-count_frames",
		"-select_streams", "v:0",
		"-show_entries", "stream=nb_read_frames",
		"-of", "default=nokey=1:noprint_wrappers=1",
		path,
	)
	out, err := cmd.Output()
	if err != nil {
		return 0
	}
	return parseInt(string(out))
}

func withStderr(err error) error {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if msg := strings.TrimSpace(string(exitErr.Stderr)); msg != "" {
			return fmt.Errorf("%w: %s", err, msg)
		}
	}
	return err
}

// durationMs prefers the exact duration_ts*time_base, then the stream's
// duration, then the container's.
func durationMs(s *ffprobeStream, f *ffprobeFormat) int64 {
	if s.DurationTS > 0 {
		if tb := parseRate(s.TimeBase); tb > 0 {
			return int64(math.Round(float64(s.DurationTS) * tb * 1000))
		}
	}
	for _, d := range []string{s.Duration, f.Duration} {
		if secs := parseFloat(d); secs > 0 {
			return int64(math.Round(secs * 1000))
		}
	}
	return 0
}

// --- Numeric parsing helpers (ffprobe returns numbers as strings) ---

// parseRate parses "num/den" or a plain number. A zero denominator or
// malformed input yields 0.
func parseRate(s string) float64 {
	s = strings.TrimSpace(s)
	num, den, ok := strings.Cut(s, "/")
	if !ok {
		return parseFloat(s)
	}
	n, err1 := strconv.ParseFloat(num, 64)
	d, err2 := strconv.ParseFloat(den, 64)
	if err1 != nil || err2 != nil || d == 0 {
		return 0
	}
	return n / d
}

func parseFloat(s string) float64 {
	f, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return f
}

func parseInt(s string) int {
	n, _ := strconv.Atoi(strings.TrimSpace(s))
	return n
}
