package convert

import (
	"github.com/backmassage/framecast/internal/config"
	"github.com/backmassage/framecast/internal/ffmpeg"
)

// Kind classifies a task's source.
type Kind string

const (
	KindVideo         Kind = "video"
	KindAnimatedImage Kind = "animated-image"
	KindFrameSequence Kind = "frame-sequence"
)

// kindFormats is the per-kind default when the request names no formats.
var kindFormats = map[Kind][]config.ExportFormat{
	KindVideo:         {config.FormatGIF, config.FormatAPNG},
	KindAnimatedImage: {config.FormatAPNG, config.FormatPNGSequence},
	KindFrameSequence: {config.FormatGIF, config.FormatAPNG},
}

// Task is one source to convert. Exactly one of Source or
// SequencePattern+StartNumber is used, selected by Sequence.
type Task struct {
	DisplayName string
	Source      string
	Kind        Kind
	OutputStem  string

	Sequence        bool
	SequencePattern string // printf-style, e.g. /frames/shot_%04d.png
	StartNumber     int
	FrameExtension  string
	FrameCount      int

	TotalFrames int   // 0 when unknown.
	DurationMs  int64 // 0 when unknown.
}

// Input returns the ffmpeg input selection for the task.
func (t *Task) Input() ffmpeg.Input {
	if t.Sequence {
		return ffmpeg.Input{Pattern: t.SequencePattern, StartNumber: t.StartNumber}
	}
	return ffmpeg.Input{Path: t.Source}
}

// hasLength reports whether anything is known about the task's length.
func (t *Task) hasLength() bool {
	return t.frames() > 0 || t.DurationMs > 0
}

func (t *Task) frames() int {
	if t.Sequence {
		return t.FrameCount
	}
	return t.TotalFrames
}

// FrameEstimate returns the known frame count, else fps*duration, else 0.
func (t *Task) FrameEstimate(fps float64) int {
	if n := t.frames(); n > 0 {
		return n
	}
	if t.DurationMs > 0 {
		return max(1, int(fps*float64(t.DurationMs)/1000))
	}
	return 0
}
