package convert

import (
	"fmt"
	"strings"

	"github.com/backmassage/framecast/internal/config"
	"github.com/backmassage/framecast/internal/control"
)

// Request describes one batch.
type Request struct {
	Tasks     []Task
	OutputDir string
	Width     int
	Height    int
	FPS       float64
	Quality   config.Quality
	ScaleMode config.ScaleMode
	// Formats is the caller's format list; empty selects per-kind defaults.
	Formats []config.ExportFormat
	// Signals carries pause/resume/cancel. Nil gets a private instance.
	Signals    *control.Signals
	FFmpegPath string
}

// NewRequest fills a Request from the effective configuration.
func NewRequest(cfg *config.Config, tasks []Task, sig *control.Signals) Request {
	return Request{
		Tasks:      tasks,
		OutputDir:  cfg.OutputDir,
		Width:      cfg.Width,
		Height:     cfg.Height,
		FPS:        cfg.FPS,
		Quality:    cfg.Quality,
		ScaleMode:  cfg.ScaleMode,
		Formats:    cfg.Formats,
		Signals:    sig,
		FFmpegPath: cfg.FFmpegPath,
	}
}

// Validate checks the request without touching the filesystem. On success
// Formats is normalized (lower-cased, de-duplicated, order kept).
func (r *Request) Validate() error {
	if len(r.Tasks) == 0 {
		return configErr("tasks", "no tasks selected")
	}
	formats, err := config.NormalizeFormats(r.Formats)
	if err != nil {
		return configErr("formats", err.Error())
	}
	r.Formats = formats
	if !r.ScaleMode.Valid() {
		return configErr("scale_mode", fmt.Sprintf("unknown scale mode %q", r.ScaleMode))
	}
	if !r.Quality.Valid() {
		return configErr("quality", fmt.Sprintf("unknown quality %q", r.Quality))
	}
	if r.Width <= 0 || r.Height <= 0 {
		return configErr("size", fmt.Sprintf("invalid size %dx%d", r.Width, r.Height))
	}
	if r.FPS <= 0 {
		return configErr("fps", fmt.Sprintf("invalid fps %g", r.FPS))
	}
	if strings.TrimSpace(r.OutputDir) == "" {
		return configErr("output_dir", "output directory is required")
	}
	for i := range r.Tasks {
		t := &r.Tasks[i]
		switch {
		case t.Sequence && t.SequencePattern == "":
			return configErr("tasks", fmt.Sprintf("task %q: sequence without a frame pattern", t.DisplayName))
		case !t.Sequence && t.Source == "":
			return configErr("tasks", fmt.Sprintf("task %q: no source", t.DisplayName))
		case strings.TrimSpace(t.OutputStem) == "":
			return configErr("tasks", fmt.Sprintf("task %q: empty output stem", t.DisplayName))
		}
	}
	return nil
}

// FormatsFor resolves the export formats for one task: the request's list
// when given, else the task kind's default, else gif+apng.
func (r *Request) FormatsFor(t *Task) []config.ExportFormat {
	if len(r.Formats) > 0 {
		return r.Formats
	}
	if f, ok := kindFormats[t.Kind]; ok {
		return f
	}
	return config.DefaultFormats
}
