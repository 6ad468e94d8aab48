package convert

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/backmassage/framecast/internal/config"
	"github.com/backmassage/framecast/internal/control"
	"github.com/backmassage/framecast/internal/ffmpeg"
	"github.com/backmassage/framecast/internal/naming"
	"github.com/backmassage/framecast/internal/probe"
	"github.com/backmassage/framecast/internal/progress"
)

// prepAllowance is the share of each task's bar reserved for setup before
// the first format starts.
const prepAllowance = 0.05

// Logger is the minimal logging interface needed by the pipeline.
// *logging.Logger satisfies it.
type Logger interface {
	Info(string, ...any)
	Success(string, ...any)
	Warn(string, ...any)
	Error(string, ...any)
	Debug(string, ...any)
}

// Observer receives progress reports and human-readable log lines. Both are
// called on the goroutine running Convert.
type Observer interface {
	Progress(progress.Report)
	Log(string)
}

// ObserverFuncs adapts plain functions to Observer. Nil fields are skipped.
type ObserverFuncs struct {
	OnProgress func(progress.Report)
	OnLog      func(string)
}

func (o ObserverFuncs) Progress(r progress.Report) {
	if o.OnProgress != nil {
		o.OnProgress(r)
	}
}

func (o ObserverFuncs) Log(s string) {
	if o.OnLog != nil {
		o.OnLog(s)
	}
}

// Prober fills in missing task metadata. *probe.Prober satisfies it.
type Prober interface {
	Probe(ctx context.Context, path string) (*probe.MediaInfo, error)
}

// Converter runs conversion batches.
type Converter struct {
	log    Logger
	prober Prober
	stderr io.Writer
	grace  time.Duration
	tick   time.Duration
}

// Option configures a Converter.
type Option func(*Converter)

// WithProber enables lazy probing of tasks that arrive with neither a frame
// count nor a duration.
func WithProber(p Prober) Option { return func(c *Converter) { c.prober = p } }

// WithStderr tees ffmpeg's stderr to w (verbose mode).
func WithStderr(w io.Writer) Option { return func(c *Converter) { c.stderr = w } }

// WithTiming overrides the kill grace period and the synthetic-progress
// tick. Zero keeps the default.
func WithTiming(grace, tick time.Duration) Option {
	return func(c *Converter) { c.grace, c.tick = grace, tick }
}

// New returns a Converter logging to log.
func New(log Logger, opts ...Option) *Converter {
	c := &Converter{log: log}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Convert runs every task of req in order and every resolved format of each
// task in order. It returns at the first failure:
//
//   - *ConfigError (matches ErrInvalidRequest) before anything is created,
//   - *ProcessError when ffmpeg exits non-zero,
//   - *control.CancelledError (matches control.ErrCancelled) when the
//     request's signals are cancelled or ctx is done.
//
// The Result lists the outputs finished so far in every case but the first.
func (c *Converter) Convert(ctx context.Context, req Request, obs Observer) (*Result, error) {
	start := time.Now()
	if obs == nil {
		obs = ObserverFuncs{}
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	sig := req.Signals
	if sig == nil {
		sig = control.New()
	}
	stop := context.AfterFunc(ctx, func() {
		sig.RequestCancel(context.Cause(ctx).Error())
	})
	defer stop()

	bin := req.FFmpegPath
	if bin == "" {
		bin = "ffmpeg"
	}

	root := naming.OutputRoot(req.OutputDir)
	if err := c.prepareDirs(&req, root); err != nil {
		return nil, err
	}

	runner := &ffmpeg.Runner{Signals: sig, Grace: c.grace, Tick: c.tick, Stderr: c.stderr}
	res := &Result{Total: len(req.Tasks)}
	defer func() { res.Elapsed = time.Since(start) }()

	for i := range req.Tasks {
		task := req.Tasks[i]
		if err := sig.Err(); err != nil {
			return res, c.cancelled(obs, err)
		}

		emitter := progress.NewTaskEmitter(i+1, len(req.Tasks), task.DisplayName, sig, obs.Progress)
		if err := emitter.Emit(0, "Preparing"); err != nil {
			return res, c.cancelled(obs, err)
		}
		c.say(obs, "[%d/%d] %s", i+1, len(req.Tasks), task.DisplayName)
		c.enrich(ctx, &task, obs)

		formats := req.FormatsFor(&task)
		for j, f := range formats {
			if err := sig.Checkpoint(); err != nil {
				return res, c.cancelled(obs, err)
			}
			out, err := c.runFormat(ctx, runner, &req, &task, f, root, stageWindow(j, len(formats)), emitter, obs, bin)
			if err != nil {
				if errors.Is(err, control.ErrCancelled) {
					return res, c.cancelled(obs, err)
				}
				c.log.Error("%v", err)
				obs.Log(err.Error())
				return res, err
			}
			res.Outputs = append(res.Outputs, out)
		}

		if err := emitter.Emit(1, "Done"); err != nil {
			return res, c.cancelled(obs, err)
		}
		res.Completed++
	}
	return res, nil
}

// stageWindow returns format j's slice of a task bar split into n equal,
// contiguous windows after the preparation allowance.
func stageWindow(j, n int) progress.Window {
	extent := (1 - prepAllowance) / float64(n)
	return progress.Window{Base: prepAllowance + extent*float64(j), Extent: extent}
}

// prepareDirs creates the output root and one subdirectory per format used
// by any task.
func (c *Converter) prepareDirs(req *Request, root string) error {
	seen := make(map[config.ExportFormat]bool)
	for i := range req.Tasks {
		for _, f := range req.FormatsFor(&req.Tasks[i]) {
			if seen[f] {
				continue
			}
			seen[f] = true
			if err := os.MkdirAll(naming.FormatDir(root, f), 0o755); err != nil {
				return fmt.Errorf("create output directory: %w", err)
			}
		}
	}
	return nil
}

// enrich probes a task that arrived with no length information. Failures
// are logged; the task then relies on synthetic progress.
func (c *Converter) enrich(ctx context.Context, t *Task, obs Observer) {
	if c.prober == nil || t.Sequence || t.hasLength() {
		return
	}
	info, err := c.prober.Probe(ctx, t.Source)
	if err != nil {
		c.log.Warn("Cannot probe %s, progress will be estimated: %v", t.DisplayName, err)
		obs.Log(fmt.Sprintf("Cannot probe %s, progress will be estimated", t.DisplayName))
		return
	}
	t.TotalFrames = info.Frames
	t.DurationMs = info.DurationMs
	c.log.Debug("Probed %s: %dx%d, %.3f fps, %d frames, %d ms", t.DisplayName, info.Width, info.Height, info.FPS, info.Frames, info.DurationMs)
}

// runFormat produces one (task, format) output.
func (c *Converter) runFormat(
	ctx context.Context,
	runner *ffmpeg.Runner,
	req *Request,
	task *Task,
	f config.ExportFormat,
	root string,
	window progress.Window,
	emitter *progress.TaskEmitter,
	obs Observer,
	bin string,
) (Output, error) {
	target := ffmpeg.Target{
		Width:   req.Width,
		Height:  req.Height,
		FPS:     req.FPS,
		Scale:   req.ScaleMode,
		Quality: req.Quality,
	}
	frames := task.FrameEstimate(req.FPS)
	est := progress.Estimate{Frames: frames, DurationMs: task.DurationMs}
	out := Output{Task: task.DisplayName, Format: f}

	var args []string
	switch f {
	case config.FormatGIF:
		out.Path = naming.OutputPath(root, f, task.OutputStem)
		args = ffmpeg.BuildGIF(bin, task.Input(), target, out.Path)

	case config.FormatAPNG:
		out.Path = naming.OutputPath(root, f, task.OutputStem)
		plan := ffmpeg.EstimateAPNG(req.Width, req.Height, req.FPS, frames)
		if plan.Adjusted(req.FPS) {
			c.say(obs, "APNG adjusted to stay under 2 MiB: %s", describePlan(plan, req.FPS))
		}
		if plan.MaxFrames > 0 {
			// ffmpeg stops at the cap, so the cap is the whole stage.
			est = progress.Estimate{Frames: plan.MaxFrames}
		}
		args = ffmpeg.BuildAPNG(bin, task.Input(), target, plan, out.Path)

	case config.FormatPNGSequence:
		out.Path = naming.SequenceDir(root, task.OutputStem)
		if err := os.RemoveAll(out.Path); err != nil {
			return out, fmt.Errorf("clear %s: %w", out.Path, err)
		}
		if err := os.MkdirAll(out.Path, 0o755); err != nil {
			return out, fmt.Errorf("create %s: %w", out.Path, err)
		}
		args = ffmpeg.BuildPNGSequence(bin, task.Input(), target, naming.SequencePattern(root, task.OutputStem))

	default:
		return out, configErr("formats", fmt.Sprintf("unsupported export format %q", f))
	}

	c.say(obs, "%s: %s", stageVerb(f), displayPath(root, out.Path))
	c.log.Debug("ffmpeg %q", args[1:])

	tracker := progress.NewStageTracker(stageName(f), window, est, emitter.Emit)
	run, err := runner.Run(ctx, args, tracker)
	if err != nil {
		return out, err
	}
	if run.ExitCode != 0 {
		return out, &ProcessError{Task: task.DisplayName, Format: f, ExitCode: run.ExitCode, Stderr: run.Stderr}
	}

	out.Bytes, out.Frames = outputSize(out.Path)
	return out, nil
}

// say writes a step message to both the logger and the observer.
func (c *Converter) say(obs Observer, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	c.log.Info("%s", msg)
	obs.Log(msg)
}

func (c *Converter) cancelled(obs Observer, err error) error {
	msg := "Cancelled: " + err.Error()
	c.log.Warn("%s", msg)
	obs.Log(msg)
	return err
}

func describePlan(p ffmpeg.APNGPlan, requested float64) string {
	s := ""
	if p.FPS != requested {
		s = fmt.Sprintf("fps %.1f", p.FPS)
	}
	if p.MaxFrames > 0 {
		if s != "" {
			s += ", "
		}
		s += fmt.Sprintf("max frames %d", p.MaxFrames)
	}
	return s
}

func stageName(f config.ExportFormat) string {
	switch f {
	case config.FormatGIF:
		return "GIF"
	case config.FormatAPNG:
		return "APNG"
	case config.FormatPNGSequence:
		return "PNG sequence"
	}
	return string(f)
}

func stageVerb(f config.ExportFormat) string {
	switch f {
	case config.FormatPNGSequence:
		return "Exporting PNG sequence"
	default:
		return "Rendering " + stageName(f)
	}
}

func displayPath(root, path string) string {
	if rel, err := filepath.Rel(root, path); err == nil {
		return rel
	}
	return path
}

// outputSize returns the size of a file, or the total size and file count
// of a directory.
func outputSize(path string) (int64, int) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, 0
	}
	if !info.IsDir() {
		return info.Size(), 0
	}
	var total int64
	var count int
	_ = filepath.WalkDir(path, func(_ string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if fi, err := d.Info(); err == nil {
			total += fi.Size()
			count++
		}
		return nil
	})
	return total, count
}
