package progress

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	// syntheticAfter is how long ffmpeg may stay silent before the tracker
	// starts extrapolating.
	syntheticAfter = 300 * time.Millisecond
	// emitInterval forces an emission after this long even without movement.
	emitInterval = 200 * time.Millisecond
	// minEmitDelta is the smallest ratio advance forwarded on its own.
	minEmitDelta = 0.001
	// syntheticStep is the per-tick increment when nothing is known about
	// the input.
	syntheticStep = 0.01
)

// State is the tracker's position in its real/synthetic state machine.
type State int

const (
	NoRealUpdate  State = iota // Nothing parsed from ffmpeg yet.
	TrackingReal               // Last movement came from a parsed line.
	Extrapolating              // Real updates went stale; ratio is synthetic.
)

func (s State) String() string {
	switch s {
	case NoRealUpdate:
		return "no-real-update"
	case TrackingReal:
		return "tracking-real"
	case Extrapolating:
		return "extrapolating"
	}
	return "unknown"
}

// Window is a stage's slice of the task progress bar: it starts at Base and
// is Extent wide, both in [0,1].
type Window struct {
	Base   float64
	Extent float64
}

// Global maps a stage-local ratio into task space.
func (w Window) Global(ratio float64) float64 { return w.Base + ratio*w.Extent }

// Estimate is what is known about the input's length. Zero means unknown.
type Estimate struct {
	Frames     int
	DurationMs int64
}

// EmitFunc receives task-space progress and a human-readable label. A
// non-nil error (typically cancellation) aborts the stage.
type EmitFunc func(value float64, label string) error

// Option configures a StageTracker.
type Option func(*StageTracker)

// WithClock replaces time.Now, for deterministic tests.
func WithClock(now func() time.Time) Option {
	return func(t *StageTracker) { t.now = now }
}

// StageTracker converts ffmpeg progress lines for one invocation into
// throttled, never-decreasing progress emissions. It is not safe for
// concurrent use; the process runner owns it.
type StageTracker struct {
	label    string
	window   Window
	estimate Estimate
	emit     EmitFunc
	now      func() time.Time

	state State
	ratio float64

	// Last known good real update.
	lastRealRatio float64
	lastRealTime  time.Time

	lastEmitRatio float64
	lastEmitTime  time.Time
	stageStart    time.Time
}

// NewStageTracker creates a tracker for one stage. emit may be nil.
func NewStageTracker(label string, window Window, est Estimate, emit EmitFunc, opts ...Option) *StageTracker {
	t := &StageTracker{
		label:         label,
		window:        window,
		estimate:      est,
		emit:          emit,
		now:           time.Now,
		lastEmitRatio: -1,
	}
	for _, opt := range opts {
		opt(t)
	}
	now := t.now()
	t.lastRealTime = now
	t.lastEmitTime = now
	t.stageStart = now
	return t
}

// Ratio returns the current stage-local ratio.
func (t *StageTracker) Ratio() float64 { return t.ratio }

// State returns the tracker's current state.
func (t *StageTracker) State() State { return t.state }

// Window returns the stage's slice of the task bar.
func (t *StageTracker) Window() Window { return t.window }

// Start force-emits the stage's 0% report.
func (t *StageTracker) Start() error {
	return t.send(0, t.labelFor(0, ""), true)
}

// NeedsSynthetic reports whether ffmpeg has been silent long enough that a
// synthetic step should run.
func (t *StageTracker) NeedsSynthetic() bool {
	return t.now().Sub(t.lastRealTime) >= syntheticAfter
}

// Tick runs a synthetic step if one is due.
func (t *StageTracker) Tick() error {
	if !t.NeedsSynthetic() {
		return nil
	}
	return t.SyntheticStep()
}

// SyntheticStep extrapolates the ratio from wall time since stage start.
// The result only ever moves forward and is capped at 1.0.
func (t *StageTracker) SyntheticStep() error {
	target := t.ratio
	elapsed := t.now().Sub(t.stageStart).Seconds()
	switch {
	case t.estimate.DurationMs > 0:
		target = max(target, min(1, elapsed/(float64(t.estimate.DurationMs)/1000)))
	case t.estimate.Frames > 0:
		frames := float64(t.estimate.Frames)
		average := max(10, frames)
		target = max(target, min(1, elapsed/max(0.5, frames/average)))
	default:
		target = min(1, t.ratio+syntheticStep)
	}

	if target <= t.ratio {
		return nil
	}
	t.ratio = target
	if t.state == TrackingReal {
		t.state = Extrapolating
	}
	return t.send(t.ratio, t.labelFor(t.ratio, "~"), true)
}

// ObserveLine feeds one "key=value" line from ffmpeg's progress stream.
// Lines without "=" are ignored.
func (t *StageTracker) ObserveLine(line string) (bool, error) {
	key, value, ok := strings.Cut(strings.TrimSpace(line), "=")
	if !ok {
		return false, nil
	}
	return t.Observe(strings.TrimSpace(key), value)
}

// Observe applies one progress key. It reports whether the key produced a
// real update.
func (t *StageTracker) Observe(key, value string) (bool, error) {
	ratio, ok := t.parse(key, strings.TrimSpace(value))
	if !ok {
		return false, nil
	}

	// Never regress below the last real anchor, never pass the end.
	ratio = min(1, max(ratio, t.lastRealRatio))
	t.lastRealRatio = ratio
	t.lastRealTime = t.now()
	t.state = TrackingReal

	// A real value behind an earlier synthetic step holds the stage ratio.
	t.ratio = max(t.ratio, ratio)
	return true, t.send(t.ratio, t.labelFor(t.ratio, ""), false)
}

func (t *StageTracker) parse(key, text string) (float64, bool) {
	est := t.estimate
	switch {
	case key == "frame" && est.Frames > 0:
		n, err := strconv.Atoi(text)
		if err != nil {
			return 0, false
		}
		return float64(n) / float64(est.Frames), true
	case (key == "out_time_ms" || key == "out_time_us") && est.DurationMs > 0:
		n, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return 0, false
		}
		ms := float64(n)
		if key == "out_time_us" {
			ms /= 1000
		}
		return ms / float64(est.DurationMs), true
	case key == "out_time" && est.DurationMs > 0:
		secs, ok := parseClock(text)
		if !ok {
			return 0, false
		}
		return secs * 1000 / float64(est.DurationMs), true
	case key == "progress" && text == "end":
		return 1, true
	}
	return 0, false
}

// parseClock parses "H:MM:SS.frac" into seconds.
func parseClock(text string) (float64, bool) {
	parts := strings.Split(text, ":")
	if len(parts) != 3 {
		return 0, false
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, false
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, false
	}
	s, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return 0, false
	}
	return float64(h)*3600 + float64(m)*60 + s, true
}

// Finish force-emits 1.0 for the stage.
func (t *StageTracker) Finish() error {
	t.ratio = 1
	return t.send(1, t.labelFor(1, ""), true)
}

func (t *StageTracker) labelFor(ratio float64, marker string) string {
	return fmt.Sprintf("%s %s%.1f%% (overall %.1f%%)", t.label, marker, ratio*100, t.window.Global(ratio)*100)
}

func (t *StageTracker) send(ratio float64, label string, force bool) error {
	if t.emit == nil {
		return nil
	}
	ratio = min(1, max(0, ratio))
	now := t.now()
	if !force &&
		ratio-t.lastEmitRatio < minEmitDelta &&
		now.Sub(t.lastEmitTime) < emitInterval &&
		ratio < 1 {
		return nil
	}
	t.lastEmitRatio = ratio
	t.lastEmitTime = now
	return t.emit(t.window.Global(ratio), label)
}
