package display

import (
	"fmt"
	"io"
	"math"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/backmassage/framecast/internal/progress"
)

// barScale is the bar's resolution (per-mille of overall progress).
const barScale = 1000

// ProgressBars renders batch progress on a terminal: a single line whose
// bar tracks overall progress and whose description carries the current
// task and stage label. It also implements io.Writer so log lines can be
// printed above the bar without corrupting it.
type ProgressBars struct {
	mu  sync.Mutex
	w   io.Writer
	bar *progressbar.ProgressBar
}

// NewProgressBars draws an empty bar on w.
func NewProgressBars(w io.Writer) *ProgressBars {
	bar := progressbar.NewOptions(barScale,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetWidth(30),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionSetElapsedTime(true),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetDescription("Preparing"),
		progressbar.OptionSetRenderBlankState(true),
	)
	return &ProgressBars{w: w, bar: bar}
}

// Update moves the bar to r.OverallProgress and shows the task label.
func (b *ProgressBars) Update(r progress.Report) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.bar.Describe(fmt.Sprintf("[%d/%d] %s", r.TaskIndex, r.TotalTasks, r.Stage))
	_ = b.bar.Set(int(math.Round(r.OverallProgress * barScale)))
}

// Write clears the bar, writes p, and redraws the bar below it.
func (b *ProgressBars) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	_ = b.bar.Clear()
	n, err := b.w.Write(p)
	_ = b.bar.RenderBlank()
	return n, err
}

// Finish completes the bar and removes it from the screen.
func (b *ProgressBars) Finish() {
	b.mu.Lock()
	defer b.mu.Unlock()
	_ = b.bar.Finish()
}

// Abort removes the bar without completing it.
func (b *ProgressBars) Abort() {
	b.mu.Lock()
	defer b.mu.Unlock()
	_ = b.bar.Clear()
}
