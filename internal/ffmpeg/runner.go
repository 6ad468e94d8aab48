package ffmpeg

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"

	"github.com/backmassage/framecast/internal/control"
)

const (
	defaultGrace = time.Second
	defaultTick  = 100 * time.Millisecond

	// maxLineBytes bounds one progress line. Longer lines end parsing.
	maxLineBytes = 1 << 20
)

// Tracker consumes the progress stream of one invocation.
// *progress.StageTracker satisfies it.
type Tracker interface {
	Start() error
	Tick() error
	ObserveLine(line string) (bool, error)
	Finish() error
}

// Result holds the outcome of a process that ran to completion.
type Result struct {
	ExitCode int
	Stderr   string
}

// Runner executes ffmpeg commands one at a time under pause/cancel control.
type Runner struct {
	// Signals receives the live process handle. Nil uses a private,
	// never-cancelled instance.
	Signals *control.Signals
	// Grace is how long a terminated process may take to exit before it is
	// killed. Default: 1s.
	Grace time.Duration
	// Tick drives synthetic progress while ffmpeg is silent. Default: 100ms.
	Tick time.Duration
	// Stderr, when set, receives a live copy of ffmpeg's stderr.
	Stderr io.Writer
}

// Run starts args (args[0] is the binary), attaches it to the signals, and
// feeds its stdout through tr until it exits.
//
// A non-zero exit is not an error: it is reported in Result.ExitCode with
// the captured stderr. The returned error is non-nil only when the process
// could not be started or waited for, when a tracker emission failed, or on
// cancellation (matches control.ErrCancelled). tr.Finish runs only after a
// clean exit.
func (r *Runner) Run(ctx context.Context, args []string, tr Tracker) (*Result, error) {
	if len(args) == 0 {
		return nil, errors.New("ffmpeg: empty command")
	}
	sig := r.Signals
	if sig == nil {
		sig = control.New()
	}
	if err := sig.Err(); err != nil {
		return nil, err
	}

	cmd := exec.Command(args[0], args[1:]...)
	var stderr bytes.Buffer
	if r.Stderr != nil {
		cmd.Stderr = io.MultiWriter(&stderr, r.Stderr)
	} else {
		cmd.Stderr = &stderr
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("ffmpeg stdout: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", args[0], err)
	}
	sig.Attach(cmd.Process)

	stop := make(chan struct{})
	lines := readLines(stdout, stop)

	abort := func(cause error) (*Result, error) {
		close(stop)
		r.terminate(cmd)
		sig.Attach(nil)
		return nil, cause
	}

	if err := tr.Start(); err != nil {
		return abort(err)
	}

	ticker := time.NewTicker(r.tick())
	defer ticker.Stop()

loop:
	for {
		select {
		case line, ok := <-lines:
			if !ok {
				break loop
			}
			if err := sig.Checkpoint(); err != nil {
				return abort(err)
			}
			if err := tr.Tick(); err != nil {
				return abort(err)
			}
			if _, err := tr.ObserveLine(line); err != nil {
				return abort(err)
			}
		case <-ticker.C:
			if err := sig.Checkpoint(); err != nil {
				return abort(err)
			}
			if err := tr.Tick(); err != nil {
				return abort(err)
			}
		case <-ctx.Done():
			return abort(&control.CancelledError{Reason: context.Cause(ctx).Error()})
		}
	}

	waitErr := cmd.Wait()
	sig.Attach(nil)
	if err := sig.Err(); err != nil {
		return nil, err
	}

	res := &Result{Stderr: strings.TrimSpace(stderr.String())}
	if waitErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(waitErr, &exitErr) {
			return nil, fmt.Errorf("wait %s: %w", args[0], waitErr)
		}
		res.ExitCode = exitErr.ExitCode()
		return res, nil
	}
	if err := tr.Finish(); err != nil {
		return res, err
	}
	return res, nil
}

// terminate sends a graceful stop, waits out the grace period, then kills.
func (r *Runner) terminate(cmd *exec.Cmd) {
	_ = control.Terminate(cmd.Process)

	done := make(chan struct{})
	go func() {
		_ = cmd.Wait()
		close(done)
	}()

	grace := r.Grace
	if grace <= 0 {
		grace = defaultGrace
	}
	timer := time.NewTimer(grace)
	defer timer.Stop()
	select {
	case <-done:
	case <-timer.C:
		_ = cmd.Process.Kill()
		<-done
	}
}

func (r *Runner) tick() time.Duration {
	if r.Tick <= 0 {
		return defaultTick
	}
	return r.Tick
}

// readLines scans r on its own goroutine. The channel closes at EOF or
// once stop is closed. After a scan error the rest of r is discarded so the
// writer never blocks on a full pipe.
func readLines(r io.Reader, stop <-chan struct{}) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(r)
		sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-stop:
				return
			}
		}
		if sc.Err() != nil {
			_, _ = io.Copy(io.Discard, r)
		}
	}()
	return lines
}
