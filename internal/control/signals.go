// Package control carries pause, resume, and cancel requests from a UI or
// signal handler to a running conversion.
//
// A [Signals] value is shared between exactly one conversion pipeline and
// any number of requesters. All methods are safe for concurrent use. The
// running flag starts set; pause clears it and resume sets it. Cancellation
// is sticky: once requested it is never cleared.
package control

import (
	"errors"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultCancelReason is used when RequestCancel is given an empty reason.
const DefaultCancelReason = "conversion cancelled"

// pollInterval is how often a paused checkpoint re-checks the flags.
const pollInterval = 50 * time.Millisecond

// ErrCancelled is matched by every cancellation error via errors.Is.
var ErrCancelled = errors.New("cancelled")

// CancelledError reports a cooperative cancellation with its reason.
type CancelledError struct {
	Reason string
}

func (e *CancelledError) Error() string { return e.Reason }

// Is makes errors.Is(err, ErrCancelled) true.
func (e *CancelledError) Is(target error) bool { return target == ErrCancelled }

// Signals is the shared control surface for one conversion.
type Signals struct {
	running   atomic.Bool
	cancelled atomic.Bool
	proc      atomic.Pointer[os.Process]

	mu     sync.Mutex
	reason string
}

// New returns Signals in the running, not-cancelled state.
func New() *Signals {
	s := &Signals{}
	s.running.Store(true)
	return s
}

// Attach records p as the current external process so that pause, resume,
// and cancel requests reach it directly. A request that arrived before the
// process was attached is applied immediately. Attach(nil) detaches and
// restores the running state.
func (s *Signals) Attach(p *os.Process) {
	s.proc.Store(p)
	switch {
	case p == nil:
		s.running.Store(true)
	case s.cancelled.Load():
		_ = Terminate(p)
	case !s.running.Load():
		_ = suspend(p)
	}
}

// RequestPause clears the running flag and suspends the attached process.
// Failures to deliver the OS signal are ignored.
func (s *Signals) RequestPause() {
	if s.cancelled.Load() {
		return
	}
	s.running.Store(false)
	if p := s.proc.Load(); p != nil {
		_ = suspend(p)
	}
}

// RequestResume sets the running flag and continues the attached process.
func (s *Signals) RequestResume() {
	s.running.Store(true)
	if p := s.proc.Load(); p != nil {
		_ = resume(p)
	}
}

// RequestCancel marks the conversion cancelled, wakes any paused checkpoint,
// and asks the attached process to terminate. The first reason wins.
func (s *Signals) RequestCancel(reason string) {
	if reason == "" {
		reason = DefaultCancelReason
	}
	s.mu.Lock()
	if !s.cancelled.Load() {
		s.reason = reason
	}
	s.mu.Unlock()

	s.cancelled.Store(true)
	s.running.Store(true)
	if p := s.proc.Load(); p != nil {
		_ = Terminate(p)
	}
}

// Terminate asks p to exit: SIGTERM followed by SIGCONT on unix, Kill
// elsewhere.
func Terminate(p *os.Process) error {
	if p == nil {
		return nil
	}
	err := terminate(p)
	_ = resume(p)
	return err
}

// Paused reports whether a pause is in effect.
func (s *Signals) Paused() bool { return !s.running.Load() }

// Cancelled reports whether cancellation was requested.
func (s *Signals) Cancelled() bool { return s.cancelled.Load() }

// Reason returns the cancellation reason, or "" when not cancelled.
func (s *Signals) Reason() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reason
}

// Err returns a *CancelledError when cancellation was requested.
func (s *Signals) Err() error {
	if !s.cancelled.Load() {
		return nil
	}
	return &CancelledError{Reason: s.Reason()}
}

// Checkpoint returns an error if cancelled and blocks while paused, polling
// every 50ms. It is called before each task, between formats, and before
// every progress delivery.
func (s *Signals) Checkpoint() error {
	for {
		if err := s.Err(); err != nil {
			return err
		}
		if s.running.Load() {
			return nil
		}
		time.Sleep(pollInterval)
	}
}
