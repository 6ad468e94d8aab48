//go:build unix

package main

import (
	"os"
	"os/signal"

	"golang.org/x/sys/unix"

	"github.com/backmassage/framecast/internal/control"
)

// watchSignals maps SIGINT/SIGTERM to cancel, SIGUSR1 to pause and SIGUSR2
// to resume. The returned func stops watching.
func watchSignals(sig *control.Signals, log interface{ Warn(string, ...any) }) func() {
	ch := make(chan os.Signal, 4)
	signal.Notify(ch, unix.SIGINT, unix.SIGTERM, unix.SIGUSR1, unix.SIGUSR2)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-done:
				return
			case s := <-ch:
				switch s {
				case unix.SIGUSR1:
					log.Warn("Paused (send SIGUSR2 to resume)")
					sig.RequestPause()
				case unix.SIGUSR2:
					log.Warn("Resumed")
					sig.RequestResume()
				default:
					log.Warn("Received %s, cancelling…", s)
					sig.RequestCancel("interrupted")
				}
			}
		}
	}()
	return func() {
		signal.Stop(ch)
		close(done)
	}
}
