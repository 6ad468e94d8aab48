//go:build !unix

package main

import (
	"os"
	"os/signal"

	"github.com/backmassage/framecast/internal/control"
)

// watchSignals maps an interrupt to cancel. Pause and resume need SIGSTOP
// and are unavailable here.
func watchSignals(sig *control.Signals, log interface{ Warn(string, ...any) }) func() {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt)
	done := make(chan struct{})
	go func() {
		select {
		case <-done:
		case <-ch:
			log.Warn("Received interrupt, cancelling…")
			sig.RequestCancel("interrupted")
		}
	}()
	return func() {
		signal.Stop(ch)
		close(done)
	}
}
