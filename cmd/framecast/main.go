// Command framecast converts videos, animated images and numbered frame
// directories into GIF, APNG and PNG-sequence exports using ffmpeg.
//
// Subcommands: convert (run a batch), inspect (list what would be
// converted) and check (diagnose ffmpeg/ffprobe).
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/backmassage/framecast/internal/control"
)

// version and commit are injected at build time via -ldflags.
var (
	version = "0.3.0"
	commit  = "unknown"
)

// Process exit codes.
const (
	exitOK        = 0
	exitFailure   = 1
	exitCancelled = 130
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:]))
}

// run executes the root command with args and maps the outcome to an exit
// code. Errors already reported through the logger are not printed again.
func run(ctx context.Context, args []string) int {
	cc := newCommandContext()
	defer cc.close()

	cmd := newRootCommand(cc)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	code := exitCode(err)
	if code == exitFailure {
		var reported *reportedError
		if !errors.As(err, &reported) {
			fmt.Fprintf(os.Stderr, "framecast: %v\n", err)
		}
	}
	return code
}

// reportedError marks an error the command already logged.
type reportedError struct{ err error }

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

func reported(err error) error { return &reportedError{err: err} }

func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, control.ErrCancelled), errors.Is(err, context.Canceled):
		return exitCancelled
	default:
		return exitFailure
	}
}
