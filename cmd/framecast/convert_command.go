package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/backmassage/framecast/internal/check"
	"github.com/backmassage/framecast/internal/control"
	"github.com/backmassage/framecast/internal/convert"
	"github.com/backmassage/framecast/internal/display"
	"github.com/backmassage/framecast/internal/naming"
	"github.com/backmassage/framecast/internal/progress"
	"github.com/backmassage/framecast/internal/term"
)

func newConvertCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert [flags] <input>...",
		Short: "Convert files and directories",
		Long: `Convert videos (.mp4 .mov .mkv ...), animated images (.gif .webp .apng)
and directories of numbered frames into GIF, APNG and PNG-sequence exports
under <output>/output/.

While running, SIGUSR1 pauses and SIGUSR2 resumes the current ffmpeg
process; SIGINT or SIGTERM cancels the batch.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, ctx, args)
		},
	}
	ctx.flags.BindConvert(cmd.Flags())
	return cmd
}

func runConvert(cmd *cobra.Command, ctx *commandContext, args []string) error {
	cfg, log := ctx.cfg, ctx.log
	cfg.Inputs = args

	log.Info("=== framecast v%s (run %s) ===", version, ctx.runID)
	log.Info("Out: %s", naming.OutputRoot(cfg.OutputDir))
	log.Info("Target: %dx%d @ %s fps, %s, %s", cfg.Width, cfg.Height, display.FormatFPS(cfg.FPS), cfg.Quality, cfg.ScaleMode)

	// Fail fast if ffmpeg/ffprobe or a required encoder is unavailable.
	if err := check.CheckDeps(cfg); err != nil {
		log.Error("%v", err)
		return reported(err)
	}

	res, err := discoverInputs(cmd.Context(), ctx, args)
	if err != nil {
		return err
	}
	tasks := res.Tasks()

	root := naming.OutputRoot(cfg.OutputDir)
	lock, err := lockOutputRoot(root)
	if err != nil {
		log.Error("%v", err)
		return reported(err)
	}
	defer func() { _ = lock.Unlock() }()

	sig := control.New()
	stopSignals := watchSignals(sig, log)
	defer stopSignals()

	obs := convert.ObserverFuncs{
		OnProgress: func(r progress.Report) { log.Debug("%s", r) },
	}
	opts := []convert.Option{convert.WithProber(ctx.prober())}
	var bars *display.ProgressBars
	if cfg.ShowProgress && term.CanRedraw(os.Stderr) {
		bars = display.NewProgressBars(os.Stderr)
		log.SetConsole(bars, bars)
		obs.OnProgress = bars.Update
		if cfg.Verbose {
			opts = append(opts, convert.WithStderr(bars))
		}
	} else if cfg.Verbose {
		opts = append(opts, convert.WithStderr(os.Stderr))
	}

	req := convert.NewRequest(cfg, tasks, sig)
	result, err := convert.New(log, opts...).Convert(cmd.Context(), req, obs)

	if bars != nil {
		if err == nil {
			bars.Finish()
		} else {
			bars.Abort()
		}
		log.SetConsole(os.Stdout, os.Stderr)
	}

	switch {
	case errors.Is(err, control.ErrCancelled):
		log.Warn("Cancelled after %d of %d task(s)", result.Completed, result.Total)
		return err
	case errors.Is(err, convert.ErrInvalidRequest):
		log.Error("%v", err)
		return reported(err)
	case err != nil:
		// The converter has already logged process failures.
		var perr *convert.ProcessError
		if !errors.As(err, &perr) {
			log.Error("%v", err)
		}
		return reported(err)
	}

	for _, o := range result.Outputs {
		log.Render("%s → %s (%s)", o.Task, o.Path, display.FormatBytes(o.Bytes))
	}
	fmt.Fprintln(cmd.OutOrStdout(), display.SummaryTable(result, root))
	log.Success("Converted %d task(s), %s written in %s",
		result.Completed, display.FormatBytes(result.TotalBytes()), result.Elapsed.Round(10*time.Millisecond))
	return nil
}
