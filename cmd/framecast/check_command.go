package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/backmassage/framecast/internal/check"
	"github.com/backmassage/framecast/internal/display"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Diagnose ffmpeg/ffprobe availability and encoders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			display.PrintBanner(cmd.OutOrStdout())
			if !check.RunCheck(ctx.cfg, ctx.log) {
				return reported(errors.New("system check failed"))
			}
			return nil
		},
	}
}
