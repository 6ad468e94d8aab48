package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/backmassage/framecast/internal/discover"
	"github.com/backmassage/framecast/internal/display"
	"github.com/backmassage/framecast/internal/probe"
)

// errNoInputs is returned when discovery yields nothing to convert.
var errNoInputs = errors.New("no convertible inputs found")

func newInspectCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <input>...",
		Short: "List discovered tasks and their metadata",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := discoverInputs(cmd.Context(), ctx, args)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), display.InspectTable(res.Sources))
			return nil
		},
	}
}

func (c *commandContext) prober() probe.Prober {
	return probe.Prober{Path: c.cfg.FFprobePath}
}

// discoverInputs expands args, logs every skipped input and fails when
// nothing is left.
func discoverInputs(ctx context.Context, cc *commandContext, args []string) (*discover.Result, error) {
	res, err := discover.Discover(ctx, args, cc.prober())
	if err != nil {
		return nil, err
	}
	for _, s := range res.Skipped {
		cc.log.Warn("Skip %s", s)
	}
	if len(res.Sources) == 0 {
		cc.log.Error("%v", errNoInputs)
		return nil, reported(errNoInputs)
	}
	cc.log.Info("Found %d task(s)", len(res.Sources))
	return res, nil
}
