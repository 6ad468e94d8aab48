package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/backmassage/framecast/internal/config"
	"github.com/backmassage/framecast/internal/logging"
)

// commandContext carries state shared by every subcommand of one
// invocation. ensure runs once, from the root's PersistentPreRunE.
type commandContext struct {
	flags *config.Flags
	cfg   *config.Config
	log   *logging.Logger
	runID string
}

func newCommandContext() *commandContext {
	return &commandContext{flags: config.NewFlags()}
}

// ensure builds the effective configuration (defaults < TOML file < flags)
// and opens the logger.
func (c *commandContext) ensure(cmd *cobra.Command) error {
	if c.cfg != nil {
		return nil
	}
	cfg := config.DefaultConfig()
	path, loaded, err := config.Load(&cfg, c.flags.ConfigPath)
	if err != nil {
		return err
	}
	if err := c.flags.Apply(cmd.Flags(), &cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := logging.NewLogger(&cfg)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	c.cfg = &cfg
	c.log = log
	c.runID = uuid.NewString()

	log.Debug("framecast %s (%s) run %s", version, commit, c.runID)
	if loaded {
		log.Debug("Config: %s", path)
	}
	return nil
}

func (c *commandContext) close() {
	if c.log != nil {
		c.log.SetConsole(os.Stdout, os.Stderr)
		_ = c.log.Close()
	}
}
