package config

// This file implements CLI flag binding. Flags write into a private Config
// copy; Apply then copies only the flags the user actually set onto the
// effective Config, so defaults and config-file values hold unless
// overridden on the command line.

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

// Flags holds raw flag destinations for one command invocation.
type Flags struct {
	// ConfigPath is the --config value (empty: default search).
	ConfigPath string

	values     Config
	formats    []string
	noProgress bool
	forceColor bool
	noColor    bool
}

// NewFlags returns flag destinations seeded with defaults so that help
// text shows the effective default values.
func NewFlags() *Flags {
	return &Flags{values: DefaultConfig()}
}

// BindGlobal registers flags shared by every subcommand.
func (f *Flags) BindGlobal(fs *pflag.FlagSet) {
	fs.StringVarP(&f.ConfigPath, "config", "c", "", "Configuration file path (TOML)")
	fs.StringVarP(&f.values.LogFile, "log", "l", "", "Append logs to file")
	fs.BoolVarP(&f.values.Verbose, "verbose", "v", false, "Verbose output")
	fs.BoolVar(&f.forceColor, "color", false, "Force colored logs")
	fs.BoolVar(&f.noColor, "no-color", false, "Disable colored logs")
	fs.StringVar(&f.values.FFmpegPath, "ffmpeg", f.values.FFmpegPath, "ffmpeg executable")
	fs.StringVar(&f.values.FFprobePath, "ffprobe", f.values.FFprobePath, "ffprobe executable")
}

// BindConvert registers the conversion target flags.
func (f *Flags) BindConvert(fs *pflag.FlagSet) {
	fs.StringVarP(&f.values.OutputDir, "output", "o", f.values.OutputDir, "Output root directory")
	fs.IntVar(&f.values.Width, "width", f.values.Width, "Target width in pixels")
	fs.IntVar(&f.values.Height, "height", f.values.Height, "Target height in pixels")
	fs.Float64Var(&f.values.FPS, "fps", f.values.FPS, "Target frame rate")
	fs.VarP(&qualityValue{&f.values.Quality}, "quality", "q", "GIF quality: low | medium | balanced | high | ultra")
	fs.Var(&scaleModeValue{&f.values.ScaleMode}, "scale", "Scale mode: center_crop | stretch | force_aspect")
	fs.StringSliceVarP(&f.formats, "format", "f", nil, "Export format, repeatable: gif | apng | png_sequence")
	fs.BoolVar(&f.noProgress, "no-progress", false, "Disable progress bars")
}

// Apply copies every flag the user set in fs onto cfg and resolves the
// color precedence (--no-color wins over --color).
func (f *Flags) Apply(fs *pflag.FlagSet, cfg *Config) error {
	var err error
	fs.Visit(func(fl *pflag.Flag) {
		switch fl.Name {
		case "log":
			cfg.LogFile = f.values.LogFile
		case "verbose":
			cfg.Verbose = f.values.Verbose
		case "ffmpeg":
			cfg.FFmpegPath = f.values.FFmpegPath
		case "ffprobe":
			cfg.FFprobePath = f.values.FFprobePath
		case "output":
			cfg.OutputDir = NormalizeDirArg(f.values.OutputDir)
		case "width":
			cfg.Width = f.values.Width
		case "height":
			cfg.Height = f.values.Height
		case "fps":
			cfg.FPS = f.values.FPS
		case "quality":
			cfg.Quality = f.values.Quality
		case "scale":
			cfg.ScaleMode = f.values.ScaleMode
		case "format":
			formats := make([]ExportFormat, 0, len(f.formats))
			for _, s := range f.formats {
				formats = append(formats, ExportFormat(s))
			}
			var normalized []ExportFormat
			normalized, err = NormalizeFormats(formats)
			cfg.Formats = normalized
		case "no-progress":
			cfg.ShowProgress = !f.noProgress
		}
	})
	if err != nil {
		return err
	}

	if f.noColor {
		cfg.ColorMode = ColorNever
	} else if f.forceColor {
		cfg.ColorMode = ColorAlways
	}
	return nil
}

// pflag.Value adapters so enum types (Quality, ScaleMode) reject bad input at parse time.

type qualityValue struct{ p *Quality }

func (q *qualityValue) String() string { return string(*q.p) }
func (q *qualityValue) Type() string   { return "quality" }
func (q *qualityValue) Set(s string) error {
	v := Quality(strings.ToLower(strings.TrimSpace(s)))
	if !v.Valid() {
		return fmt.Errorf("invalid quality %q (use low, medium, balanced, high or ultra)", s)
	}
	*q.p = v
	return nil
}

type scaleModeValue struct{ p *ScaleMode }

func (m *scaleModeValue) String() string { return string(*m.p) }
func (m *scaleModeValue) Type() string   { return "mode" }
func (m *scaleModeValue) Set(s string) error {
	v := ScaleMode(strings.ToLower(strings.TrimSpace(s)))
	if !v.Valid() {
		return fmt.Errorf("invalid scale mode %q (use center_crop, stretch or force_aspect)", s)
	}
	*m.p = v
	return nil
}
