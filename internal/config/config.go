// Package config holds runtime configuration: defaults, TOML file loading,
// CLI flag binding, and validation. Defaults match the original converter's
// request defaults (320x180 at 12 fps, medium quality, center crop).
package config

import (
	"errors"
	"fmt"
	"strings"
)

// --- Enum types for validated string fields ---

// ExportFormat selects one derived output kind.
type ExportFormat string

const (
	FormatGIF         ExportFormat = "gif"          // Lossy palette animated raster.
	FormatAPNG        ExportFormat = "apng"         // Lossless-frame animated raster.
	FormatPNGSequence ExportFormat = "png_sequence" // Numbered still frames.
)

// AllFormats lists every supported export format in canonical order.
var AllFormats = []ExportFormat{FormatGIF, FormatAPNG, FormatPNGSequence}

// DefaultFormats is the global fallback when neither the caller nor the
// per-kind mapping selects anything.
var DefaultFormats = []ExportFormat{FormatGIF, FormatAPNG}

// Valid reports whether f is a supported export format.
func (f ExportFormat) Valid() bool {
	switch f {
	case FormatGIF, FormatAPNG, FormatPNGSequence:
		return true
	}
	return false
}

// Quality is the palette/dither preset for the GIF path.
type Quality string

const (
	QualityLow      Quality = "low"      // No palette stage.
	QualityMedium   Quality = "medium"   // 256-color palette, default dither (default).
	QualityBalanced Quality = "balanced" // 192 colors, bayer scale 3.
	QualityHigh     Quality = "high"     // 256 colors, bayer scale 2.
	QualityUltra    Quality = "ultra"    // Full-stream statistics, sierra2_4a.
)

// Valid reports whether q names a known preset.
func (q Quality) Valid() bool {
	switch q {
	case QualityLow, QualityMedium, QualityBalanced, QualityHigh, QualityUltra:
		return true
	}
	return false
}

// ScaleMode controls how sources are fitted to the target size.
type ScaleMode string

const (
	ScaleCenterCrop  ScaleMode = "center_crop"  // Cover then crop (default).
	ScaleStretch     ScaleMode = "stretch"      // Non-uniform scale to exact size.
	ScaleForceAspect ScaleMode = "force_aspect" // Fit then letterbox.
)

// Valid reports whether m is a known scale mode.
func (m ScaleMode) Valid() bool {
	switch m {
	case ScaleCenterCrop, ScaleStretch, ScaleForceAspect:
		return true
	}
	return false
}

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// Config holds all runtime settings. It is populated by [DefaultConfig],
// overlaid by [Load] from a TOML file, and finally mutated by flags bound
// with [BindFlags].
type Config struct {
	// Inputs are the positional arguments (files or directories).
	Inputs []string `toml:"-"`

	// Output root. An "output" subdirectory is created beneath it unless
	// the path already ends in "output".
	OutputDir string `toml:"output_dir"`

	// Target geometry and encoding.
	Width     int            `toml:"width"`      // Default: 320.
	Height    int            `toml:"height"`     // Default: 180.
	FPS       float64        `toml:"fps"`        // Default: 12.
	Quality   Quality        `toml:"quality"`    // Default: "medium".
	ScaleMode ScaleMode      `toml:"scale_mode"` // Default: "center_crop".
	Formats   []ExportFormat `toml:"formats"`    // Empty: per-kind defaults.

	// External tools.
	FFmpegPath  string `toml:"ffmpeg_path"`  // Default: "ffmpeg" (PATH lookup).
	FFprobePath string `toml:"ffprobe_path"` // Default: "ffprobe".

	// Display and logging.
	Verbose      bool      `toml:"verbose"`
	ShowProgress bool      `toml:"show_progress"` // Default: true. Bars only render on a TTY.
	ColorMode    ColorMode `toml:"color"`         // Default: "auto".
	LogFile      string    `toml:"log_file"`      // Optional log file path.
}

// DefaultConfig returns a Config with every default applied. Used as the
// base before a config file or CLI flags override anything.
func DefaultConfig() Config {
	return Config{
		OutputDir:    ".",
		Width:        320,
		Height:       180,
		FPS:          12,
		Quality:      QualityMedium,
		ScaleMode:    ScaleCenterCrop,
		FFmpegPath:   "ffmpeg",
		FFprobePath:  "ffprobe",
		ShowProgress: true,
		ColorMode:    ColorAuto,
	}
}

// NormalizeDirArg strips trailing slashes from a directory path.
// The filesystem root "/" is returned unchanged so we don't produce an empty string.
func NormalizeDirArg(path string) string {
	if path == "/" {
		return "/"
	}
	return strings.TrimRight(path, "/")
}

// Validate checks enum fields, numeric ranges, and tool paths. Formats are
// de-duplicated in place, keeping first-seen order.
func (c *Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("invalid size %dx%d (width and height must be positive)", c.Width, c.Height)
	}
	if c.FPS <= 0 {
		return fmt.Errorf("invalid fps %g (must be positive)", c.FPS)
	}
	if !c.Quality.Valid() {
		return fmt.Errorf("invalid quality %q (use low, medium, balanced, high or ultra)", c.Quality)
	}
	if !c.ScaleMode.Valid() {
		return fmt.Errorf("invalid scale mode %q (use center_crop, stretch or force_aspect)", c.ScaleMode)
	}
	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
		// valid
	default:
		return fmt.Errorf("invalid color mode %q (use auto, always or never)", c.ColorMode)
	}

	formats, err := NormalizeFormats(c.Formats)
	if err != nil {
		return err
	}
	c.Formats = formats

	if strings.TrimSpace(c.FFmpegPath) == "" {
		return errors.New("ffmpeg path must not be empty")
	}
	if strings.TrimSpace(c.FFprobePath) == "" {
		return errors.New("ffprobe path must not be empty")
	}
	if strings.TrimSpace(c.OutputDir) == "" {
		return errors.New("output directory must not be empty")
	}
	return nil
}

// NormalizeFormats lower-cases, validates and de-duplicates a format list
// while preserving the caller's order. An empty input yields nil.
func NormalizeFormats(formats []ExportFormat) ([]ExportFormat, error) {
	if len(formats) == 0 {
		return nil, nil
	}
	seen := make(map[ExportFormat]struct{}, len(formats))
	out := make([]ExportFormat, 0, len(formats))
	var invalid []string
	for _, f := range formats {
		f = ExportFormat(strings.ToLower(strings.TrimSpace(string(f))))
		if !f.Valid() {
			invalid = append(invalid, string(f))
			continue
		}
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	if len(invalid) > 0 {
		return nil, fmt.Errorf("unsupported export format: %s (use gif, apng or png_sequence)", strings.Join(invalid, ", "))
	}
	return out, nil
}
