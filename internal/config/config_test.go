package config

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeDirArg(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no trailing slash", "/media/clips", "/media/clips"},
		{"single trailing slash", "/media/clips/", "/media/clips"},
		{"multiple trailing slashes", "/media/clips///", "/media/clips"},
		{"root path", "/", "/"},
		{"relative path", "output", "output"},
		{"relative with slash", "output/", "output"},
		{"empty string", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeDirArg(tt.in))
		})
	}
}

func TestValidate_Quality(t *testing.T) {
	tests := []struct {
		name    string
		q       Quality
		wantErr bool
	}{
		{"low is valid", QualityLow, false},
		{"medium is valid", QualityMedium, false},
		{"balanced is valid", QualityBalanced, false},
		{"high is valid", QualityHigh, false},
		{"ultra is valid", QualityUltra, false},
		{"empty is invalid", "", true},
		{"unknown is invalid", "insane", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Quality = tt.q
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidate_ScaleMode(t *testing.T) {
	tests := []struct {
		name    string
		mode    ScaleMode
		wantErr bool
	}{
		{"center_crop is valid", ScaleCenterCrop, false},
		{"stretch is valid", ScaleStretch, false},
		{"force_aspect is valid", ScaleForceAspect, false},
		{"empty is invalid", "", true},
		{"fit is invalid", "fit", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.ScaleMode = tt.mode
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidate_Geometry(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		fps           float64
		wantErr       bool
	}{
		{"defaults", 320, 180, 12, false},
		{"zero width", 0, 180, 12, true},
		{"negative height", 320, -1, 12, true},
		{"zero fps", 320, 180, 0, true},
		{"fractional fps", 320, 180, 7.5, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Width, cfg.Height, cfg.FPS = tt.width, tt.height, tt.fps
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNormalizeFormats(t *testing.T) {
	got, err := NormalizeFormats([]ExportFormat{"APNG", "gif", "apng", " gif "})
	require.NoError(t, err)
	assert.Equal(t, []ExportFormat{FormatAPNG, FormatGIF}, got)

	got, err = NormalizeFormats(nil)
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = NormalizeFormats([]ExportFormat{"gif", "webm"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "webm")
}

func TestDefaultConfig_SaneDefaults(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 320, cfg.Width)
	assert.Equal(t, 180, cfg.Height)
	assert.Equal(t, 12.0, cfg.FPS)
	assert.Equal(t, QualityMedium, cfg.Quality)
	assert.Equal(t, ScaleCenterCrop, cfg.ScaleMode)
	assert.Equal(t, ColorAuto, cfg.ColorMode)
	assert.True(t, cfg.ShowProgress)
	assert.Empty(t, cfg.Formats)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_OverlaysFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "framecast.toml")
	content := `
width = 480
height = 270
fps = 15.0
quality = "ultra"
scale_mode = "force_aspect"
formats = ["png_sequence", "gif"]
ffmpeg_path = "/opt/ffmpeg/bin/ffmpeg"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg := DefaultConfig()
	resolved, found, err := Load(&cfg, path)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, path, resolved)

	assert.Equal(t, 480, cfg.Width)
	assert.Equal(t, 270, cfg.Height)
	assert.Equal(t, 15.0, cfg.FPS)
	assert.Equal(t, QualityUltra, cfg.Quality)
	assert.Equal(t, ScaleForceAspect, cfg.ScaleMode)
	assert.Equal(t, []ExportFormat{FormatPNGSequence, FormatGIF}, cfg.Formats)
	assert.Equal(t, "/opt/ffmpeg/bin/ffmpeg", cfg.FFmpegPath)
	// Untouched keys keep their defaults.
	assert.Equal(t, "ffprobe", cfg.FFprobePath)
}

func TestLoad_UnknownKeyRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("colour = \"never\"\n"), 0o644))

	cfg := DefaultConfig()
	_, _, err := Load(&cfg, path)
	assert.Error(t, err)
}

func TestLoad_ExplicitMissingFile(t *testing.T) {
	cfg := DefaultConfig()
	_, _, err := Load(&cfg, filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestFlags_ApplyOnlyChanged(t *testing.T) {
	fs := pflag.NewFlagSet("convert", pflag.ContinueOnError)
	flags := NewFlags()
	flags.BindGlobal(fs)
	flags.BindConvert(fs)

	require.NoError(t, fs.Parse([]string{
		"--width", "640",
		"-q", "HIGH",
		"-f", "apng", "-f", "gif,apng",
		"--no-color",
		"--no-progress",
	}))

	cfg := DefaultConfig()
	cfg.Height = 360 // pretend this came from a config file
	require.NoError(t, flags.Apply(fs, &cfg))

	assert.Equal(t, 640, cfg.Width)
	assert.Equal(t, 360, cfg.Height, "unset flag must not clobber file value")
	assert.Equal(t, QualityHigh, cfg.Quality)
	assert.Equal(t, []ExportFormat{FormatAPNG, FormatGIF}, cfg.Formats)
	assert.Equal(t, ColorNever, cfg.ColorMode)
	assert.False(t, cfg.ShowProgress)
}

func TestFlags_RejectsUnknownEnums(t *testing.T) {
	fs := pflag.NewFlagSet("convert", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	flags := NewFlags()
	flags.BindConvert(fs)

	assert.Error(t, fs.Parse([]string{"--scale", "zoom"}))
}
