package ffmpeg

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/backmassage/framecast/internal/config"
)

func TestScaleFilter(t *testing.T) {
	tests := []struct {
		name string
		mode config.ScaleMode
		fps  float64
		want string
	}{
		{"center crop", config.ScaleCenterCrop, 12, "scale=320:180:force_original_aspect_ratio=increase,crop=320:180,fps=12"},
		{"stretch", config.ScaleStretch, 12, "scale=320:180,setsar=1,fps=12"},
		{"force aspect", config.ScaleForceAspect, 12, "scale=320:180:force_original_aspect_ratio=decrease,pad=320:180:(ow-iw)/2:(oh-ih)/2,setsar=1,fps=12"},
		{"fractional fps", config.ScaleCenterCrop, 7.5, "scale=320:180:force_original_aspect_ratio=increase,crop=320:180,fps=7.5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := Target{Width: 320, Height: 180, FPS: 12, Scale: tt.mode}
			assert.Equal(t, tt.want, ScaleFilter(target, tt.fps))
		})
	}
}

func TestPaletteFilter(t *testing.T) {
	const base = "scale=320:180,setsar=1,fps=12"
	tests := []struct {
		q    config.Quality
		want string
	}{
		{config.QualityLow, base},
		{config.QualityMedium, base + ",split[s0][s1];[s0]palettegen=max_colors=256[p];[s1][p]paletteuse"},
		{config.QualityBalanced, base + ",split[s0][s1];[s0]palettegen=max_colors=192:stats_mode=single[p];[s1][p]paletteuse=dither=bayer:bayer_scale=3"},
		{config.QualityHigh, base + ",split[s0][s1];[s0]palettegen=max_colors=256:stats_mode=single:reserve_transparent=0[p];[s1][p]paletteuse=dither=bayer:bayer_scale=2"},
		{config.QualityUltra, base + ",split[s0][s1];[s0]palettegen=max_colors=256:stats_mode=full:reserve_transparent=0[p];[s1][p]paletteuse=dither=sierra2_4a"},
	}
	for _, tt := range tests {
		t.Run(string(tt.q), func(t *testing.T) {
			assert.Equal(t, tt.want, PaletteFilter(base, tt.q))
		})
	}
}

func TestBuildGIF(t *testing.T) {
	target := Target{Width: 320, Height: 180, FPS: 12, Scale: config.ScaleCenterCrop, Quality: config.QualityLow}
	got := BuildGIF("/usr/bin/ffmpeg", Input{Path: "/in/clip.mp4"}, target, "/out/gif/clip.gif")
	want := []string{
		"/usr/bin/ffmpeg", "-hide_banner", "-loglevel", "error", "-y",
		"-i", "/in/clip.mp4",
		"-vf", "scale=320:180:force_original_aspect_ratio=increase,crop=320:180,fps=12",
		"-progress", "pipe:1", "-nostats",
		"/out/gif/clip.gif",
	}
	assert.Equal(t, want, got)
}

func TestBuildAPNG(t *testing.T) {
	target := Target{Width: 320, Height: 180, FPS: 30, Scale: config.ScaleStretch}
	in := Input{Pattern: "/frames/shot_%04d.png", StartNumber: 7}

	got := BuildAPNG("ffmpeg", in, target, APNGPlan{FPS: 6, MaxFrames: 72}, "/out/apng/shot.png")
	want := []string{
		"ffmpeg", "-hide_banner", "-loglevel", "error", "-y",
		"-start_number", "7", "-i", "/frames/shot_%04d.png",
		"-frames:v", "72",
		"-vf", "scale=320:180,setsar=1,fps=6",
		"-f", "apng", "-plays", "0", "-compression_level", "9", "-pred", "mixed",
		"-progress", "pipe:1", "-nostats",
		"/out/apng/shot.png",
	}
	assert.Equal(t, want, got)

	uncapped := BuildAPNG("ffmpeg", in, target, APNGPlan{FPS: 30}, "/out/apng/shot.png")
	assert.NotContains(t, uncapped, "-frames:v")
	assert.Contains(t, strings.Join(uncapped, " "), "fps=30")
}

func TestBuildPNGSequence(t *testing.T) {
	target := Target{Width: 64, Height: 64, FPS: 10, Scale: config.ScaleForceAspect}
	got := BuildPNGSequence("ffmpeg", Input{Path: "a.gif"}, target, "/out/png_sequence/a/a_%04d.png")
	assert.Equal(t, "/out/png_sequence/a/a_%04d.png", got[len(got)-1])
	assert.Contains(t, got, "scale=64:64:force_original_aspect_ratio=decrease,pad=64:64:(ow-iw)/2:(oh-ih)/2,setsar=1,fps=10")
	assert.NotContains(t, got, "-f")
}
