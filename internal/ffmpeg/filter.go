package ffmpeg

import (
	"fmt"
	"strconv"

	"github.com/backmassage/framecast/internal/config"
)

// Target is the output geometry and encoding settings shared by all formats.
type Target struct {
	Width   int
	Height  int
	FPS     float64
	Scale   config.ScaleMode
	Quality config.Quality
}

// ScaleFilter returns the scale/crop/pad chain for the target at the given
// frame rate. The frame rate is passed separately because the APNG path may
// lower it.
func ScaleFilter(t Target, fps float64) string {
	w, h, f := t.Width, t.Height, formatFPS(fps)
	switch t.Scale {
	case config.ScaleStretch:
		return fmt.Sprintf("scale=%d:%d,setsar=1,fps=%s", w, h, f)
	case config.ScaleForceAspect:
		return fmt.Sprintf("scale=%d:%d:force_original_aspect_ratio=decrease,pad=%d:%d:(ow-iw)/2:(oh-ih)/2,setsar=1,fps=%s", w, h, w, h, f)
	default: // center_crop
		return fmt.Sprintf("scale=%d:%d:force_original_aspect_ratio=increase,crop=%d:%d,fps=%s", w, h, w, h, f)
	}
}

// PaletteFilter appends the two-pass palettegen/paletteuse graph for the
// quality preset to base. Low quality uses base unchanged.
func PaletteFilter(base string, q config.Quality) string {
	const split = ",split[s0][s1];[s0]"
	switch q {
	case config.QualityLow:
		return base
	case config.QualityBalanced:
		return base + split + "palettegen=max_colors=192:stats_mode=single[p];[s1][p]paletteuse=dither=bayer:bayer_scale=3"
	case config.QualityHigh:
		return base + split + "palettegen=max_colors=256:stats_mode=single:reserve_transparent=0[p];[s1][p]paletteuse=dither=bayer:bayer_scale=2"
	case config.QualityUltra:
		return base + split + "palettegen=max_colors=256:stats_mode=full:reserve_transparent=0[p];[s1][p]paletteuse=dither=sierra2_4a"
	default: // medium
		return base + split + "palettegen=max_colors=256[p];[s1][p]paletteuse"
	}
}

func formatFPS(fps float64) string {
	return strconv.FormatFloat(fps, 'f', -1, 64)
}
