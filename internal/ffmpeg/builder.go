package ffmpeg

import (
	"strconv"
)

// Input selects what ffmpeg reads: a single file, or a numbered image
// sequence when Pattern is set.
type Input struct {
	Path        string
	Pattern     string // printf-style, e.g. /frames/shot_%04d.png
	StartNumber int
}

// Args returns the input selection arguments.
func (in Input) Args() []string {
	if in.Pattern != "" {
		return []string{"-start_number", strconv.Itoa(in.StartNumber), "-i", in.Pattern}
	}
	return []string{"-i", in.Path}
}

// preamble is the shared head of every command.
func preamble(bin string, in Input) []string {
	args := make([]string, 0, 32)
	args = append(args, bin, "-hide_banner", "-loglevel", "error", "-y")
	return append(args, in.Args()...)
}

// progressTail requests machine-readable progress on stdout and names the output.
func progressTail(args []string, output string) []string {
	return append(args, "-progress", "pipe:1", "-nostats", output)
}

// BuildGIF returns the full argv (bin first) for the palette GIF path.
func BuildGIF(bin string, in Input, t Target, output string) []string {
	args := preamble(bin, in)
	args = append(args, "-vf", PaletteFilter(ScaleFilter(t, t.FPS), t.Quality))
	return progressTail(args, output)
}

// BuildAPNG returns the argv for the lossless animated PNG path. The filter
// is rebuilt at plan.FPS and -frames:v is added when the plan caps frames.
func BuildAPNG(bin string, in Input, t Target, plan APNGPlan, output string) []string {
	args := preamble(bin, in)
	if plan.MaxFrames > 0 {
		args = append(args, "-frames:v", strconv.Itoa(plan.MaxFrames))
	}
	fps := plan.FPS
	if fps <= 0 {
		fps = t.FPS
	}
	args = append(args,
		"-vf", ScaleFilter(t, fps),
		"-f", "apng",
		"-plays", "0",
		"-compression_level", "9",
		"-pred", "mixed",
	)
	return progressTail(args, output)
}

// BuildPNGSequence returns the argv for numbered still frames written to
// outputPattern (e.g. <dir>/<stem>_%04d.png).
func BuildPNGSequence(bin string, in Input, t Target, outputPattern string) []string {
	args := preamble(bin, in)
	args = append(args, "-vf", ScaleFilter(t, t.FPS))
	return progressTail(args, outputPattern)
}
