// Package ffmpeg builds ffmpeg command lines for the export formats and runs
// them under pause/cancel control with live progress.
//
// Every command shares one skeleton:
//
//	<bin> -hide_banner -loglevel error -y <input> [-frames:v N] -vf <filter> [format opts] -progress pipe:1 -nostats <output>
//
// The input is either a single file or a printf-style numbered pattern with
// an explicit -start_number. [Runner.Run] streams the key=value lines ffmpeg
// writes to stdout into a progress tracker and keeps stderr for failure
// reports.
package ffmpeg
