package display

import (
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
)

// FormatBytes returns a human-readable IEC size ("512 B", "1.5 KiB", "700 MiB").
func FormatBytes(bytes int64) string {
	if bytes < 0 {
		return "-" + humanize.IBytes(uint64(-bytes))
	}
	return humanize.IBytes(uint64(bytes))
}

// FormatDuration renders milliseconds as "12.3s", or "n/a" when unknown.
func FormatDuration(ms int64) string {
	if ms <= 0 {
		return "n/a"
	}
	return fmt.Sprintf("%.1fs", float64(ms)/1000)
}

// FormatFPS trims trailing zeros ("29.97", "12"), or "n/a" when unknown.
func FormatFPS(fps float64) string {
	if fps <= 0 {
		return "n/a"
	}
	return strconv.FormatFloat(fps, 'f', -1, 64)
}

// FormatCount renders a positive count with thousands separators, or "n/a".
func FormatCount(n int) string {
	if n <= 0 {
		return "n/a"
	}
	return humanize.Comma(int64(n))
}
