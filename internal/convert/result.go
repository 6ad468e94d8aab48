package convert

import (
	"time"

	"github.com/backmassage/framecast/internal/config"
)

// Output is one produced artifact.
type Output struct {
	Task   string
	Format config.ExportFormat
	Path   string // File, or directory for png_sequence.
	Bytes  int64
	Frames int // Files written, png_sequence only.
}

// Result tracks what a batch produced. On failure or cancellation it holds
// the outputs completed before the stop.
type Result struct {
	Total     int
	Completed int
	Outputs   []Output
	Elapsed   time.Duration
}

// TotalBytes sums the size of every output.
func (r *Result) TotalBytes() int64 {
	var n int64
	for _, o := range r.Outputs {
		n += o.Bytes
	}
	return n
}
