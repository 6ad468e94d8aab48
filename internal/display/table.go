package display

import (
	"fmt"
	"path/filepath"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/backmassage/framecast/internal/convert"
	"github.com/backmassage/framecast/internal/discover"
)

// Align selects a column's cell alignment.
type Align int

const (
	AlignLeft Align = iota
	AlignRight
)

// RenderTable draws rows under headers with rounded borders. Short rows are
// padded with empty cells; headers are always left-aligned.
func RenderTable(headers []string, rows [][]string, aligns []Align) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := 0; i < columns; i++ {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == AlignRight {
			align = text.AlignRight
		}
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render()
}

// InspectTable lists discovered sources with their probed metadata.
func InspectTable(sources []discover.Source) string {
	headers := []string{"#", "Source", "Kind", "Size", "FPS", "Frames", "Duration", "Output stem"}
	aligns := []Align{AlignRight, AlignLeft, AlignLeft, AlignRight, AlignRight, AlignRight, AlignRight, AlignLeft}

	rows := make([][]string, 0, len(sources))
	for i, s := range sources {
		size, fps := "n/a", "n/a"
		if s.Info != nil {
			size = s.Info.Resolution()
			fps = FormatFPS(s.Info.FPS)
		}
		frames := s.Task.TotalFrames
		if s.Task.Sequence {
			frames = s.Task.FrameCount
		}
		rows = append(rows, []string{
			fmt.Sprint(i + 1),
			s.Task.DisplayName,
			string(s.Task.Kind),
			size,
			fps,
			FormatCount(frames),
			FormatDuration(s.Task.DurationMs),
			s.Task.OutputStem,
		})
	}
	return RenderTable(headers, rows, aligns)
}

// SummaryTable lists a batch's outputs relative to root, with a total row.
func SummaryTable(res *convert.Result, root string) string {
	headers := []string{"Source", "Format", "Output", "Frames", "Size"}
	aligns := []Align{AlignLeft, AlignLeft, AlignLeft, AlignRight, AlignRight}

	rows := make([][]string, 0, len(res.Outputs)+1)
	for _, o := range res.Outputs {
		path := o.Path
		if rel, err := filepath.Rel(root, o.Path); err == nil {
			path = rel
		}
		frames := ""
		if o.Frames > 0 {
			frames = FormatCount(o.Frames)
		}
		rows = append(rows, []string{o.Task, string(o.Format), path, frames, FormatBytes(o.Bytes)})
	}
	rows = append(rows, []string{
		fmt.Sprintf("%d/%d tasks", res.Completed, res.Total), "", "", "", FormatBytes(res.TotalBytes()),
	})
	return RenderTable(headers, rows, aligns)
}
