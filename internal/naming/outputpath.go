package naming

import (
	"path/filepath"
	"strings"

	"github.com/backmassage/framecast/internal/config"
)

// OutputRoot returns dir itself when its base name is "output"
// (case-insensitive), otherwise dir/output.
func OutputRoot(dir string) string {
	if strings.EqualFold(filepath.Base(filepath.Clean(dir)), "output") {
		return filepath.Clean(dir)
	}
	return filepath.Join(dir, "output")
}

// FormatDir returns the per-format subdirectory under root.
func FormatDir(root string, f config.ExportFormat) string {
	return filepath.Join(root, string(f))
}

// Extension returns the file extension for single-file formats, or "" for
// png_sequence.
func Extension(f config.ExportFormat) string {
	switch f {
	case config.FormatGIF:
		return ".gif"
	case config.FormatAPNG:
		return ".png"
	}
	return ""
}

// OutputPath builds the output file path for single-file formats:
//
//	<root>/gif/<stem>.gif
//	<root>/apng/<stem>.png
func OutputPath(root string, f config.ExportFormat, stem string) string {
	return filepath.Join(FormatDir(root, f), stem+Extension(f))
}

// SequenceDir returns the directory holding a stem's numbered frames.
func SequenceDir(root, stem string) string {
	return filepath.Join(FormatDir(root, config.FormatPNGSequence), stem)
}

// SequencePattern returns the printf-style frame pattern inside SequenceDir.
func SequencePattern(root, stem string) string {
	return filepath.Join(SequenceDir(root, stem), stem+"_%04d.png")
}
