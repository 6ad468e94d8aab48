package naming

import (
	"path/filepath"
	"regexp"
	"strings"
)

// reUnsafe matches characters that are invalid in file names on at least one
// common filesystem.
var reUnsafe = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)

// Stem returns the output stem for a source file: its base name without
// extension, with unsafe characters replaced.
func Stem(path string) string {
	base := filepath.Base(path)
	return Clean(strings.TrimSuffix(base, filepath.Ext(base)))
}

// Clean makes s safe to use as a file name and trims trailing separators
// ("shot_" → "shot"). An empty result becomes "untitled".
func Clean(s string) string {
	s = reUnsafe.ReplaceAllString(s, "_")
	s = strings.TrimRight(s, " -_.")
	s = strings.TrimSpace(s)
	if s == "" {
		return "untitled"
	}
	return s
}
