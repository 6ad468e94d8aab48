package ffmpeg

import (
	"regexp"
	"strings"
)

// Cause is a coarse classification of an ffmpeg failure, used to add a
// hint to process error reports.
type Cause int

const (
	CauseUnknown Cause = iota
	CauseMissingInput
	CauseInvalidInput
	CauseUnknownEncoder
	CausePermission
	CauseNoSpace
)

// Pre-compiled regexes for classifying ffmpeg stderr. Checked in order by
// [Classify]; the first match wins.
var (
	reMissingInput = regexp.MustCompile(
		`No such file or directory|Could not find file with path|does not exist`)

	reInvalidInput = regexp.MustCompile(
		`(?i)Invalid data found when processing input|` +
			`moov atom not found|` +
			`could not find codec parameters|` +
			`Error while decoding stream`)

	reUnknownEncoder = regexp.MustCompile(
		`(?i)Unknown encoder|Requested output format '.*' is not a suitable output format|` +
			`No such filter|Filter not found|Unrecognized option`)

	rePermission = regexp.MustCompile(`Permission denied|Operation not permitted`)

	reNoSpace = regexp.MustCompile(`No space left on device|Disk quota exceeded`)
)

// Classify maps ffmpeg stderr to a Cause.
func Classify(stderr string) Cause {
	switch {
	case reNoSpace.MatchString(stderr):
		return CauseNoSpace
	case rePermission.MatchString(stderr):
		return CausePermission
	case reMissingInput.MatchString(stderr):
		return CauseMissingInput
	case reInvalidInput.MatchString(stderr):
		return CauseInvalidInput
	case reUnknownEncoder.MatchString(stderr):
		return CauseUnknownEncoder
	}
	return CauseUnknown
}

// Hint returns a short remedy for the cause, or "" when none applies.
func (c Cause) Hint() string {
	switch c {
	case CauseMissingInput:
		return "input file or frame pattern not found"
	case CauseInvalidInput:
		return "input is damaged or not a supported media file"
	case CauseUnknownEncoder:
		return "this ffmpeg build lacks a required encoder or filter (run `framecast check`)"
	case CausePermission:
		return "output directory is not writable"
	case CauseNoSpace:
		return "output disk is full"
	}
	return ""
}

// LastLine returns the last non-empty line of ffmpeg output, which is
// usually the most specific error message.
func LastLine(stderr string) string {
	lines := strings.Split(strings.TrimSpace(stderr), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if l := strings.TrimSpace(lines[i]); l != "" {
			return l
		}
	}
	return ""
}
