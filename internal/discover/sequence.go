package discover

import (
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/backmassage/framecast/internal/naming"
)

// minSequenceFrames is the shortest numbered run treated as a sequence.
const minSequenceFrames = 2

// reFrame splits a frame file name into prefix, number and extension.
var reFrame = regexp.MustCompile(`(?i)^(.*?)(\d+)\.(png|jpe?g|bmp|tiff?)$`)

// Sequence is a run of numbered frames in one directory.
type Sequence struct {
	Dir     string
	Prefix  string
	Digits  int // Zero-padded width, 0 when unpadded.
	Ext     string // Without the dot, as found on disk.
	Pattern string // Absolute printf-style pattern for ffmpeg.
	Start   int
	Count   int
}

// DisplayName is "<dir>/<prefix>%0Nd.<ext>" relative to the parent.
func (s Sequence) DisplayName() string {
	return filepath.Join(filepath.Base(s.Dir), filepath.Base(s.Pattern))
}

// Stem is the cleaned prefix, or the directory name when the frames carry
// no prefix (0001.png).
func (s Sequence) Stem() string {
	if strings.Trim(s.Prefix, " -_.") == "" {
		return naming.Stem(s.Dir)
	}
	return naming.Clean(s.Prefix)
}

type seqKey struct {
	prefix string
	digits int // 0 for unpadded numbering.
	ext    string
}

type frameName struct {
	prefix, ext string
	n, width    int
	padded      bool
}

// FindSequences groups names (entries of dir) into numbered runs. Zero-padded
// names group by prefix, digit width and extension; unpadded names (f1.png ..
// f20.png) group regardless of width. A name without a leading zero joins a
// padded group of its width (shot_1000.png after shot_0999.png). A run counts
// the consecutive numbers from the lowest one, because ffmpeg's image reader
// stops at the first gap. Runs shorter than two frames are ignored. Results
// are ordered by pattern.
func FindSequences(dir string, names []string) []Sequence {
	var frames []frameName
	padded := make(map[seqKey]bool)
	for _, name := range names {
		m := reFrame.FindStringSubmatch(name)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[2])
		if err != nil {
			continue
		}
		f := frameName{prefix: m[1], ext: m[3], n: n, width: len(m[2])}
		f.padded = f.width > 1 && m[2][0] == '0'
		if f.padded {
			padded[seqKey{f.prefix, f.width, f.ext}] = true
		}
		frames = append(frames, f)
	}

	groups := make(map[seqKey][]int)
	for _, f := range frames {
		k := seqKey{f.prefix, f.width, f.ext}
		if !padded[k] {
			k.digits = 0
		}
		groups[k] = append(groups[k], f.n)
	}

	var out []Sequence
	for k, nums := range groups {
		sort.Ints(nums)
		count := 1
		for i := 1; i < len(nums) && nums[i] == nums[i-1]+1; i++ {
			count++
		}
		if count < minSequenceFrames {
			continue
		}
		out = append(out, Sequence{
			Dir:     dir,
			Prefix:  k.prefix,
			Digits:  k.digits,
			Ext:     k.ext,
			Pattern: filepath.Join(dir, patternFor(k)),
			Start:   nums[0],
			Count:   count,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Pattern < out[j].Pattern })
	return out
}

// patternFor builds the file-name part of an ffmpeg image2 pattern: %0Nd for
// padded runs, %d otherwise. A literal % in the prefix is escaped.
func patternFor(k seqKey) string {
	verb := "%d"
	if k.digits > 1 {
		verb = "%0" + strconv.Itoa(k.digits) + "d"
	}
	return strings.ReplaceAll(k.prefix, "%", "%%") + verb + "." + k.ext
}
