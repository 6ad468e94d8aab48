package discover

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/backmassage/framecast/internal/convert"
	"github.com/backmassage/framecast/internal/probe"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, nil, 0o644))
}

// stubProber returns fixed metadata and fails for paths listed in bad.
type stubProber struct {
	bad   map[string]bool
	calls []string
}

func (p *stubProber) Probe(_ context.Context, path string) (*probe.MediaInfo, error) {
	p.calls = append(p.calls, filepath.Base(path))
	if p.bad[filepath.Base(path)] {
		return nil, probe.ErrInvalidMedia
	}
	return &probe.MediaInfo{Width: 640, Height: 360, FPS: 25, Frames: 100, DurationMs: 4000}, nil
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		path string
		kind convert.Kind
		ok   bool
	}{
		{"a.mp4", convert.KindVideo, true},
		{"a.MOV", convert.KindVideo, true},
		{"a.webm", convert.KindVideo, true},
		{"a.gif", convert.KindAnimatedImage, true},
		{"a.WebP", convert.KindAnimatedImage, true},
		{"a.apng", convert.KindAnimatedImage, true},
		{"a.png", "", false},
		{"a.txt", "", false},
		{"noext", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			kind, ok := KindOf(tt.path)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.kind, kind)
		})
	}
}

func TestFindSequences(t *testing.T) {
	names := []string{
		"shot_0001.png", "shot_0002.png", "shot_0003.png", "shot_0005.png",
		"b-10.JPG", "b-11.JPG",
		"lonely_0001.png",
		"notes.txt", "cover.png",
	}
	seqs := FindSequences("/frames", names)
	require.Len(t, seqs, 2)

	assert.Equal(t, "/frames/b-%d.JPG", seqs[0].Pattern)
	assert.Zero(t, seqs[0].Digits)
	assert.Equal(t, 10, seqs[0].Start)
	assert.Equal(t, 2, seqs[0].Count)
	assert.Equal(t, "JPG", seqs[0].Ext)
	assert.Equal(t, "b", seqs[0].Stem())

	assert.Equal(t, "/frames/shot_%04d.png", seqs[1].Pattern)
	assert.Equal(t, 1, seqs[1].Start)
	assert.Equal(t, 3, seqs[1].Count, "the run stops at the first gap")
	assert.Equal(t, "shot", seqs[1].Stem())
	assert.Equal(t, "frames/shot_%04d.png", seqs[1].DisplayName())
}

func TestFindSequences_PatternEdgeCases(t *testing.T) {
	seqs := FindSequences("/x/clip", []string{"0001.png", "0002.png", "50%_01.png", "50%_02.png"})
	require.Len(t, seqs, 2)
	assert.Equal(t, "/x/clip/%04d.png", seqs[0].Pattern)
	assert.Equal(t, "clip", seqs[0].Stem(), "no prefix falls back to the directory name")
	assert.Equal(t, "/x/clip/50%%_%02d.png", seqs[1].Pattern)
}

func TestFindSequences_UnpaddedAcrossWidths(t *testing.T) {
	var names []string
	for i := 1; i <= 20; i++ {
		names = append(names, fmt.Sprintf("f%d.png", i))
	}
	seqs := FindSequences("/frames", names)
	require.Len(t, seqs, 1)
	assert.Equal(t, "/frames/f%d.png", seqs[0].Pattern)
	assert.Equal(t, 1, seqs[0].Start)
	assert.Equal(t, 20, seqs[0].Count)
}

func TestFindSequences_PaddedRunCrossesIntoFullWidth(t *testing.T) {
	seqs := FindSequences("/frames", []string{"shot_0998.png", "shot_0999.png", "shot_1000.png", "shot_1001.png"})
	require.Len(t, seqs, 1)
	assert.Equal(t, "/frames/shot_%04d.png", seqs[0].Pattern)
	assert.Equal(t, 4, seqs[0].Digits)
	assert.Equal(t, 998, seqs[0].Start)
	assert.Equal(t, 4, seqs[0].Count)
}

func TestDiscover_FilesAndDirectories(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "a.mp4"))
	touch(t, filepath.Join(root, "notes.txt"))
	touch(t, filepath.Join(root, "sub", "b.gif"))
	touch(t, filepath.Join(root, "sub", "frames", "f_001.png"))
	touch(t, filepath.Join(root, "sub", "frames", "f_002.png"))
	touch(t, filepath.Join(root, "output", "gif", "a.gif"))
	touch(t, filepath.Join(root, ".cache", "c.mp4"))

	res, err := Discover(context.Background(), []string{root}, nil)
	require.NoError(t, err)
	require.Len(t, res.Sources, 3)
	assert.Empty(t, res.Skipped)

	a, b, seq := res.Sources[0].Task, res.Sources[1].Task, res.Sources[2].Task
	assert.Equal(t, "a.mp4", a.DisplayName)
	assert.Equal(t, convert.KindVideo, a.Kind)
	assert.Equal(t, "a", a.OutputStem)

	assert.Equal(t, convert.KindAnimatedImage, b.Kind)
	assert.Equal(t, "b", b.OutputStem)

	assert.True(t, seq.Sequence)
	assert.Equal(t, convert.KindFrameSequence, seq.Kind)
	assert.Equal(t, filepath.Join(root, "sub", "frames", "f_%03d.png"), seq.SequencePattern)
	assert.Equal(t, 1, seq.StartNumber)
	assert.Equal(t, 2, seq.FrameCount)
	assert.Equal(t, "png", seq.FrameExtension)
	assert.Equal(t, "f", seq.OutputStem)
	assert.Nil(t, res.Sources[2].Info)
}

func TestDiscover_StemCollisions(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "intro.mov"))
	touch(t, filepath.Join(root, "intro.mp4"))
	touch(t, filepath.Join(root, "x", "intro.gif"))

	res, err := Discover(context.Background(), []string{root}, nil)
	require.NoError(t, err)
	var stems []string
	for _, task := range res.Tasks() {
		stems = append(stems, task.OutputStem)
	}
	assert.Equal(t, []string{"intro", "intro - dup1", "intro - dup2"}, stems)
}

func TestDiscover_DuplicateInputsCollapse(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "clip.mp4")
	touch(t, file)

	res, err := Discover(context.Background(), []string{file, root, file}, nil)
	require.NoError(t, err)
	require.Len(t, res.Sources, 1)
	assert.Equal(t, "clip", res.Sources[0].Task.OutputStem)
}

func TestDiscover_ExplicitArgumentErrors(t *testing.T) {
	root := t.TempDir()
	txt := filepath.Join(root, "notes.txt")
	touch(t, txt)
	missing := filepath.Join(root, "gone.mp4")

	res, err := Discover(context.Background(), []string{txt, missing}, nil)
	require.NoError(t, err)
	assert.Empty(t, res.Sources)
	require.Len(t, res.Skipped, 2)
	assert.ErrorIs(t, res.Skipped[0].Err, ErrUnsupported)
	assert.True(t, errors.Is(res.Skipped[1].Err, os.ErrNotExist))
	assert.Contains(t, res.Skipped[0].String(), "notes.txt: unsupported file type")
}

func TestDiscover_ProbeFailuresAreSkipped(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "good.mp4"))
	touch(t, filepath.Join(root, "broken.mp4"))
	touch(t, filepath.Join(root, "seq", "s_01.png"))
	touch(t, filepath.Join(root, "seq", "s_02.png"))

	p := &stubProber{bad: map[string]bool{"broken.mp4": true}}
	res, err := Discover(context.Background(), []string{root}, p)
	require.NoError(t, err)

	require.Len(t, res.Sources, 2)
	good := res.Sources[0]
	assert.Equal(t, "good.mp4", good.Task.DisplayName)
	require.NotNil(t, good.Info)
	assert.Equal(t, 100, good.Task.TotalFrames)
	assert.Equal(t, int64(4000), good.Task.DurationMs)
	assert.True(t, res.Sources[1].Task.Sequence)

	require.Len(t, res.Skipped, 1)
	assert.ErrorIs(t, res.Skipped[0].Err, probe.ErrInvalidMedia)
	assert.ElementsMatch(t, []string{"good.mp4", "broken.mp4"}, p.calls, "frame sequences are not probed")
}

func TestDiscover_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Discover(ctx, []string{t.TempDir()}, nil)
	assert.ErrorIs(t, err, context.Canceled)
}
