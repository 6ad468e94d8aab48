package discover

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/backmassage/framecast/internal/convert"
	"github.com/backmassage/framecast/internal/naming"
	"github.com/backmassage/framecast/internal/probe"
)

// ErrUnsupported marks an explicit file argument whose extension is not a
// known media type.
var ErrUnsupported = errors.New("unsupported file type")

// Supported media extensions (lowercase, with leading dot).
var (
	videoExtensions = map[string]bool{
		".mp4":  true,
		".mov":  true,
		".m4v":  true,
		".mpg":  true,
		".mpeg": true,
		".mkv":  true,
		".webm": true,
		".avi":  true,
	}
	animatedExtensions = map[string]bool{
		".gif":  true,
		".webp": true,
		".apng": true,
	}
)

// Prober reads stream metadata. probe.Prober satisfies it.
type Prober interface {
	Probe(ctx context.Context, path string) (*probe.MediaInfo, error)
}

// Source is one discovered input.
type Source struct {
	Task convert.Task
	// Info is nil for frame sequences and when no prober was given.
	Info *probe.MediaInfo
}

// Skipped is an input that produced no task.
type Skipped struct {
	Path string
	Err  error
}

// Result holds the discovered sources in processing order.
type Result struct {
	Sources []Source
	Skipped []Skipped
}

// Tasks returns the conversion tasks in order.
func (r *Result) Tasks() []convert.Task {
	tasks := make([]convert.Task, len(r.Sources))
	for i := range r.Sources {
		tasks[i] = r.Sources[i].Task
	}
	return tasks
}

// KindOf classifies a file path by extension. ok is false for unsupported
// files.
func KindOf(path string) (kind convert.Kind, ok bool) {
	ext := strings.ToLower(filepath.Ext(path))
	switch {
	case videoExtensions[ext]:
		return convert.KindVideo, true
	case animatedExtensions[ext]:
		return convert.KindAnimatedImage, true
	}
	return "", false
}

type discoverer struct {
	ctx      context.Context
	prober   Prober
	resolver *naming.CollisionResolver
	seen     map[string]bool
	res      *Result
}

// Discover expands inputs in argument order. Directories are walked in
// lexical order; directories named "output" (case-insensitive) and hidden
// directories are pruned so a previous run's exports are not picked up
// again. Each source is probed with p when p is non-nil. Only ctx
// cancellation is returned as an error; everything else lands in Skipped.
func Discover(ctx context.Context, inputs []string, p Prober) (*Result, error) {
	d := &discoverer{
		ctx:      ctx,
		prober:   p,
		resolver: naming.NewCollisionResolver(),
		seen:     make(map[string]bool),
		res:      &Result{},
	}
	for _, in := range inputs {
		if err := ctx.Err(); err != nil {
			return d.res, err
		}
		abs, err := filepath.Abs(in)
		if err != nil {
			d.skip(in, err)
			continue
		}
		info, err := os.Stat(abs)
		if err != nil {
			d.skip(in, err)
			continue
		}
		if !info.IsDir() {
			if _, ok := KindOf(abs); !ok {
				d.skip(in, ErrUnsupported)
				continue
			}
			d.addFile(abs)
			continue
		}
		if err := d.walk(abs); err != nil {
			return d.res, err
		}
	}
	return d.res, nil
}

func (d *discoverer) skip(path string, err error) {
	d.res.Skipped = append(d.res.Skipped, Skipped{Path: path, Err: err})
}

// walk adds the sequences and media files of dir, then recurses.
func (d *discoverer) walk(dir string) error {
	if err := d.ctx.Err(); err != nil {
		return err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		d.skip(dir, err)
		return nil
	}

	var names, subdirs []string
	for _, e := range entries {
		if e.IsDir() {
			if strings.HasPrefix(e.Name(), ".") || strings.EqualFold(e.Name(), "output") {
				continue
			}
			subdirs = append(subdirs, filepath.Join(dir, e.Name()))
			continue
		}
		names = append(names, e.Name())
	}

	for _, seq := range FindSequences(dir, names) {
		d.addSequence(seq)
	}
	for _, name := range names {
		path := filepath.Join(dir, name)
		if _, ok := KindOf(path); ok {
			d.addFile(path)
		}
	}
	for _, sub := range subdirs {
		if err := d.walk(sub); err != nil {
			return err
		}
	}
	return nil
}

func (d *discoverer) addFile(path string) {
	if d.seen[path] {
		return
	}
	d.seen[path] = true

	kind, _ := KindOf(path)
	src := Source{Task: convert.Task{
		DisplayName: filepath.Base(path),
		Source:      path,
		Kind:        kind,
	}}
	if d.prober != nil {
		info, err := d.prober.Probe(d.ctx, path)
		if err != nil {
			d.skip(path, err)
			return
		}
		src.Info = info
		src.Task.TotalFrames = info.Frames
		src.Task.DurationMs = info.DurationMs
	}
	src.Task.OutputStem = d.resolver.Resolve(path, naming.Stem(path))
	d.res.Sources = append(d.res.Sources, src)
}

func (d *discoverer) addSequence(seq Sequence) {
	key := seq.Pattern
	if d.seen[key] {
		return
	}
	d.seen[key] = true

	d.res.Sources = append(d.res.Sources, Source{Task: convert.Task{
		DisplayName:     seq.DisplayName(),
		Source:          seq.Dir,
		Kind:            convert.KindFrameSequence,
		OutputStem:      d.resolver.Resolve(key, seq.Stem()),
		Sequence:        true,
		SequencePattern: seq.Pattern,
		StartNumber:     seq.Start,
		FrameExtension:  seq.Ext,
		FrameCount:      seq.Count,
		TotalFrames:     seq.Count,
	}})
}

// String renders a skipped input for the user.
func (s Skipped) String() string {
	return fmt.Sprintf("%s: %v", s.Path, s.Err)
}
