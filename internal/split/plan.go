package split

import (
	"fmt"
	"path/filepath"

	"github.com/maauso/audio-splitter/internal/inputfile"
	"github.com/maauso/audio-splitter/internal/interval"
)

// Entry is one clip to be cut from the input.
type Entry struct {
	// Index is the sequence number used in the clip name.
	Index int
	// Path is where the clip is written.
	Path string
	// Segment is the time range of the input the clip covers.
	Segment interval.Interval
}

// Name returns the clip's file name.
func (e Entry) Name() string {
	return filepath.Base(e.Path)
}

// Plan lists every clip a run produces, in export order.
type Plan struct {
	// Input is the media file clips are cut from.
	Input string
	// Dir is the per-input output directory, {outputRoot}/{Base}.
	Dir string
	// Base is the input's file name without extension.
	Base string
	// Ext is the input's lower-cased extension, reused for every clip.
	Ext string
	// Entries are the clips, numbered consecutively from the start index.
	Entries []Entry
}

// NewPlan lays out the clips for segments cut from input. Clips are named
// {base}_{index:03d}{ext} inside {outputRoot}/{base}.
func NewPlan(input, outputRoot string, segments []interval.Interval, startIndex int) *Plan {
	base, ext := inputfile.SplitName(input)
	dir := filepath.Join(outputRoot, base)

	entries := make([]Entry, len(segments))
	for i, seg := range segments {
		idx := startIndex + i
		entries[i] = Entry{
			Index:   idx,
			Path:    filepath.Join(dir, OutputName(base, idx, ext)),
			Segment: seg,
		}
	}

	return &Plan{
		Input:   input,
		Dir:     dir,
		Base:    base,
		Ext:     ext,
		Entries: entries,
	}
}

// OutputName builds a clip file name, e.g. OutputName("talk", 7, ".mp3")
// is "talk_007.mp3".
func OutputName(base string, index int, ext string) string {
	return fmt.Sprintf("%s_%03d%s", base, index, ext)
}

// TimestampsPath is where the silence splitter records the plan's segments.
func (p *Plan) TimestampsPath() string {
	return filepath.Join(p.Dir, p.Base+inputfile.SegmentsSuffix+".csv")
}

// Segments returns the time ranges of all entries.
func (p *Plan) Segments() []interval.Interval {
	segs := make([]interval.Interval, len(p.Entries))
	for i, e := range p.Entries {
		segs[i] = e.Segment
	}
	return segs
}
