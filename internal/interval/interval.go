// Package interval provides the time-interval arithmetic shared by both
// splitters: pairing detector markers into silences, deriving the kept
// segments between silences, and duration filtering.
package interval

import (
	"fmt"
	"math"
)

// MinSegmentSec is the shortest segment Complement will emit.
// Anything at or below it is an artifact of rounding in the detector output.
const MinSegmentSec = 0.01

// Interval is a span of media time in seconds.
type Interval struct {
	Start float64
	End   float64
}

// Duration returns End - Start.
func (i Interval) Duration() float64 {
	return i.End - i.Start
}

func (i Interval) String() string {
	return fmt.Sprintf("[%.3f → %.3f]", i.Start, i.End)
}

// Complement returns the non-silent segments of a media file of the given
// total duration. Silences must be ordered by start; they may overlap or
// touch each other.
//
// Segments are rounded to millisecond precision. Segments whose unrounded
// duration is not greater than MinSegmentSec are dropped.
func Complement(silences []Interval, total float64) []Interval {
	var raw []Interval
	cursor := 0.0
	for _, s := range silences {
		if s.Start > cursor {
			raw = append(raw, Interval{Start: cursor, End: s.Start})
		}
		cursor = math.Max(cursor, s.End)
	}
	if total > cursor {
		raw = append(raw, Interval{Start: cursor, End: total})
	}

	segments := make([]Interval, 0, len(raw))
	for _, seg := range raw {
		if seg.Duration() <= MinSegmentSec {
			continue
		}
		segments = append(segments, Interval{
			Start: RoundMillis(seg.Start),
			End:   RoundMillis(seg.End),
		})
	}
	return segments
}

// PairMarkers joins independently extracted start and end markers into
// intervals. Both slices are in order of appearance. Each start is paired
// with the earliest unconsumed end that is not before it; ends that come
// before the current start are discarded. A start left without an end (the
// file ends in silence, or the output was truncated) yields nothing.
func PairMarkers(starts, ends []float64) []Interval {
	var out []Interval
	i, j := 0, 0
	for i < len(starts) && j < len(ends) {
		if ends[j] >= starts[i] {
			out = append(out, Interval{Start: starts[i], End: ends[j]})
			i++
		}
		j++
	}
	return out
}

// FilterMinDuration keeps the intervals with End > Start whose duration is
// at least minSec.
func FilterMinDuration(ivs []Interval, minSec float64) []Interval {
	kept := make([]Interval, 0, len(ivs))
	for _, iv := range ivs {
		if iv.End > iv.Start && iv.Duration() >= minSec {
			kept = append(kept, iv)
		}
	}
	return kept
}

// RoundMillis rounds v to three decimal places.
func RoundMillis(v float64) float64 {
	return math.Round(v*1000) / 1000
}
