// Package audio provides silence detection on top of ffmpeg's silencedetect
// filter.
package audio

import (
	"context"

	"github.com/maauso/audio-splitter/internal/interval"
)

// DetectOpts configures silence detection.
type DetectOpts struct {
	// MinSilenceSec is the minimum length in seconds of a quiet span
	// to be reported as silence.
	// Default: 0.8 seconds.
	MinSilenceSec float64

	// NoiseDB is the volume threshold in dB below which
	// audio is considered silence.
	// Default: -35 dB.
	NoiseDB float64
}

// DefaultDetectOpts returns the default options for silence detection.
func DefaultDetectOpts() DetectOpts {
	return DetectOpts{
		MinSilenceSec: 0.8,
		NoiseDB:       -35,
	}
}

// Detector finds silence intervals in a media file.
type Detector interface {
	// Detect returns the silence intervals of inputPath ordered by start time.
	Detect(ctx context.Context, inputPath string, opts DetectOpts) ([]interval.Interval, error)
}

// Parser turns a detector's raw diagnostic output into silence intervals.
// Swapping the Parser is enough to follow a change in the detector's output
// format; interval arithmetic never sees the raw text.
type Parser interface {
	Parse(output string) ([]interval.Interval, error)
}
