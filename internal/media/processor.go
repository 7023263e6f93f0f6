// Package media wraps the external ffmpeg/ffprobe toolchain used to probe
// media files and cut clips out of them.
package media

import (
	"context"

	"github.com/maauso/audio-splitter/internal/interval"
)

// Tools defines the toolchain operations the splitters depend on.
type Tools interface {
	// CheckTools verifies that ffmpeg and ffprobe can be executed.
	// It returns an error wrapping ErrToolsMissing otherwise.
	CheckTools() error

	// ProbeDuration returns the container duration of the media file in seconds.
	ProbeDuration(ctx context.Context, path string) (float64, error)

	// ExtractSegment copies the [Start, End) range of input into output
	// without re-encoding. The output file is overwritten if it exists.
	ExtractSegment(ctx context.Context, input, output string, seg interval.Interval) error
}
