package split

import (
	"github.com/maauso/audio-splitter/internal/audio"
	"github.com/maauso/audio-splitter/internal/config"
)

// CSVOptions configures a timestamp-driven split.
type CSVOptions struct {
	// TimestampsPath is the "start,end" CSV to read.
	TimestampsPath string `validate:"required"`
	// InputPath is the media file to cut. When empty it is inferred from
	// the timestamps file's directory.
	InputPath string
	// OutputDir is the root output directory.
	OutputDir string `validate:"required"`
	// MinSegmentSec drops rows shorter than this.
	MinSegmentSec float64 `validate:"gte=0"`
	// StartIndex is the number of the first clip.
	StartIndex int `validate:"gte=0"`
	// DryRun prints the plan without running ffmpeg or touching the disk.
	DryRun bool
}

// DefaultCSVOptions returns the default options for a timestamp-driven split.
func DefaultCSVOptions() CSVOptions {
	return CSVOptions{
		OutputDir:     config.DefaultOutputDir,
		MinSegmentSec: 0.5,
		StartIndex:    1,
	}
}

// SilenceOptions configures a silence-driven split.
type SilenceOptions struct {
	// InputPath is the media file to analyse and cut.
	InputPath string `validate:"required"`
	// OutputDir is the root output directory.
	OutputDir string `validate:"required"`
	// MinSilenceSec is the shortest pause that separates segments.
	MinSilenceSec float64 `validate:"gt=0"`
	// ThresholdDB is the level below which audio counts as silence.
	ThresholdDB float64 `validate:"lte=0"`
	// MinSegmentSec drops segments shorter than this.
	MinSegmentSec float64 `validate:"gte=0"`
	// StartIndex is the number of the first clip.
	StartIndex int `validate:"gte=0"`
}

// DefaultSilenceOptions returns the default options for a silence-driven split.
func DefaultSilenceOptions() SilenceOptions {
	detect := audio.DefaultDetectOpts()
	return SilenceOptions{
		OutputDir:     config.DefaultOutputDir,
		MinSilenceSec: detect.MinSilenceSec,
		ThresholdDB:   detect.NoiseDB,
		MinSegmentSec: 5,
		StartIndex:    1,
	}
}

func (o SilenceOptions) detectOpts() audio.DetectOpts {
	return audio.DetectOpts{
		MinSilenceSec: o.MinSilenceSec,
		NoiseDB:       o.ThresholdDB,
	}
}
