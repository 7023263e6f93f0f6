package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"

	"github.com/maauso/audio-splitter/internal/interval"
)

// MinExtractSec is the shortest duration ever passed to ffmpeg's -t option.
const MinExtractSec = 0.01

// Static errors for media operations.
var (
	// ErrToolsMissing is returned when ffmpeg or ffprobe cannot be found.
	ErrToolsMissing = errors.New("ffmpeg or ffprobe is missing, install them and retry")
	// ErrInvalidDuration is returned when a probed duration is not positive.
	ErrInvalidDuration = errors.New("invalid duration: must be positive")
	// ErrFFprobeExecution is returned when ffprobe command fails.
	ErrFFprobeExecution = errors.New("ffprobe execution failed")
)

// Toolchain implements Tools using the ffmpeg and ffprobe CLIs.
type Toolchain struct {
	ffmpegPath  string
	ffprobePath string
}

// NewToolchain creates a new Toolchain.
// Empty paths default to "ffmpeg" and "ffprobe" (found via PATH).
func NewToolchain(ffmpegPath, ffprobePath string) *Toolchain {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	return &Toolchain{ffmpegPath: ffmpegPath, ffprobePath: ffprobePath}
}

// Verify interface implementation at compile time.
var _ Tools = (*Toolchain)(nil)

// CheckTools verifies both executables resolve, reporting every missing one.
func (t *Toolchain) CheckTools() error {
	var missing []string
	for _, bin := range []string{t.ffmpegPath, t.ffprobePath} {
		if _, err := exec.LookPath(bin); err != nil {
			missing = append(missing, bin)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s not found", ErrToolsMissing, strings.Join(missing, ", "))
	}
	return nil
}

// ProbeDuration returns the duration in seconds of a media file.
// It uses ffprobe to extract the duration metadata.
func (t *Toolchain) ProbeDuration(ctx context.Context, path string) (float64, error) {
	// #nosec G204 - ffprobePath is set by the application, not user input
	cmd := exec.CommandContext(ctx, t.ffprobePath,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "csv=p=0",
		path,
	)

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return 0, fmt.Errorf("ffprobe cancelled: %w", ctx.Err())
		}
		return 0, fmt.Errorf("%w: %w, stderr: %s", ErrFFprobeExecution, err, stderr.String())
	}

	out := strings.TrimSpace(stdout.String())
	if out == "" {
		return 0, fmt.Errorf("%w: no duration reported for %s", ErrFFprobeExecution, path)
	}

	duration, err := strconv.ParseFloat(out, 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", out, err)
	}
	if duration <= 0 || math.IsInf(duration, 0) || math.IsNaN(duration) {
		return 0, fmt.Errorf("%w: got %s", ErrInvalidDuration, out)
	}

	return duration, nil
}

// ExtractSegment copies a time range of input into output using stream copy.
// Degenerate ranges are widened to MinExtractSec so ffmpeg always gets a
// positive duration.
func (t *Toolchain) ExtractSegment(ctx context.Context, input, output string, seg interval.Interval) error {
	return t.runFFmpeg(ctx, extractArgs(input, output, seg))
}

func extractArgs(input, output string, seg interval.Interval) []string {
	length := math.Max(seg.Duration(), MinExtractSec)
	return []string{
		"-hide_banner",
		"-y", // Overwrite output
		"-i", input,
		"-ss", formatSeconds(seg.Start),
		"-t", formatSeconds(length),
		"-c", "copy", // Copy without re-encoding
		output,
	}
}

func formatSeconds(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// runFFmpeg executes ffmpeg with the given arguments and returns an error
// containing stderr output if the command fails.
func (t *Toolchain) runFFmpeg(ctx context.Context, args []string) error {
	// #nosec G204 - ffmpegPath is set by the application, not user input
	cmd := exec.CommandContext(ctx, t.ffmpegPath, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("ffmpeg cancelled: %w", ctx.Err())
		}
		return &FFmpegError{
			Args:   args,
			Stderr: stderr.String(),
			Err:    err,
		}
	}

	return nil
}

// FFmpegError represents an error from running ffmpeg, including the stderr output.
type FFmpegError struct {
	Args   []string
	Stderr string
	Err    error
}

func (e *FFmpegError) Error() string {
	return fmt.Sprintf("ffmpeg error: %v\nargs: %v\nstderr: %s", e.Err, e.Args, e.Stderr)
}

func (e *FFmpegError) Unwrap() error {
	return e.Err
}
