package audio

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"os/exec"
	"regexp"
	"strconv"

	"github.com/maauso/audio-splitter/internal/interval"
)

// Regex patterns for silence start and end.
// Example: [silencedetect @ 0x55f1a2b3c4d0] silence_start: 10.5
// Example: [silencedetect @ 0x55f1a2b3c4d0] silence_end: 11.2 | silence_duration: 0.7
var (
	silenceStartRe = regexp.MustCompile(`silence_start:\s*(-?[0-9.]+)`)
	silenceEndRe   = regexp.MustCompile(`silence_end:\s*(-?[0-9.]+)`)
)

// SilenceDetectParser parses the text ffmpeg's silencedetect filter writes
// to stderr.
type SilenceDetectParser struct{}

// Verify interface implementation at compile time.
var _ Parser = SilenceDetectParser{}

// Parse extracts start and end markers independently, in order of
// appearance, and pairs them with interval.PairMarkers. Negative markers
// (ffmpeg reports a small negative start for silence at time zero) are
// clamped to zero. Unparseable markers are ignored.
func (SilenceDetectParser) Parse(output string) ([]interval.Interval, error) {
	starts := extractMarkers(silenceStartRe, output)
	ends := extractMarkers(silenceEndRe, output)
	return interval.PairMarkers(starts, ends), nil
}

func extractMarkers(re *regexp.Regexp, output string) []float64 {
	var values []float64
	for _, m := range re.FindAllStringSubmatch(output, -1) {
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		values = append(values, math.Max(v, 0))
	}
	return values
}

// FFmpegDetector implements Detector using the ffmpeg CLI.
type FFmpegDetector struct {
	ffmpegPath string
	parser     Parser
}

// NewFFmpegDetector creates a new FFmpegDetector.
// If ffmpegPath is empty, it defaults to "ffmpeg" (found in PATH).
// A nil parser selects SilenceDetectParser.
func NewFFmpegDetector(ffmpegPath string, parser Parser) *FFmpegDetector {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if parser == nil {
		parser = SilenceDetectParser{}
	}
	return &FFmpegDetector{ffmpegPath: ffmpegPath, parser: parser}
}

// Verify interface implementation at compile time.
var _ Detector = (*FFmpegDetector)(nil)

// Detect runs ffmpeg's silencedetect filter over the whole input, discarding
// the decoded output, and parses the markers it reports.
func (d *FFmpegDetector) Detect(ctx context.Context, inputPath string, opts DetectOpts) ([]interval.Interval, error) {
	// #nosec G204 - ffmpegPath is set by the application, not user input
	cmd := exec.CommandContext(ctx, d.ffmpegPath, detectArgs(inputPath, opts)...)

	// ffmpeg writes silencedetect output to stderr
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("silence detection cancelled: %w", ctx.Err())
		}
		return nil, fmt.Errorf("silence detection: %w, stderr: %s", err, lastLines(stderr.Bytes(), 5))
	}

	silences, err := d.parser.Parse(stderr.String())
	if err != nil {
		return nil, fmt.Errorf("parse silence output: %w", err)
	}
	return silences, nil
}

func detectArgs(inputPath string, opts DetectOpts) []string {
	filter := fmt.Sprintf("silencedetect=noise=%gdB:d=%g", opts.NoiseDB, opts.MinSilenceSec)
	return []string{
		"-hide_banner",
		"-nostats",
		"-i", inputPath,
		"-af", filter,
		"-f", "null",
		"-",
	}
}

// lastLines keeps error messages short; silencedetect stderr can be huge.
func lastLines(b []byte, n int) string {
	lines := bytes.Split(bytes.TrimRight(b, "\n"), []byte("\n"))
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return string(bytes.Join(lines, []byte("\n")))
}
