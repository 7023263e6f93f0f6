package audio

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maauso/audio-splitter/internal/interval"
)

// checkFFmpeg skips test if ffmpeg is not available.
func checkFFmpeg(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		t.Skip("ffmpeg not found in PATH, skipping test")
	}
}

// fakeFFmpeg writes a shell script that prints stderrText to stderr and
// exits with code.
func fakeFFmpeg(t *testing.T, stderrText string, code int) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script fakes need a POSIX shell")
	}
	dir := t.TempDir()
	textPath := filepath.Join(dir, "stderr.txt")
	require.NoError(t, os.WriteFile(textPath, []byte(stderrText), 0600))

	script := fmt.Sprintf("#!/bin/sh\ncat %q >&2\nexit %d\n", textPath, code)
	path := filepath.Join(dir, "ffmpeg")
	require.NoError(t, os.WriteFile(path, []byte(script), 0700))
	return path
}

// createTestWAV creates a test WAV file with specified duration and optional silences.
// silenceAt is a list of [start, duration] pairs indicating where to insert silence.
func createTestWAV(t *testing.T, outputPath string, durationSec float64, silenceAt [][2]float64) {
	t.Helper()

	var inputs []string
	parts := 0
	currentTime := 0.0

	for _, silence := range silenceAt {
		if silence[0] > currentTime {
			inputs = append(inputs, "-f", "lavfi", "-i", "sine=frequency=440:duration="+formatDuration(silence[0]-currentTime))
			parts++
		}
		inputs = append(inputs, "-f", "lavfi", "-i", "anullsrc=channel_layout=mono:sample_rate=16000:duration="+formatDuration(silence[1]))
		parts++
		currentTime = silence[0] + silence[1]
	}
	if currentTime < durationSec {
		inputs = append(inputs, "-f", "lavfi", "-i", "sine=frequency=440:duration="+formatDuration(durationSec-currentTime))
		parts++
	}

	var concatInputs string
	for i := 0; i < parts; i++ {
		concatInputs += "[" + strconv.Itoa(i) + ":a]"
	}
	concatFilter := concatInputs + "concat=n=" + strconv.Itoa(parts) + ":v=0:a=1[out]"

	args := append(inputs,
		"-filter_complex", concatFilter,
		"-map", "[out]",
		"-ar", "16000", "-ac", "1",
		"-y", outputPath,
	)

	cmd := exec.Command("ffmpeg", args...)
	stderr, _ := cmd.CombinedOutput()
	if _, err := os.Stat(outputPath); os.IsNotExist(err) {
		t.Fatalf("failed to create test WAV with silences: %s", string(stderr))
	}
}

func formatDuration(sec float64) string {
	// Format with 3 decimal places for ffmpeg
	return fmt.Sprintf("%.3f", sec)
}

func TestDefaultDetectOpts(t *testing.T) {
	opts := DefaultDetectOpts()
	assert.Equal(t, 0.8, opts.MinSilenceSec)
	assert.Equal(t, -35.0, opts.NoiseDB)
}

func TestNewFFmpegDetector(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		d := NewFFmpegDetector("", nil)
		assert.Equal(t, "ffmpeg", d.ffmpegPath)
		assert.IsType(t, SilenceDetectParser{}, d.parser)
	})

	t.Run("custom path", func(t *testing.T) {
		d := NewFFmpegDetector("/custom/path/ffmpeg", nil)
		assert.Equal(t, "/custom/path/ffmpeg", d.ffmpegPath)
	})
}

func TestSilenceDetectParser_Parse(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   []interval.Interval
	}{
		{
			name: "paired markers",
			output: `
[silencedetect @ 0x55f1a2b3c4d0] silence_start: 10.5
[silencedetect @ 0x55f1a2b3c4d0] silence_end: 11.2 | silence_duration: 0.7
[silencedetect @ 0x55f1a2b3c4d0] silence_start: 45
[silencedetect @ 0x55f1a2b3c4d0] silence_end: 46.5 | silence_duration: 1.5
`,
			want: []interval.Interval{{Start: 10.5, End: 11.2}, {Start: 45, End: 46.5}},
		},
		{
			name: "file ends in silence",
			output: `
[silencedetect @ 0x1] silence_start: 3.25
[silencedetect @ 0x1] silence_end: 4 | silence_duration: 0.75
[silencedetect @ 0x1] silence_start: 58.1
`,
			want: []interval.Interval{{Start: 3.25, End: 4}},
		},
		{
			name: "negative start clamped to zero",
			output: `
[silencedetect @ 0x1] silence_start: -0.00133333
[silencedetect @ 0x1] silence_end: 1.8 | silence_duration: 1.80133
`,
			want: []interval.Interval{{Start: 0, End: 1.8}},
		},
		{
			name: "stray end marker skipped",
			output: `
[silencedetect @ 0x1] silence_end: 0.5 | silence_duration: 0.5
[silencedetect @ 0x1] silence_start: 2
[silencedetect @ 0x1] silence_end: 3 | silence_duration: 1
`,
			want: []interval.Interval{{Start: 2, End: 3}},
		},
		{
			name: "markers interleaved with other output",
			output: `Input #0, wav, from 'in.wav':
  Duration: 00:01:00.00, bitrate: 256 kb/s
[silencedetect @ 0x1] silence_start: 5size=N/A time=00:00:05.00 bitrate=N/A
[silencedetect @ 0x1] silence_end: 6 | silence_duration: 1
`,
			want: []interval.Interval{{Start: 5, End: 6}},
		},
		{
			name: "garbage marker ignored",
			output: `
[silencedetect @ 0x1] silence_start: 1.2.3
[silencedetect @ 0x1] silence_start: 7
[silencedetect @ 0x1] silence_end: 8 | silence_duration: 1
`,
			want: []interval.Interval{{Start: 7, End: 8}},
		},
		{
			name:   "no markers",
			output: "size=N/A time=00:00:10.00 bitrate=N/A speed= 900x\n",
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SilenceDetectParser{}.Parse(tt.output)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetectArgs(t *testing.T) {
	args := detectArgs("talk.mp3", DetectOpts{MinSilenceSec: 0.8, NoiseDB: -35})
	assert.Equal(t, []string{
		"-hide_banner", "-nostats",
		"-i", "talk.mp3",
		"-af", "silencedetect=noise=-35dB:d=0.8",
		"-f", "null", "-",
	}, args)
}

func TestFFmpegDetector_Detect_FakeFFmpeg(t *testing.T) {
	ctx := context.Background()

	t.Run("parses stderr", func(t *testing.T) {
		out := "[silencedetect @ 0x1] silence_start: 2\n[silencedetect @ 0x1] silence_end: 3 | silence_duration: 1\n"
		d := NewFFmpegDetector(fakeFFmpeg(t, out, 0), nil)

		got, err := d.Detect(ctx, "in.wav", DefaultDetectOpts())
		require.NoError(t, err)
		assert.Equal(t, []interval.Interval{{Start: 2, End: 3}}, got)
	})

	t.Run("ffmpeg failure", func(t *testing.T) {
		d := NewFFmpegDetector(fakeFFmpeg(t, "in.wav: Invalid data found when processing input\n", 1), nil)

		_, err := d.Detect(ctx, "in.wav", DefaultDetectOpts())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Invalid data found")

		var exitErr *exec.ExitError
		assert.True(t, errors.As(err, &exitErr))
	})

	t.Run("custom parser", func(t *testing.T) {
		want := []interval.Interval{{Start: 1, End: 2}}
		d := NewFFmpegDetector(fakeFFmpeg(t, "anything", 0), parserFunc(func(string) ([]interval.Interval, error) {
			return want, nil
		}))

		got, err := d.Detect(ctx, "in.wav", DefaultDetectOpts())
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("parser error", func(t *testing.T) {
		d := NewFFmpegDetector(fakeFFmpeg(t, "anything", 0), parserFunc(func(string) ([]interval.Interval, error) {
			return nil, errors.New("unsupported format")
		}))

		_, err := d.Detect(ctx, "in.wav", DefaultDetectOpts())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported format")
	})
}

type parserFunc func(string) ([]interval.Interval, error)

func (f parserFunc) Parse(s string) ([]interval.Interval, error) { return f(s) }

func TestFFmpegDetector_Detect_WithSilences(t *testing.T) {
	checkFFmpeg(t)

	tmpDir := t.TempDir()
	inputPath := filepath.Join(tmpDir, "speech.wav")

	// 20 second audio with 1.5s silences at 5s and 12s
	createTestWAV(t, inputPath, 20, [][2]float64{{5, 1.5}, {12, 1.5}})

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	d := NewFFmpegDetector("", nil)
	silences, err := d.Detect(ctx, inputPath, DetectOpts{MinSilenceSec: 1, NoiseDB: -40})
	require.NoError(t, err)
	require.Len(t, silences, 2)

	assert.InDelta(t, 5.0, silences[0].Start, 0.1)
	assert.InDelta(t, 6.5, silences[0].End, 0.1)
	assert.InDelta(t, 12.0, silences[1].Start, 0.1)
	assert.InDelta(t, 13.5, silences[1].End, 0.1)
}

func TestFFmpegDetector_Detect_ContextCancellation(t *testing.T) {
	checkFFmpeg(t)

	tmpDir := t.TempDir()
	inputPath := filepath.Join(tmpDir, "test.wav")
	createTestWAV(t, inputPath, 3, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewFFmpegDetector("", nil).Detect(ctx, inputPath, DefaultDetectOpts())
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLastLines(t *testing.T) {
	assert.Equal(t, "c\nd", lastLines([]byte("a\nb\nc\nd\n"), 2))
	assert.Equal(t, "a", lastLines([]byte("a"), 5))
}
