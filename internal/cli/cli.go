// Package cli defines the cobra commands of the two splitter tools.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/maauso/audio-splitter/internal/split"
)

// Splitter runs split pipelines. Implemented by *split.Service.
type Splitter interface {
	SplitByCSV(ctx context.Context, opts split.CSVOptions) (*split.Result, error)
	SplitBySilence(ctx context.Context, opts split.SilenceOptions) (*split.Result, error)
}

var _ Splitter = (*split.Service)(nil)

// NewSplitByCSVCommand returns the split-by-csv root command.
// outputDir is the default for --output.
func NewSplitByCSVCommand(svc Splitter, outputDir string) *cobra.Command {
	opts := split.DefaultCSVOptions()
	if outputDir != "" {
		opts.OutputDir = outputDir
	}

	cmd := &cobra.Command{
		Use:   "split-by-csv TIMESTAMPS",
		Short: "Cut an audio file into clips listed in a start,end CSV",
		Long: `Cut an audio file into clips using a CSV of "start,end" rows in seconds.

Clips are stream-copied to OUTPUT/<name>/<name>_NNN.<ext>. Rows that cannot be
parsed, or are shorter than --min-seg, are skipped. Without --input the media
file is looked up next to the CSV.

Examples:
  split-by-csv talk_segments.csv
  split-by-csv cuts.csv -i talk.mp3 -o clips --min-seg 1
  split-by-csv cuts.csv --dry-run`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.TimestampsPath = args[0]
			_, err := svc.SplitByCSV(cmd.Context(), opts)
			return err
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.InputPath, "input", "i", "", "media file to cut (inferred from the CSV location when omitted)")
	flags.StringVarP(&opts.OutputDir, "output", "o", opts.OutputDir, "root output directory")
	flags.Float64Var(&opts.MinSegmentSec, "min-seg", opts.MinSegmentSec, "skip rows shorter than this many seconds")
	flags.IntVar(&opts.StartIndex, "start-index", opts.StartIndex, "number of the first clip")
	flags.BoolVar(&opts.DryRun, "dry-run", false, "print the plan without running ffmpeg")

	return cmd
}

// NewSplitBySilenceCommand returns the split-by-silence root command.
// outputDir is the default for --output.
func NewSplitBySilenceCommand(svc Splitter, outputDir string) *cobra.Command {
	opts := split.DefaultSilenceOptions()
	if outputDir != "" {
		opts.OutputDir = outputDir
	}

	cmd := &cobra.Command{
		Use:   "split-by-silence INPUT",
		Short: "Cut an audio file into clips at its silences",
		Long: `Detect silences with ffmpeg's silencedetect filter and cut the audio
between them into clips.

The kept segments are recorded in OUTPUT/<name>/<name>_segments.csv, which
split-by-csv accepts as-is.

Examples:
  split-by-silence talk.mp3
  split-by-silence talk.mp3 --min-silence 1.5 --threshold=-40 --min-seg 10`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.InputPath = args[0]
			_, err := svc.SplitBySilence(cmd.Context(), opts)
			return err
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.OutputDir, "output", "o", opts.OutputDir, "root output directory")
	flags.Float64Var(&opts.MinSilenceSec, "min-silence", opts.MinSilenceSec, "shortest pause, in seconds, that separates segments")
	flags.Float64Var(&opts.ThresholdDB, "threshold", opts.ThresholdDB, "noise level in dB below which audio counts as silence")
	flags.Float64Var(&opts.MinSegmentSec, "min-seg", opts.MinSegmentSec, "skip segments shorter than this many seconds")
	flags.IntVar(&opts.StartIndex, "start-index", opts.StartIndex, "number of the first clip")

	return cmd
}
