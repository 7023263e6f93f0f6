// Package split runs the two clip-splitting pipelines: one driven by a
// timestamp CSV, one driven by silence detection. Both end in the same
// stream-copy export of every planned clip.
package split

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"

	"github.com/go-playground/validator/v10"

	"github.com/maauso/audio-splitter/internal/audio"
	"github.com/maauso/audio-splitter/internal/inputfile"
	"github.com/maauso/audio-splitter/internal/interval"
	"github.com/maauso/audio-splitter/internal/media"
	"github.com/maauso/audio-splitter/internal/storage"
	"github.com/maauso/audio-splitter/internal/timestamps"
)

// Static errors for split runs.
var (
	// ErrFileNotFound is returned when an input path does not exist.
	ErrFileNotFound = errors.New("file does not exist")
	// ErrInvalidOptions is returned when options fail validation.
	ErrInvalidOptions = errors.New("invalid options")
	// ErrInputRequired is returned when the input media cannot be inferred.
	ErrInputRequired = errors.New("could not locate the input media, specify it with --input")
)

// Result summarizes a run. On error it holds whatever was completed.
type Result struct {
	// Plan is nil if the run stopped before planning.
	Plan *Plan
	// Rows is the number of parsed timestamp rows (CSV runs).
	Rows int
	// Duration is the probed media duration (silence runs).
	Duration float64
	// Silences are the detected silence intervals (silence runs).
	Silences []interval.Interval
	// TimestampsPath is the CSV written by silence runs.
	TimestampsPath string
	// Exported are the clips written so far.
	Exported []Entry
	// URLs are the published object URLs, when publishing is enabled.
	URLs []string
	// DryRun is true if nothing was exported by design.
	DryRun bool
}

// Service orchestrates probing, detection, export and publishing.
type Service struct {
	tools     media.Tools
	detector  audio.Detector
	store     storage.Storage
	logger    *slog.Logger
	out       io.Writer
	validator *validator.Validate
	publish   bool
}

// Option configures a Service.
type Option func(*Service)

// WithOutput sets where the human-readable run report is written.
// Default: io.Discard.
func WithOutput(w io.Writer) Option {
	return func(s *Service) {
		if w != nil {
			s.out = w
		}
	}
}

// WithPublishing uploads the exported clips (and the silence run's CSV)
// through the storage once every clip has been written.
func WithPublishing(enabled bool) Option {
	return func(s *Service) {
		s.publish = enabled
	}
}

// NewService creates a new Service.
func NewService(tools media.Tools, detector audio.Detector, store storage.Storage, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		tools:     tools,
		detector:  detector,
		store:     store,
		logger:    logger,
		out:       io.Discard,
		validator: validator.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SplitByCSV cuts the clips listed in a timestamp CSV.
func (s *Service) SplitByCSV(ctx context.Context, opts CSVOptions) (*Result, error) {
	if err := s.validator.Struct(opts); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidOptions, err)
	}
	if err := mustExist(opts.TimestampsPath); err != nil {
		return nil, err
	}

	rows, err := timestamps.ReadFile(opts.TimestampsPath)
	if err != nil {
		return nil, err
	}
	segments := interval.FilterMinDuration(rows, opts.MinSegmentSec)

	res := &Result{Rows: len(rows), DryRun: opts.DryRun}
	s.report("timestamps read: %d", len(rows))
	s.report("valid segments: %d", len(segments))

	input := opts.InputPath
	if input == "" {
		inferred, err := inputfile.Infer(opts.TimestampsPath)
		switch {
		case err == nil:
			input = inferred
			s.logger.Info("inferred input media",
				slog.String("input", input),
				slog.String("timestamps", opts.TimestampsPath),
			)
		case opts.DryRun:
			s.logger.Debug("dry run without input", slog.String("reason", err.Error()))
			s.report("dry run, nothing exported")
			return res, nil
		default:
			return res, fmt.Errorf("%w: %w", ErrInputRequired, err)
		}
	}
	if err := mustExist(input); err != nil {
		return res, err
	}

	if !opts.DryRun {
		if err := s.tools.CheckTools(); err != nil {
			return res, err
		}
	}

	plan := NewPlan(input, opts.OutputDir, segments, opts.StartIndex)
	res.Plan = plan

	if opts.DryRun {
		s.report("output directory: %s", plan.Dir)
		for _, e := range plan.Entries {
			s.report("planned: %s %s", e.Name(), e.Segment)
		}
		return res, nil
	}

	if err := s.store.PrepareDir(ctx, plan.Dir); err != nil {
		return res, err
	}
	s.report("output directory: %s", plan.Dir)

	if err := s.export(ctx, plan, res); err != nil {
		return res, err
	}
	if err := s.publishAll(ctx, plan, res, nil); err != nil {
		return res, err
	}
	return res, nil
}

// SplitBySilence detects silences in the input, records the segments
// between them in a CSV next to the clips, and cuts every segment.
func (s *Service) SplitBySilence(ctx context.Context, opts SilenceOptions) (*Result, error) {
	if err := s.validator.Struct(opts); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidOptions, err)
	}
	if err := mustExist(opts.InputPath); err != nil {
		return nil, err
	}
	if err := s.tools.CheckTools(); err != nil {
		return nil, err
	}

	res := &Result{}

	duration, err := s.tools.ProbeDuration(ctx, opts.InputPath)
	if err != nil {
		return res, fmt.Errorf("probe duration: %w", err)
	}
	res.Duration = duration

	silences, err := s.detector.Detect(ctx, opts.InputPath, opts.detectOpts())
	if err != nil {
		return res, fmt.Errorf("detect silences: %w", err)
	}
	res.Silences = silences

	all := interval.Complement(silences, duration)
	segments := interval.FilterMinDuration(all, opts.MinSegmentSec)
	s.logger.Info("segments computed",
		slog.String("input", opts.InputPath),
		slog.Float64("duration", duration),
		slog.Int("silences", len(silences)),
		slog.Int("segments", len(all)),
		slog.Int("kept", len(segments)),
	)

	plan := NewPlan(opts.InputPath, opts.OutputDir, segments, opts.StartIndex)
	res.Plan = plan

	if err := s.store.PrepareDir(ctx, plan.Dir); err != nil {
		return res, err
	}

	s.report("total duration: %.3f s", duration)
	s.report("silences detected: %d", len(silences))
	s.report("segments to export: %d", len(segments))

	csvPath := plan.TimestampsPath()
	if err := timestamps.WriteFile(csvPath, plan.Segments()); err != nil {
		return res, err
	}
	res.TimestampsPath = csvPath
	s.report("timestamps written: %s", csvPath)

	if err := s.export(ctx, plan, res); err != nil {
		return res, err
	}
	if err := s.publishAll(ctx, plan, res, []string{csvPath}); err != nil {
		return res, err
	}
	return res, nil
}

// export cuts every entry in order. The first failure stops the run.
func (s *Service) export(ctx context.Context, plan *Plan, res *Result) error {
	for _, e := range plan.Entries {
		if err := s.tools.ExtractSegment(ctx, plan.Input, e.Path, e.Segment); err != nil {
			s.logger.Error("export failed",
				slog.String("output", e.Path),
				slog.String("error", err.Error()),
			)
			return fmt.Errorf("export failed: %s: %w", e.Path, err)
		}
		res.Exported = append(res.Exported, e)
		s.logger.Debug("segment exported",
			slog.String("output", e.Path),
			slog.Float64("start", e.Segment.Start),
			slog.Float64("end", e.Segment.End),
		)
		s.report("exported: %s %s", e.Name(), e.Segment)
	}
	return nil
}

// publishAll uploads extra files and every exported clip as
// {base}/{file name}.
func (s *Service) publishAll(ctx context.Context, plan *Plan, res *Result, extra []string) error {
	if !s.publish {
		return nil
	}

	files := append([]string{}, extra...)
	for _, e := range res.Exported {
		files = append(files, e.Path)
	}

	for _, file := range files {
		key := path.Join(plan.Base, filepath.Base(file))
		url, err := s.uploadFile(ctx, key, file)
		if err != nil {
			return fmt.Errorf("publish %s: %w", file, err)
		}
		res.URLs = append(res.URLs, url)
		s.logger.Info("published", slog.String("file", file), slog.String("url", url))
		s.report("uploaded: %s", url)
	}
	return nil
}

func (s *Service) uploadFile(ctx context.Context, key, file string) (string, error) {
	f, err := os.Open(file) // #nosec G304 - file was written by this run
	if err != nil {
		return "", fmt.Errorf("open: %w", err)
	}
	defer func() { _ = f.Close() }()

	return s.store.Upload(ctx, key, f)
}

func (s *Service) report(format string, args ...any) {
	_, _ = fmt.Fprintf(s.out, format+"\n", args...)
}

func mustExist(p string) error {
	if _, err := os.Stat(p); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrFileNotFound, p)
		}
		return fmt.Errorf("stat %s: %w", p, err)
	}
	return nil
}
