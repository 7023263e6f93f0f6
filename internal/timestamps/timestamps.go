// Package timestamps reads and writes the two-column "start,end" CSV files
// exchanged by the splitters. The writer's output is always accepted by the
// parser, so the silence splitter's CSV can drive the CSV splitter.
package timestamps

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/maauso/audio-splitter/internal/interval"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Parse reads "start,end" records from r. Records that are empty, have
// fewer than two columns, hold values that are not finite decimal numbers,
// or are malformed CSV are skipped. Only read errors are returned.
func Parse(r io.Reader) ([]interval.Interval, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read timestamps: %w", err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.ReuseRecord = true

	var rows []interval.Interval
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				continue
			}
			return nil, fmt.Errorf("read timestamps: %w", err)
		}
		if len(record) < 2 {
			continue
		}

		start, ok := parseSeconds(record[0])
		if !ok {
			continue
		}
		end, ok := parseSeconds(record[1])
		if !ok {
			continue
		}
		rows = append(rows, interval.Interval{Start: start, End: end})
	}

	return rows, nil
}

func parseSeconds(field string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// ReadFile parses the timestamp file at path.
func ReadFile(path string) ([]interval.Interval, error) {
	f, err := os.Open(path) // #nosec G304 - path comes from the command line
	if err != nil {
		return nil, fmt.Errorf("open timestamps: %w", err)
	}
	defer func() { _ = f.Close() }()

	return Parse(f)
}

// Write emits one "start,end" line per segment with millisecond precision.
func Write(w io.Writer, segments []interval.Interval) error {
	cw := csv.NewWriter(w)
	for _, seg := range segments {
		record := []string{formatSeconds(seg.Start), formatSeconds(seg.End)}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write timestamps: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("write timestamps: %w", err)
	}
	return nil
}

func formatSeconds(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}

// WriteFile writes segments to path, creating parent directories as needed.
// An existing file is replaced.
func WriteFile(path string, segments []interval.Interval) error {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("create timestamps directory: %w", err)
	}

	f, err := os.Create(path) // #nosec G304 - path is built by the splitter
	if err != nil {
		return fmt.Errorf("create timestamps file: %w", err)
	}

	if err := Write(f, segments); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close timestamps file: %w", err)
	}
	return nil
}
