// Package inputfile locates the media file that a timestamp CSV refers to
// when none is given explicitly.
package inputfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// SegmentsSuffix is appended to the media base name by the silence splitter
// when it writes its timestamp CSV.
const SegmentsSuffix = "_segments"

// Static errors for input inference.
var (
	// ErrInputNotFound is returned when the directory holds no usable media file.
	ErrInputNotFound = errors.New("no media file found next to the timestamps")
	// ErrInputAmbiguous is returned when several media files could match.
	ErrInputAmbiguous = errors.New("several media files found next to the timestamps")
)

// MediaExtensions is the set of extensions recognized as media files.
var MediaExtensions = map[string]struct{}{
	".mp3":  {},
	".wav":  {},
	".m4a":  {},
	".flac": {},
	".aac":  {},
	".ogg":  {},
	".wma":  {},
	".mp4":  {},
	".mkv":  {},
	".webm": {},
}

// IsMedia reports whether path carries a recognized media extension.
func IsMedia(path string) bool {
	_, ext := SplitName(path)
	_, ok := MediaExtensions[ext]
	return ok
}

// SplitName returns the base name of path without its last extension, and
// that extension lower-cased. Dot-files without a further extension have no
// extension.
func SplitName(path string) (stem, ext string) {
	name := filepath.Base(path)
	ext = filepath.Ext(name)
	if ext == name {
		return name, ""
	}
	return strings.TrimSuffix(name, ext), strings.ToLower(ext)
}

// Infer finds the media file belonging to the timestamp file at tsPath.
//
// The expected base name is the CSV's own base name with a trailing
// "_segments" removed. If exactly one media file in the CSV's directory has
// that base name it is returned; otherwise the only media file in the
// directory is returned. Anything else is ErrInputNotFound or
// ErrInputAmbiguous.
func Infer(tsPath string) (string, error) {
	stem, _ := SplitName(tsPath)
	want := strings.TrimSuffix(stem, SegmentsSuffix)

	dir := filepath.Dir(tsPath)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("scan %s: %w", dir, err)
	}

	var candidates, matches []string
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if !IsMedia(path) || !isRegular(path) {
			continue
		}
		candidates = append(candidates, path)
		if s, _ := SplitName(path); s == want {
			matches = append(matches, path)
		}
	}

	switch {
	case len(matches) == 1:
		return matches[0], nil
	case len(candidates) == 1:
		return candidates[0], nil
	case len(candidates) == 0:
		return "", fmt.Errorf("%w in %s", ErrInputNotFound, dir)
	default:
		return "", fmt.Errorf("%w in %s: %s", ErrInputAmbiguous, dir, strings.Join(names(candidates), ", "))
	}
}

// isRegular follows symlinks, so a linked media file still counts.
func isRegular(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func names(paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = filepath.Base(p)
	}
	return out
}
