package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrS3NotConfigured is returned when S3 operations are attempted
// without proper configuration.
var ErrS3NotConfigured = errors.New("S3 storage is not configured")

// LocalStorage implements the Storage interface using local disk only.
type LocalStorage struct {
	dirPerm os.FileMode
}

// NewLocalStorage creates a new LocalStorage instance.
func NewLocalStorage() *LocalStorage {
	return &LocalStorage{dirPerm: 0750}
}

// PrepareDir creates dir and its parents if they do not exist.
func (s *LocalStorage) PrepareDir(ctx context.Context, dir string) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("context cancelled: %w", ctx.Err())
	default:
	}

	if err := os.MkdirAll(dir, s.dirPerm); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	return nil
}

// Upload is not supported by LocalStorage and returns ErrS3NotConfigured.
func (s *LocalStorage) Upload(_ context.Context, _ string, _ io.Reader) (string, error) {
	return "", ErrS3NotConfigured
}
