// Package storage manages where split results go: the local output
// directory and, optionally, an S3 bucket the results are published to.
package storage

import (
	"context"
	"io"
)

// Storage defines the interface for output directories and publishing.
type Storage interface {
	// PrepareDir creates dir and any missing parents. Calling it for an
	// existing directory is a no-op.
	PrepareDir(ctx context.Context, dir string) error

	// Upload publishes data under key and returns its URL.
	// Returns ErrS3NotConfigured if no remote store is configured.
	Upload(ctx context.Context, key string, data io.Reader) (url string, err error)
}
