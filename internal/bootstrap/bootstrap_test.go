package bootstrap

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maauso/audio-splitter/internal/config"
	"github.com/maauso/audio-splitter/internal/storage"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewDependencies_Local(t *testing.T) {
	cfg := &config.Config{
		FFmpegPath:  "ffmpeg",
		FFprobePath: "ffprobe",
		OutputDir:   t.TempDir(),
	}

	deps, err := NewDependencies(context.Background(), cfg, testLogger(), &bytes.Buffer{})
	require.NoError(t, err)
	require.NotNil(t, deps.Splitter)
	assert.Same(t, cfg, deps.Config)
	assert.NotNil(t, deps.Logger)
}

func TestInitStorage(t *testing.T) {
	t.Run("local without S3 settings", func(t *testing.T) {
		store, err := initStorage(context.Background(), &config.Config{}, testLogger())
		require.NoError(t, err)
		assert.IsType(t, &storage.LocalStorage{}, store)
	})

	t.Run("S3 when bucket and region are set", func(t *testing.T) {
		cfg := &config.Config{
			S3Bucket:           "clips",
			S3Region:           "eu-west-1",
			S3Endpoint:         "http://localhost:9000",
			S3Prefix:           "splits",
			AWSAccessKeyID:     "key",
			AWSSecretAccessKey: "secret",
		}
		store, err := initStorage(context.Background(), cfg, testLogger())
		require.NoError(t, err)
		assert.IsType(t, &storage.S3Storage{}, store)
	})
}
