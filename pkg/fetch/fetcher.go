package fetch

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/utm-trs/imgfetch/pkg/storage"
)

// Status classifies the outcome of a single image fetch
type Status string

const (
	StatusDownloaded Status = "downloaded"
	StatusMissing    Status = "missing"
	StatusFailed     Status = "failed"
)

// FileResult is the outcome of fetching one manifest entry
type FileResult struct {
	Key       string // derived storage key
	Name      string // relative name from the manifest
	LocalPath string // destination file (empty unless downloaded)
	Status    Status
	Error     error
	Duration  time.Duration
}

// Fetcher downloads images from a single source backend into an output
// folder, staging each download in a scratch directory first so the output
// folder never sees partial files.
type Fetcher struct {
	backend    storage.Backend
	tmp        *TempDir
	collection string
	logger     zerolog.Logger
}

// NewFetcher creates a fetcher for the given source and collection.
// collection may be empty for unsharded stores.
func NewFetcher(backend storage.Backend, tmp *TempDir, collection string, logger zerolog.Logger) *Fetcher {
	return &Fetcher{
		backend:    backend,
		tmp:        tmp,
		collection: collection,
		logger:     logger,
	}
}

// FetchOne downloads a single manifest entry into outputDir. Missing
// objects are reported, not treated as errors.
func (f *Fetcher) FetchOne(ctx context.Context, name, outputDir string) FileResult {
	start := time.Now()
	key := ObjectKey(f.collection, name)

	result := FileResult{Key: key, Name: name}

	log := f.logger.With().Str("key", key).Logger()
	log.Debug().Msg("checking object")

	exists, err := f.backend.Exists(ctx, key)
	if err != nil {
		result.Status = StatusFailed
		result.Error = fmt.Errorf("existence check failed: %w", err)
		result.Duration = time.Since(start)
		log.Error().Err(err).Msg("existence check failed")
		return result
	}

	if !exists {
		result.Status = StatusMissing
		result.Duration = time.Since(start)
		log.Warn().Msg("not found in image store")
		return result
	}

	tmpPath, err := f.tmp.NewFile(key)
	if err != nil {
		result.Status = StatusFailed
		result.Error = err
		result.Duration = time.Since(start)
		return result
	}
	defer os.Remove(tmpPath)

	if err := f.backend.Fetch(ctx, key, tmpPath); err != nil {
		result.Status = StatusFailed
		result.Error = fmt.Errorf("download failed: %w", err)
		result.Duration = time.Since(start)
		log.Error().Err(err).Msg("download failed")
		return result
	}

	localPath := filepath.Join(outputDir, path.Base(key))
	if err := moveFile(tmpPath, localPath); err != nil {
		result.Status = StatusFailed
		result.Error = err
		result.Duration = time.Since(start)
		log.Error().Err(err).Msg("failed to place file in output folder")
		return result
	}

	result.Status = StatusDownloaded
	result.LocalPath = localPath
	result.Duration = time.Since(start)
	log.Info().Str("saved", localPath).Msg("downloaded")
	return result
}

// moveFile renames src to dst, falling back to copy+remove when the
// scratch and output directories sit on different filesystems.
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	source, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open downloaded file: %w", err)
	}
	defer source.Close()

	dest, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer dest.Close()

	if _, err := io.Copy(dest, source); err != nil {
		os.Remove(dst)
		return fmt.Errorf("failed to copy into output folder: %w", err)
	}

	return os.Remove(src)
}
