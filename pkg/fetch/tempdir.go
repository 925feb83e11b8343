package fetch

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// TempDir is the per-process scratch directory downloads land in before
// being moved into the output folder. Each process gets a uniquely named
// subdirectory so concurrent invocations never collide.
type TempDir struct {
	path   string
	logger zerolog.Logger
}

// NewTempDir creates a fresh scratch directory under base and sweeps stale
// siblings left behind by crashed runs. maxAge bounds how old a sibling may
// be before it is considered abandoned.
func NewTempDir(base string, maxAge time.Duration, logger zerolog.Logger) (*TempDir, error) {
	sweepStale(base, maxAge, logger)

	unique := fmt.Sprintf("%d-%s", os.Getpid(), uuid.New())
	dir := filepath.Join(base, unique)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create temp directory: %w", err)
	}

	return &TempDir{path: dir, logger: logger}, nil
}

// Path returns the scratch directory path
func (t *TempDir) Path() string {
	return t.path
}

// NewFile reserves a temp file for the download of key, preserving the
// key's extension, and returns its path.
func (t *TempDir) NewFile(key string) (string, error) {
	ext := path.Ext(key)
	file, err := os.CreateTemp(t.path, "s3dl_*"+ext)
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	file.Close()
	return file.Name(), nil
}

// Remove deletes the scratch directory and everything in it
func (t *TempDir) Remove() {
	if err := os.RemoveAll(t.path); err != nil {
		t.logger.Warn().Err(err).Str("dir", t.path).Msg("failed to clean temp directory")
	}
}

// sweepStale removes sibling scratch directories older than maxAge.
// Crashed or killed runs never clean up after themselves, so the next run
// does it for them.
func sweepStale(base string, maxAge time.Duration, logger zerolog.Logger) {
	entries, err := os.ReadDir(base)
	if err != nil {
		return
	}

	now := time.Now()
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		full := filepath.Join(base, entry.Name())
		info, err := entry.Info()
		if err != nil {
			continue
		}

		if now.Sub(info.ModTime()) > maxAge {
			if err := os.RemoveAll(full); err != nil {
				logger.Warn().Err(err).Str("dir", full).Msg("could not clean stale temp directory")
				continue
			}
			logger.Debug().Str("dir", full).Msg("cleaned stale temp directory")
		}
	}
}
