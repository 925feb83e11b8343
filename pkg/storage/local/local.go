package local

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/utm-trs/imgfetch/pkg/storage"
)

// Backend reads images from a mounted attachments directory. This mirrors
// the deployment mode where the image store is NFS-mounted instead of
// reachable over S3.
type Backend struct {
	name     string
	basePath string
}

func init() {
	storage.RegisterBackend("local", func(ctx context.Context, cfg storage.Config) (storage.Backend, error) {
		return New(cfg)
	})
}

// New creates a new local filesystem source
func New(cfg storage.Config) (*Backend, error) {
	pathVal, ok := cfg.Options["path"]
	if !ok {
		return nil, fmt.Errorf("missing required option: path")
	}

	path, ok := pathVal.(string)
	if !ok {
		return nil, fmt.Errorf("path must be a string")
	}

	if info, err := os.Stat(path); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("attachments directory not found: %s", path)
	}

	return &Backend{
		name:     cfg.Name,
		basePath: path,
	}, nil
}

func (b *Backend) Name() string { return b.name }
func (b *Backend) Type() string { return "local" }

// Fetch copies an object from the mount into a local file
func (b *Backend) Fetch(ctx context.Context, key, destPath string) error {
	source, err := os.Open(filepath.Join(b.basePath, filepath.FromSlash(key)))
	if err != nil {
		if os.IsNotExist(err) {
			return storage.ErrNotFound
		}
		return storage.WrapError(b.name, "fetch", err)
	}
	defer source.Close()

	dest, err := os.Create(destPath)
	if err != nil {
		return storage.WrapError(b.name, "fetch", err)
	}
	defer dest.Close()

	if _, err := io.Copy(dest, source); err != nil {
		os.Remove(destPath) // Clean up partial file
		return storage.WrapError(b.name, "fetch", err)
	}

	return nil
}

// List returns objects under the given key prefix
func (b *Backend) List(ctx context.Context, prefix string) ([]storage.FileInfo, error) {
	root := filepath.Join(b.basePath, filepath.FromSlash(prefix))

	var files []storage.FileInfo
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // Skip unreadable entries
		}
		if info.IsDir() || info.Size() == 0 {
			return nil
		}

		relPath, err := filepath.Rel(b.basePath, path)
		if err != nil {
			relPath = filepath.Base(path)
		}

		files = append(files, storage.FileInfo{
			Key:     filepath.ToSlash(relPath),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, storage.WrapError(b.name, "list", err)
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].ModTime.After(files[j].ModTime)
	})

	return files, nil
}

// Stat returns metadata about an object
func (b *Backend) Stat(ctx context.Context, key string) (*storage.FileInfo, error) {
	fullPath := filepath.Join(b.basePath, filepath.FromSlash(key))
	info, err := os.Stat(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, storage.ErrNotFound
		}
		return nil, storage.WrapError(b.name, "stat", err)
	}

	return &storage.FileInfo{
		Key:     key,
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}, nil
}

// Exists checks if an object exists
func (b *Backend) Exists(ctx context.Context, key string) (bool, error) {
	_, err := os.Stat(filepath.Join(b.basePath, filepath.FromSlash(key)))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, storage.WrapError(b.name, "exists", err)
	}
	return true, nil
}

// PresignURL is not supported for local mounts
func (b *Backend) PresignURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	return "", storage.ErrNotSupported
}

// Close is a no-op for local backend
func (b *Backend) Close() error {
	return nil
}
