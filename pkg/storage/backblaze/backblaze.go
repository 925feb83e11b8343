package backblaze

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/kurin/blazer/b2"

	"github.com/utm-trs/imgfetch/pkg/storage"
)

type Backend struct {
	name   string
	client *b2.Client
	bucket *b2.Bucket
	prefix string
}

func init() {
	storage.RegisterBackend("backblaze", func(ctx context.Context, cfg storage.Config) (storage.Backend, error) {
		return New(ctx, cfg)
	})
}

// New creates a new Backblaze B2 source backend
func New(ctx context.Context, cfg storage.Config) (*Backend, error) {
	b2Cfg, err := parseConfig(cfg.Options)
	if err != nil {
		return nil, err
	}

	client, err := b2.NewClient(ctx, b2Cfg.AccountID, b2Cfg.ApplicationKey)
	if err != nil {
		return nil, storage.WrapError(cfg.Name, "init", storage.ErrAuthFailed)
	}

	bucket, err := client.Bucket(ctx, b2Cfg.BucketName)
	if err != nil {
		return nil, storage.WrapError(cfg.Name, "get bucket", err)
	}

	return &Backend{
		name:   cfg.Name,
		client: client,
		bucket: bucket,
		prefix: strings.TrimPrefix(b2Cfg.Prefix, "/"),
	}, nil
}

func (b *Backend) Name() string { return b.name }
func (b *Backend) Type() string { return "backblaze" }

// Fetch downloads an object from B2 into a local file
func (b *Backend) Fetch(ctx context.Context, key, destPath string) error {
	return storage.WithRetry(ctx, storage.DefaultRetryConfig(), func() error {
		file, err := os.Create(destPath)
		if err != nil {
			return err
		}
		defer file.Close()

		obj := b.bucket.Object(path.Join(b.prefix, key))
		reader := obj.NewReader(ctx)

		if _, err := io.Copy(file, reader); err != nil {
			reader.Close()
			os.Remove(destPath) // Clean up partial file
			if b2.IsNotExist(err) {
				return storage.ErrNotFound
			}
			return storage.WrapError(b.name, "download", err)
		}

		if err := reader.Close(); err != nil {
			return storage.WrapError(b.name, "download", err)
		}

		return nil
	})
}

// List returns objects under the given key prefix
func (b *Backend) List(ctx context.Context, prefix string) ([]storage.FileInfo, error) {
	fullPrefix := path.Join(b.prefix, prefix)

	var files []storage.FileInfo

	iter := b.bucket.List(ctx, b2.ListPrefix(fullPrefix))
	for iter.Next() {
		obj := iter.Object()

		relKey := strings.TrimPrefix(obj.Name(), b.prefix)
		relKey = strings.TrimPrefix(relKey, "/")

		attrs, err := obj.Attrs(ctx)
		if err != nil {
			continue
		}

		// Skip 0-byte objects
		if attrs.Size == 0 {
			continue
		}

		files = append(files, storage.FileInfo{
			Key:     relKey,
			Size:    attrs.Size,
			ModTime: attrs.UploadTimestamp,
		})
	}

	if err := iter.Err(); err != nil {
		return nil, storage.WrapError(b.name, "list", err)
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].ModTime.After(files[j].ModTime)
	})

	return files, nil
}

// Stat returns object metadata
func (b *Backend) Stat(ctx context.Context, key string) (*storage.FileInfo, error) {
	obj := b.bucket.Object(path.Join(b.prefix, key))

	attrs, err := obj.Attrs(ctx)
	if err != nil {
		if b2.IsNotExist(err) {
			return nil, storage.ErrNotFound
		}
		return nil, storage.WrapError(b.name, "stat", err)
	}

	return &storage.FileInfo{
		Key:     key,
		Size:    attrs.Size,
		ModTime: attrs.UploadTimestamp,
	}, nil
}

// Exists checks if an object exists
func (b *Backend) Exists(ctx context.Context, key string) (bool, error) {
	_, err := b.Stat(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// PresignURL is not supported through the B2 client
func (b *Backend) PresignURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	return "", storage.ErrNotSupported
}

// Close releases resources
func (b *Backend) Close() error {
	return nil
}

func parseConfig(options map[string]interface{}) (*Config, error) {
	cfg := &Config{}

	if v, ok := options["account_id"].(string); ok {
		cfg.AccountID = v
	} else {
		return nil, fmt.Errorf("missing required option: account_id")
	}
	if v, ok := options["application_key"].(string); ok {
		cfg.ApplicationKey = v
	} else {
		return nil, fmt.Errorf("missing required option: application_key")
	}
	if v, ok := options["bucket_name"].(string); ok {
		cfg.BucketName = v
	} else {
		return nil, fmt.Errorf("missing required option: bucket_name")
	}
	if v, ok := options["prefix"].(string); ok {
		cfg.Prefix = v
	}

	return cfg, nil
}
