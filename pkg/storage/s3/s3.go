package s3

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/utm-trs/imgfetch/pkg/storage"
)

type Backend struct {
	name       string
	client     *s3.Client
	presigner  *s3.PresignClient
	bucket     string
	prefix     string
	downloader *manager.Downloader
}

func init() {
	storage.RegisterBackend("s3", func(ctx context.Context, cfg storage.Config) (storage.Backend, error) {
		return New(ctx, cfg)
	})
}

// New creates a new S3 source backend
func New(ctx context.Context, cfg storage.Config) (*Backend, error) {
	s3Cfg, err := parseConfig(cfg.Options)
	if err != nil {
		return nil, err
	}

	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(s3Cfg.Region),
		config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(
				s3Cfg.AccessKey,
				s3Cfg.SecretKey,
				"",
			),
		),
	)
	if err != nil {
		return nil, storage.WrapError(cfg.Name, "init", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if s3Cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(s3Cfg.Endpoint)
		}
		o.UsePathStyle = s3Cfg.ForcePathStyle
	})

	// Test connection
	_, err = client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(s3Cfg.Bucket),
	})
	if err != nil {
		return nil, storage.WrapError(cfg.Name, "connection test", storage.ErrConnFailed)
	}

	return &Backend{
		name:       cfg.Name,
		client:     client,
		presigner:  s3.NewPresignClient(client),
		bucket:     s3Cfg.Bucket,
		prefix:     strings.TrimPrefix(s3Cfg.Prefix, "/"),
		downloader: manager.NewDownloader(client),
	}, nil
}

func (b *Backend) Name() string { return b.name }
func (b *Backend) Type() string { return "s3" }

// Fetch downloads an object into a local file
func (b *Backend) Fetch(ctx context.Context, key, destPath string) error {
	return storage.WithRetry(ctx, storage.DefaultRetryConfig(), func() error {
		file, err := os.Create(destPath)
		if err != nil {
			return err
		}
		defer file.Close()

		fullKey := path.Join(b.prefix, key)

		_, err = b.downloader.Download(ctx, file, &s3.GetObjectInput{
			Bucket: aws.String(b.bucket),
			Key:    aws.String(fullKey),
		})

		if err != nil {
			os.Remove(destPath) // Clean up partial file
			var noKey *types.NoSuchKey
			if errors.As(err, &noKey) {
				return storage.ErrNotFound
			}
			return storage.WrapError(b.name, "download", err)
		}

		return nil
	})
}

// List returns objects under the given key prefix
func (b *Backend) List(ctx context.Context, prefix string) ([]storage.FileInfo, error) {
	fullPrefix := path.Join(b.prefix, prefix)

	var files []storage.FileInfo

	paginator := s3.NewListObjectsV2Paginator(b.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(b.bucket),
		Prefix: aws.String(fullPrefix),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, storage.WrapError(b.name, "list", err)
		}

		for _, obj := range page.Contents {
			relKey := strings.TrimPrefix(*obj.Key, b.prefix)
			relKey = strings.TrimPrefix(relKey, "/")

			// Skip 0-byte objects (directory markers)
			if *obj.Size == 0 {
				continue
			}

			files = append(files, storage.FileInfo{
				Key:     relKey,
				Size:    *obj.Size,
				ModTime: *obj.LastModified,
			})
		}
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].ModTime.After(files[j].ModTime)
	})

	return files, nil
}

// Stat returns metadata about an object
func (b *Backend) Stat(ctx context.Context, key string) (*storage.FileInfo, error) {
	fullKey := path.Join(b.prefix, key)

	result, err := b.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(fullKey),
	})

	if err != nil {
		var notFound *types.NotFound
		if errors.As(err, &notFound) {
			return nil, storage.ErrNotFound
		}
		return nil, storage.WrapError(b.name, "stat", err)
	}

	return &storage.FileInfo{
		Key:     key,
		Size:    *result.ContentLength,
		ModTime: *result.LastModified,
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

// PresignURL returns a time-limited GET URL for an object
func (b *Backend) PresignURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	fullKey := path.Join(b.prefix, key)

	req, err := b.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(fullKey),
	}, s3.WithPresignExpires(expiry))

	if err != nil {
		return "", storage.WrapError(b.name, "presign", err)
	}

	return req.URL, nil
}

// Close is a no-op for S3
func (b *Backend) Close() error {
	return nil
}

func parseConfig(options map[string]interface{}) (*Config, error) {
	cfg := &Config{
		Region: "us-east-1", // Default; MinIO-style endpoints ignore it
	}

	if v, ok := options["endpoint"].(string); ok {
		cfg.Endpoint = v
	}
	if v, ok := options["region"].(string); ok && v != "" {
		cfg.Region = v
	}
	if v, ok := options["bucket"].(string); ok && v != "" {
		cfg.Bucket = v
	} else {
		return nil, fmt.Errorf("missing required option: bucket")
	}
	if v, ok := options["prefix"].(string); ok {
		cfg.Prefix = v
	}
	if v, ok := options["access_key"].(string); ok && v != "" {
		cfg.AccessKey = v
	} else {
		return nil, fmt.Errorf("missing required option: access_key")
	}
	if v, ok := options["secret_key"].(string); ok && v != "" {
		cfg.SecretKey = v
	} else {
		return nil, fmt.Errorf("missing required option: secret_key")
	}
	if v, ok := options["force_path_style"].(bool); ok {
		cfg.ForcePathStyle = v
	}

	return cfg, nil
}
