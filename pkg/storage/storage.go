package storage

import (
	"context"
	"time"
)

// Backend represents an image source that objects can be fetched from
type Backend interface {
	// Name returns a human-readable name for this backend (e.g., "trs_s3", "attachments_mount")
	Name() string

	// Type returns the backend type (s3, local, backblaze, ssh)
	Type() string

	// Fetch downloads the object at key into the local file destPath
	// key: relative object key (e.g., "herps/originals/ab/cd/abcdef.jpg")
	// destPath: absolute path of the local file to create
	Fetch(ctx context.Context, key string, destPath string) error

	// Exists checks whether the object exists in the backend
	Exists(ctx context.Context, key string) (bool, error)

	// Stat returns metadata about a specific object
	Stat(ctx context.Context, key string) (*FileInfo, error)

	// List returns all objects under the given key prefix,
	// sorted by modification time (newest first)
	List(ctx context.Context, prefix string) ([]FileInfo, error)

	// PresignURL returns a time-limited GET URL for the object.
	// Backends without presigning support return ErrNotSupported.
	PresignURL(ctx context.Context, key string, expiry time.Duration) (string, error)

	// Close releases resources (connections, sessions)
	Close() error
}

// FileInfo represents metadata about a stored object
type FileInfo struct {
	Key     string    // Relative key in backend
	Size    int64     // Size in bytes
	ModTime time.Time // Last modification time
}

// Config represents source backend configuration
type Config struct {
	Name    string                 `json:"name"`    // User-friendly name (e.g., "trs_s3")
	Type    string                 `json:"type"`    // Backend type: s3, local, backblaze, ssh
	Options map[string]interface{} `json:"options"` // Backend-specific options
}
