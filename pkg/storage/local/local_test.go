package local_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utm-trs/imgfetch/pkg/storage"
	"github.com/utm-trs/imgfetch/pkg/storage/local"
)

func newBackend(t *testing.T) (*local.Backend, string) {
	t.Helper()
	base := t.TempDir()

	backend, err := local.New(storage.Config{
		Name:    "attachments_mount",
		Type:    "local",
		Options: map[string]interface{}{"path": base},
	})
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })

	return backend, base
}

func seed(t *testing.T, base, key, content string) {
	t.Helper()
	full := filepath.Join(base, filepath.FromSlash(key))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0644))
}

func TestLocalBackend(t *testing.T) {
	ctx := context.Background()

	t.Run("fetch_existing_object", func(t *testing.T) {
		backend, base := newBackend(t)
		seed(t, base, "herps/originals/ab/cd/abcdef.jpg", "image bytes")

		dest := filepath.Join(t.TempDir(), "abcdef.jpg")
		err := backend.Fetch(ctx, "herps/originals/ab/cd/abcdef.jpg", dest)

		require.NoError(t, err)
		content, err := os.ReadFile(dest)
		require.NoError(t, err)
		assert.Equal(t, "image bytes", string(content))
	})

	t.Run("fetch_missing_object", func(t *testing.T) {
		backend, _ := newBackend(t)

		err := backend.Fetch(ctx, "herps/originals/no/pe/nope.jpg", filepath.Join(t.TempDir(), "nope.jpg"))

		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("exists_and_stat", func(t *testing.T) {
		backend, base := newBackend(t)
		seed(t, base, "herps/originals/ab/cd/abcdef.jpg", "image bytes")

		exists, err := backend.Exists(ctx, "herps/originals/ab/cd/abcdef.jpg")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = backend.Exists(ctx, "herps/originals/zz/zz/zzz.jpg")
		require.NoError(t, err)
		assert.False(t, exists)

		info, err := backend.Stat(ctx, "herps/originals/ab/cd/abcdef.jpg")
		require.NoError(t, err)
		assert.Equal(t, int64(len("image bytes")), info.Size)
		assert.WithinDuration(t, time.Now(), info.ModTime, time.Minute)
	})

	t.Run("list_skips_empty_files", func(t *testing.T) {
		backend, base := newBackend(t)
		seed(t, base, "herps/originals/ab/cd/abcdef.jpg", "image bytes")
		seed(t, base, "herps/originals/ab/cd/empty.jpg", "")

		files, err := backend.List(ctx, "herps/originals")

		require.NoError(t, err)
		require.Len(t, files, 1)
		assert.Equal(t, "herps/originals/ab/cd/abcdef.jpg", files[0].Key)
	})

	t.Run("presign_not_supported", func(t *testing.T) {
		backend, _ := newBackend(t)

		_, err := backend.PresignURL(ctx, "herps/originals/ab/cd/abcdef.jpg", time.Hour)
		assert.ErrorIs(t, err, storage.ErrNotSupported)
	})

	t.Run("missing_mount_rejected", func(t *testing.T) {
		_, err := local.New(storage.Config{
			Name:    "attachments_mount",
			Type:    "local",
			Options: map[string]interface{}{"path": filepath.Join(t.TempDir(), "missing")},
		})

		require.Error(t, err)
	})
}
