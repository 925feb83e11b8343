package fetch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTempDir(t *testing.T) {
	t.Run("creates_and_removes_scratch_dir", func(t *testing.T) {
		base := filepath.Join(t.TempDir(), "s3_temp")

		tmp, err := NewTempDir(base, time.Hour, zerolog.Nop())
		require.NoError(t, err)

		info, err := os.Stat(tmp.Path())
		require.NoError(t, err)
		assert.True(t, info.IsDir())

		tmp.Remove()
		_, err = os.Stat(tmp.Path())
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("new_file_keeps_extension", func(t *testing.T) {
		base := filepath.Join(t.TempDir(), "s3_temp")

		tmp, err := NewTempDir(base, time.Hour, zerolog.Nop())
		require.NoError(t, err)
		defer tmp.Remove()

		path, err := tmp.NewFile("herps/originals/ab/cd/abcdef.jpg")
		require.NoError(t, err)
		assert.Equal(t, ".jpg", filepath.Ext(path))
		assert.FileExists(t, path)
	})

	t.Run("sweeps_stale_siblings", func(t *testing.T) {
		base := filepath.Join(t.TempDir(), "s3_temp")

		stale := filepath.Join(base, "999-dead-run")
		require.NoError(t, os.MkdirAll(stale, 0755))
		old := time.Now().Add(-3 * time.Hour)
		require.NoError(t, os.Chtimes(stale, old, old))

		fresh := filepath.Join(base, "1000-live-run")
		require.NoError(t, os.MkdirAll(fresh, 0755))

		tmp, err := NewTempDir(base, time.Hour, zerolog.Nop())
		require.NoError(t, err)
		defer tmp.Remove()

		_, err = os.Stat(stale)
		assert.True(t, os.IsNotExist(err), "stale sibling should be swept")
		assert.DirExists(t, fresh, "recent sibling must survive")
	})
}
