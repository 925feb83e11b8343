package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "manifest.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadCSV(t *testing.T) {
	t.Run("extracts_column_values", func(t *testing.T) {
		path := writeCSV(t, "id,attachmentlocation,notes\n1,abcdef.jpg,first\n2,123456.tif,second\n")

		keys, err := LoadCSV(path, "attachmentlocation")

		require.NoError(t, err)
		assert.Equal(t, []string{"abcdef.jpg", "123456.tif"}, keys)
	})

	t.Run("skips_blank_cells", func(t *testing.T) {
		path := writeCSV(t, "attachmentlocation\nabcdef.jpg\n\n  \nxyz.png\n")

		keys, err := LoadCSV(path, "attachmentlocation")

		require.NoError(t, err)
		assert.Equal(t, []string{"abcdef.jpg", "xyz.png"}, keys)
	})

	t.Run("trims_surrounding_whitespace", func(t *testing.T) {
		path := writeCSV(t, "attachmentlocation\n  abcdef.jpg \n")

		keys, err := LoadCSV(path, "attachmentlocation")

		require.NoError(t, err)
		assert.Equal(t, []string{"abcdef.jpg"}, keys)
	})

	t.Run("tolerates_bom_on_header", func(t *testing.T) {
		path := writeCSV(t, "\xef\xbb\xbfattachmentlocation\nabcdef.jpg\n")

		keys, err := LoadCSV(path, "attachmentlocation")

		require.NoError(t, err)
		assert.Equal(t, []string{"abcdef.jpg"}, keys)
	})

	t.Run("missing_column", func(t *testing.T) {
		path := writeCSV(t, "id,notes\n1,hello\n")

		_, err := LoadCSV(path, "attachmentlocation")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "attachmentlocation")
	})

	t.Run("missing_file", func(t *testing.T) {
		_, err := LoadCSV(filepath.Join(t.TempDir(), "nope.csv"), "attachmentlocation")
		require.Error(t, err)
	})

	t.Run("empty_file_has_no_header", func(t *testing.T) {
		path := writeCSV(t, "")

		_, err := LoadCSV(path, "attachmentlocation")
		require.Error(t, err)
	})

	t.Run("rows_shorter_than_header", func(t *testing.T) {
		path := writeCSV(t, "id,attachmentlocation\n1,abcdef.jpg\n2\n")

		keys, err := LoadCSV(path, "attachmentlocation")

		require.NoError(t, err)
		assert.Equal(t, []string{"abcdef.jpg"}, keys)
	})
}
