//go:build integration
// +build integration

package manifest

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestLoadQueryIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()

	pgContainer, err := postgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:16-alpine"),
		postgres.WithDatabase("specify"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err, "Failed to start PostgreSQL")
	defer pgContainer.Terminate(ctx)

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	seedAttachments(t, dsn)

	t.Run("default_query", func(t *testing.T) {
		keys, err := LoadQuery(ctx, dsn, "")

		require.NoError(t, err)
		assert.Equal(t, []string{"abcdef.jpg", "123456.tif"}, keys)
	})

	t.Run("custom_query", func(t *testing.T) {
		keys, err := LoadQuery(ctx, dsn,
			"SELECT attachmentlocation FROM attachment WHERE attachmentlocation LIKE '%.tif'")

		require.NoError(t, err)
		assert.Equal(t, []string{"123456.tif"}, keys)
	})

	t.Run("bad_query", func(t *testing.T) {
		_, err := LoadQuery(ctx, dsn, "SELECT nope FROM nowhere")
		require.Error(t, err)
	})
}

func seedAttachments(t *testing.T, dsn string) {
	t.Helper()

	db, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`
		CREATE TABLE attachment (
			attachmentid SERIAL PRIMARY KEY,
			attachmentlocation VARCHAR(128)
		)
	`)
	require.NoError(t, err)

	for _, location := range []interface{}{"abcdef.jpg", "123456.tif", nil} {
		_, err = db.Exec(`INSERT INTO attachment (attachmentlocation) VALUES ($1)`, location)
		require.NoError(t, err)
	}
}
