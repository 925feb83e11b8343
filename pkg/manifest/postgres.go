package manifest

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

// DefaultQuery pulls attachment locations straight out of a Specify-style
// collections database, mirroring the CSV exports this tool usually consumes.
const DefaultQuery = "SELECT attachmentlocation FROM attachment WHERE attachmentlocation IS NOT NULL"

// LoadQuery runs the given query against a Postgres database and returns the
// non-empty values of the first result column.
func LoadQuery(ctx context.Context, dsn, query string) ([]string, error) {
	if query == "" {
		query = DefaultQuery
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("manifest query failed: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var value sql.NullString
		if err := rows.Scan(&value); err != nil {
			return nil, fmt.Errorf("failed to scan manifest row: %w", err)
		}
		if !value.Valid || value.String == "" {
			continue
		}
		keys = append(keys, value.String)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("manifest query failed: %w", err)
	}

	return keys, nil
}
