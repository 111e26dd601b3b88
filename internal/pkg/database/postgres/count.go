package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Count runs a named count(*) query. A scan or iteration failure is returned
// instead of being reported as an empty result.
func Count(ctx context.Context, db *sqlx.DB, query string, args map[string]interface{}) (int, error) {
	rows, err := db.NamedQueryContext(ctx, query, args)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var count int
	if rows.Next() {
		if err := rows.Scan(&count); err != nil {
			return 0, fmt.Errorf("failed to scan count: %w", err)
		}
	}
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("failed to read count: %w", err)
	}
	return count, nil
}
