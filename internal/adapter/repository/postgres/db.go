package postgres

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// DB wraps the database connection. It is created once at startup and
// passed explicitly to the repositories that need it; there is no
// package-level connection cache.
type DB struct {
	*sql.DB
}

// NewDB creates a new database connection
// connectionString should be in the format: "host=localhost port=5432 user=postgres password=postgres dbname=cpisim sslmode=disable"
func NewDB(connectionString string) (*DB, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{DB: db}, nil
}

// EnsureSchema creates the council_percentages table if it does not
// exist yet. Run once at startup, before any repository use.
func (db *DB) EnsureSchema(ctx context.Context) error {
	const schema = `
		CREATE TABLE IF NOT EXISTS council_percentages (
			id UUID PRIMARY KEY,
			token_house NUMERIC(5,2) NOT NULL,
			citizen_house NUMERIC(5,2) NOT NULL,
			grants_council NUMERIC(5,2) NOT NULL,
			grants_council_subcommittee NUMERIC(5,2) NOT NULL,
			security_council NUMERIC(5,2) NOT NULL,
			code_of_conduct_council NUMERIC(5,2) NOT NULL,
			developer_advisory_board NUMERIC(5,2) NOT NULL,
			submitted_at TIMESTAMPTZ NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create council_percentages table: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.DB.Close()
}
