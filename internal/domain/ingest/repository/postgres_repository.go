package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxPool abstracts the subset of pgxpool.Pool used by the repository to allow mocking in tests.
type PgxPool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
}

var _ PgxPool = (*pgxpool.Pool)(nil)

// PostgresIngestRepository bulk-loads warehouse tables using COPY.
type PostgresIngestRepository struct {
	pgpool PgxPool
}

// NewPostgresIngestRepository creates a new ingest repository.
func NewPostgresIngestRepository(pgpool PgxPool) *PostgresIngestRepository {
	return &PostgresIngestRepository{pgpool: pgpool}
}

var _ IngestRepository = (*PostgresIngestRepository)(nil)

// ReplaceTable truncates the table (cascading to dependents, matching the
// reload-everything semantics of warehouse exports) and COPYs the rows in.
// The table name comes from the compiled-in schema set, never caller input.
func (r *PostgresIngestRepository) ReplaceTable(ctx context.Context, table string, columns []string, rows [][]any) (int64, error) {
	if _, err := r.pgpool.Exec(ctx, fmt.Sprintf("TRUNCATE %s CASCADE", table)); err != nil {
		return 0, fmt.Errorf("failed to truncate %s: %w", table, err)
	}

	copied, err := r.pgpool.CopyFrom(ctx,
		pgx.Identifier{table},
		columns,
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to bulk insert into %s: %w", table, err)
	}
	if copied != int64(len(rows)) {
		return copied, fmt.Errorf("table %s: copied %d of %d rows", table, copied, len(rows))
	}

	return copied, nil
}
