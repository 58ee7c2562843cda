package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxPool abstracts the subset of pgxpool.Pool used by the repository to allow mocking in tests.
type PgxPool interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var _ PgxPool = (*pgxpool.Pool)(nil)

// PostgresNormalizeRepository performs the shadow-table rewrite against PostgreSQL.
type PostgresNormalizeRepository struct {
	pgpool PgxPool
}

// NewPostgresNormalizeRepository creates a new normalize repository.
func NewPostgresNormalizeRepository(pgpool PgxPool) *PostgresNormalizeRepository {
	return &PostgresNormalizeRepository{pgpool: pgpool}
}

var _ NormalizeRepository = (*PostgresNormalizeRepository)(nil)

// RewriteTable copies every row of spec.Table into a freshly created shadow
// table with the target column canonicalized, then swaps the shadow table in
// place of the original. The whole rewrite runs in one transaction; on any
// error the original table is untouched. Identifiers come from the compiled-in
// table specs, never from caller input.
func (r *PostgresNormalizeRepository) RewriteTable(ctx context.Context, spec TableSpec) (*Result, error) {
	tx, err := r.pgpool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin rewrite of %s: %w", spec.Table, err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, spec.ShadowDDL); err != nil {
		return nil, fmt.Errorf("failed to create shadow table for %s: %w", spec.Table, err)
	}

	// Read the full table up front; inserts cannot run on the same
	// connection while the result set is open.
	sourceRows, err := readAllRows(ctx, tx, spec)
	if err != nil {
		return nil, err
	}

	result := &Result{Table: spec.Table}
	insertSQL := buildInsertSQL(spec)

	for _, values := range sourceRows {
		raw, ok := values[spec.TargetIndex].(string)
		switch {
		case values[spec.TargetIndex] == nil:
			result.Kept++
		case !ok:
			return nil, fmt.Errorf("table %s: column %d is not text", spec.Table, spec.TargetIndex)
		default:
			outcome := spec.Normalize(raw)
			values[spec.TargetIndex] = outcome.Canonical
			if outcome.Parsed {
				result.Canonicalized++
			} else {
				result.Kept++
			}
		}

		if _, err := tx.Exec(ctx, insertSQL, values...); err != nil {
			return nil, fmt.Errorf("failed to insert row into %s: %w", spec.ShadowTable, err)
		}
		result.Rows++
	}

	// Row-count invariant: the shadow table must hold exactly the rows read.
	var shadowCount int64
	if err := tx.QueryRow(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", spec.ShadowTable)).Scan(&shadowCount); err != nil {
		return nil, fmt.Errorf("failed to count %s: %w", spec.ShadowTable, err)
	}
	if shadowCount != result.Rows {
		return nil, fmt.Errorf("table %s: shadow table holds %d rows, expected %d", spec.Table, shadowCount, result.Rows)
	}

	if _, err := tx.Exec(ctx, fmt.Sprintf("DROP TABLE %s", spec.Table)); err != nil {
		return nil, fmt.Errorf("failed to drop %s: %w", spec.Table, err)
	}
	if _, err := tx.Exec(ctx, fmt.Sprintf("ALTER TABLE %s RENAME TO %s", spec.ShadowTable, spec.Table)); err != nil {
		return nil, fmt.Errorf("failed to rename %s: %w", spec.ShadowTable, err)
	}

	// The rename frees the original table's index names; rebuild them
	// before committing so the swapped-in table keeps the full schema.
	for _, ddl := range spec.PostSwapDDL {
		if _, err := tx.Exec(ctx, ddl); err != nil {
			return nil, fmt.Errorf("failed to restore schema of %s: %w", spec.Table, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit rewrite of %s: %w", spec.Table, err)
	}

	return result, nil
}

// readAllRows loads the table in key order and enforces the expected column
// count. A column-count mismatch is structural and aborts the whole rewrite.
func readAllRows(ctx context.Context, tx pgx.Tx, spec TableSpec) ([][]any, error) {
	rows, err := tx.Query(ctx, fmt.Sprintf("SELECT * FROM %s ORDER BY %s", spec.Table, spec.KeyColumn))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", spec.Table, err)
	}
	defer rows.Close()

	var all [][]any
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("failed to read row from %s: %w", spec.Table, err)
		}
		if len(values) != spec.Columns {
			return nil, fmt.Errorf("table %s: expected %d columns, got %d", spec.Table, spec.Columns, len(values))
		}
		all = append(all, values)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", spec.Table, err)
	}

	return all, nil
}

func buildInsertSQL(spec TableSpec) string {
	placeholders := make([]string, spec.Columns)
	for i := range placeholders {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	return fmt.Sprintf("INSERT INTO %s VALUES (%s)", spec.ShadowTable, strings.Join(placeholders, ", "))
}
