// Package repository rewrites the textual date/time columns of the warehouse
// tables into their canonical formats. Each table is rewritten into a shadow
// table and swapped in place of the original inside a single transaction, so
// a failure mid-rewrite leaves the original table intact.
package repository

import (
	"context"

	"github.com/aryodl/bankdw/internal/domain/normalize"
	"github.com/aryodl/bankdw/internal/domain/warehouse"
)

// TableSpec describes a single table rewrite: the shadow DDL, the expected
// column count, the key column that fixes row order, and which column gets
// normalized. PostSwapDDL holds statements that must run after the rename,
// inside the same transaction; index names are schema-wide in PostgreSQL, so
// indexes cannot be created while the original table still holds them.
type TableSpec struct {
	Table       string
	ShadowTable string
	ShadowDDL   string
	PostSwapDDL []string
	Columns     int
	KeyColumn   string
	TargetIndex int
	Normalize   func(string) normalize.Outcome
}

// Result summarizes one table rewrite.
type Result struct {
	Table         string
	Rows          int64
	Canonicalized int64
	Kept          int64
}

// NormalizeRepository rewrites warehouse tables in place.
type NormalizeRepository interface {
	RewriteTable(ctx context.Context, spec TableSpec) (*Result, error)
}

// Tables returns the rewrite specs for the three tables carrying textual
// date/time columns, in the order they are migrated.
func Tables() []TableSpec {
	return []TableSpec{
		{
			Table:       warehouse.TableDimDate,
			ShadowTable: "dim_date_new",
			ShadowDDL: `CREATE TABLE dim_date_new (
				date_key     BIGINT PRIMARY KEY,
				full_date    TEXT,
				year         INT,
				quarter      INT,
				month        INT,
				month_name   TEXT,
				week_of_year INT,
				day_of_month INT,
				day_of_week  INT,
				day_name     TEXT,
				is_weekend   INT
			)`,
			Columns:     11,
			KeyColumn:   "date_key",
			TargetIndex: 1,
			Normalize:   normalize.Date,
		},
		{
			Table:       warehouse.TableDimTime,
			ShadowTable: "dim_time_new",
			ShadowDDL: `CREATE TABLE dim_time_new (
				time_key  BIGINT PRIMARY KEY,
				full_time TEXT,
				hour      INT,
				minute    INT,
				second    INT,
				period    TEXT,
				shift     TEXT
			)`,
			Columns:     7,
			KeyColumn:   "time_key",
			TargetIndex: 1,
			Normalize:   normalize.Time,
		},
		{
			Table:       warehouse.TableFactTransaction,
			ShadowTable: "fact_transaction_new",
			// Constraints mirror the live table so the swap does not
			// weaken the schema.
			ShadowDDL: `CREATE TABLE fact_transaction_new (
				transaction_id   BIGINT PRIMARY KEY,
				account_id       BIGINT NOT NULL REFERENCES dim_account (account_id),
				transaction_date TEXT NOT NULL,
				amount           NUMERIC(18,2) NOT NULL,
				transaction_type TEXT NOT NULL,
				branch_id        BIGINT NOT NULL REFERENCES dim_branch (branch_id),
				date_key         BIGINT,
				time_key         BIGINT
			)`,
			PostSwapDDL: []string{
				"CREATE INDEX idx_fact_transaction_account ON fact_transaction (account_id)",
				"CREATE INDEX idx_fact_transaction_branch ON fact_transaction (branch_id)",
			},
			Columns:     8,
			KeyColumn:   "transaction_id",
			TargetIndex: 2,
			Normalize:   normalize.DateTime,
		},
	}
}
