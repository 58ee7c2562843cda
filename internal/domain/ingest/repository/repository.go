// Package repository provides bulk-load access to the warehouse tables.
package repository

import "context"

// IngestRepository replaces warehouse table contents from an external export.
type IngestRepository interface {
	// ReplaceTable truncates the table and bulk-inserts rows, returning the
	// number of rows loaded.
	ReplaceTable(ctx context.Context, table string, columns []string, rows [][]any) (int64, error)
}
