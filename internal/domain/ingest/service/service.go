// Package service parses warehouse CSV exports and loads them into the store.
package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/aryodl/bankdw/internal/domain/ingest/repository"
	"github.com/aryodl/bankdw/internal/domain/warehouse"
)

type colKind int

const (
	colBigint colKind = iota
	colNullableBigint
	colNullableInt
	colText
	colNullableText
	colNumeric
)

type column struct {
	name string
	kind colKind
}

type tableSchema struct {
	columns []column
}

// Warehouse export schemas, keyed by table name. Column order must match the
// CSV header exactly.
var schemas = map[string]tableSchema{
	warehouse.TableDimCustomer: {columns: []column{
		{"customer_id", colBigint},
		{"customer_name", colText},
	}},
	warehouse.TableDimAccount: {columns: []column{
		{"account_id", colBigint},
		{"customer_id", colBigint},
		{"account_type", colText},
		{"balance", colNumeric},
		{"status", colText},
	}},
	warehouse.TableDimBranch: {columns: []column{
		{"branch_id", colBigint},
		{"branch_name", colText},
	}},
	warehouse.TableDimDate: {columns: []column{
		{"date_key", colBigint},
		{"full_date", colNullableText},
		{"year", colNullableInt},
		{"quarter", colNullableInt},
		{"month", colNullableInt},
		{"month_name", colNullableText},
		{"week_of_year", colNullableInt},
		{"day_of_month", colNullableInt},
		{"day_of_week", colNullableInt},
		{"day_name", colNullableText},
		{"is_weekend", colNullableInt},
	}},
	warehouse.TableDimTime: {columns: []column{
		{"time_key", colBigint},
		{"full_time", colNullableText},
		{"hour", colNullableInt},
		{"minute", colNullableInt},
		{"second", colNullableInt},
		{"period", colNullableText},
		{"shift", colNullableText},
	}},
	warehouse.TableFactTransaction: {columns: []column{
		{"transaction_id", colBigint},
		{"account_id", colBigint},
		{"transaction_date", colText},
		{"amount", colNumeric},
		{"transaction_type", colText},
		{"branch_id", colBigint},
		{"date_key", colNullableBigint},
		{"time_key", colNullableBigint},
	}},
}

// Tables returns the loadable table names in foreign-key-safe order.
func Tables() []string {
	return []string{
		warehouse.TableDimCustomer,
		warehouse.TableDimAccount,
		warehouse.TableDimBranch,
		warehouse.TableDimDate,
		warehouse.TableDimTime,
		warehouse.TableFactTransaction,
	}
}

// LoadResult summarizes one table load.
type LoadResult struct {
	Table string
	Rows  int64
}

// IngestService loads warehouse CSV exports.
type IngestService struct {
	repo   repository.IngestRepository
	logger *slog.Logger
}

// NewIngestService creates a new ingest service.
func NewIngestService(repo repository.IngestRepository, logger *slog.Logger) *IngestService {
	return &IngestService{repo: repo, logger: logger}
}

// Load parses the CSV export for table and replaces the table's contents.
// The header must name the table's columns in order (case-insensitive).
func (s *IngestService) Load(ctx context.Context, table string, r io.Reader) (*LoadResult, error) {
	schema, ok := schemas[table]
	if !ok {
		return nil, fmt.Errorf("unknown warehouse table %q", table)
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = len(schema.columns)

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header for %s: %w", table, err)
	}
	if err := checkHeader(schema, header); err != nil {
		return nil, fmt.Errorf("table %s: %w", table, err)
	}

	var rows [][]any
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("failed to read %s line %d: %w", table, line, err)
		}

		values, err := convertRecord(schema, record)
		if err != nil {
			return nil, fmt.Errorf("table %s line %d: %w", table, line, err)
		}
		rows = append(rows, values)
	}

	// The replace truncates with CASCADE, so loading one table empties the
	// tables referencing it. The loader reloads everything in FK-safe
	// order; a partial load must be followed by reloading these.
	if deps := warehouse.Dependents(table); len(deps) > 0 {
		s.logger.Warn("replacing table empties its dependents",
			"table", table, "dependents", deps)
	}

	loaded, err := s.repo.ReplaceTable(ctx, table, columnNames(schema), rows)
	if err != nil {
		return nil, err
	}

	s.logger.Info("table loaded", "table", table, "rows", loaded)
	return &LoadResult{Table: table, Rows: loaded}, nil
}

func columnNames(schema tableSchema) []string {
	names := make([]string, len(schema.columns))
	for i, c := range schema.columns {
		names[i] = c.name
	}
	return names
}

func checkHeader(schema tableSchema, header []string) error {
	for i, c := range schema.columns {
		if !strings.EqualFold(strings.TrimSpace(header[i]), c.name) {
			return fmt.Errorf("header column %d is %q, expected %q", i+1, header[i], c.name)
		}
	}
	return nil
}

func convertRecord(schema tableSchema, record []string) ([]any, error) {
	values := make([]any, len(record))
	for i, c := range schema.columns {
		cell := strings.TrimSpace(record[i])

		switch c.kind {
		case colBigint:
			n, err := strconv.ParseInt(cell, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("column %s: invalid integer %q", c.name, cell)
			}
			values[i] = n
		case colNullableBigint:
			if cell == "" {
				values[i] = nil
				continue
			}
			n, err := strconv.ParseInt(cell, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("column %s: invalid integer %q", c.name, cell)
			}
			values[i] = n
		case colNullableInt:
			if cell == "" {
				values[i] = nil
				continue
			}
			n, err := strconv.ParseInt(cell, 10, 32)
			if err != nil {
				return nil, fmt.Errorf("column %s: invalid integer %q", c.name, cell)
			}
			values[i] = int32(n)
		case colNumeric:
			// COPY runs in binary format, so the text must be parsed into a
			// numeric value before it is handed to pgx.
			var n pgtype.Numeric
			if err := n.Scan(cell); err != nil {
				return nil, fmt.Errorf("column %s: invalid amount %q: %w", c.name, cell, err)
			}
			values[i] = n
		case colNullableText:
			if cell == "" {
				values[i] = nil
				continue
			}
			values[i] = record[i]
		default:
			values[i] = record[i]
		}
	}
	return values, nil
}
