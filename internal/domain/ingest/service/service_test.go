package service

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRepo struct {
	table   string
	columns []string
	rows    [][]any
}

func (s *stubRepo) ReplaceTable(_ context.Context, table string, columns []string, rows [][]any) (int64, error) {
	s.table, s.columns, s.rows = table, columns, rows
	return int64(len(rows)), nil
}

func TestLoad_Customers(t *testing.T) {
	data := strings.Join([]string{
		"customer_id,customer_name",
		"1,Bobi Rinaldo",
		"2,Siti Aminah",
	}, "\n")

	repo := &stubRepo{}
	svc := NewIngestService(repo, slog.Default())

	result, err := svc.Load(context.Background(), "dim_customer", strings.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, int64(2), result.Rows)
	assert.Equal(t, "dim_customer", repo.table)
	assert.Equal(t, []string{"customer_id", "customer_name"}, repo.columns)
	require.Len(t, repo.rows, 2)
	assert.Equal(t, []any{int64(1), "Bobi Rinaldo"}, repo.rows[0])
}

func TestLoad_NullableDimColumns(t *testing.T) {
	data := strings.Join([]string{
		"time_key,full_time,hour,minute,second,period,shift",
		"1,08:15:00,8,15,0,AM,Morning",
		"2,,,,,,",
	}, "\n")

	repo := &stubRepo{}
	svc := NewIngestService(repo, slog.Default())

	_, err := svc.Load(context.Background(), "dim_time", strings.NewReader(data))
	require.NoError(t, err)

	require.Len(t, repo.rows, 2)
	assert.Equal(t, []any{int64(1), "08:15:00", int32(8), int32(15), int32(0), "AM", "Morning"}, repo.rows[0])
	assert.Equal(t, []any{int64(2), nil, nil, nil, nil, nil, nil}, repo.rows[1])
}

func TestLoad_HeaderMismatchFails(t *testing.T) {
	data := strings.Join([]string{
		"id,name",
		"1,Bobi Rinaldo",
	}, "\n")

	svc := NewIngestService(&stubRepo{}, slog.Default())

	_, err := svc.Load(context.Background(), "dim_customer", strings.NewReader(data))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "header")
}

func TestLoad_BadAmountFails(t *testing.T) {
	data := strings.Join([]string{
		"transaction_id,account_id,transaction_date,amount,transaction_type,branch_id,date_key,time_key",
		"1,10,2024-01-01 09:00:00,abc,Deposit,3,20240101,90000",
	}, "\n")

	svc := NewIngestService(&stubRepo{}, slog.Default())

	_, err := svc.Load(context.Background(), "fact_transaction", strings.NewReader(data))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid amount")
}

func TestLoad_UnknownTableFails(t *testing.T) {
	svc := NewIngestService(&stubRepo{}, slog.Default())

	_, err := svc.Load(context.Background(), "dim_nothing", strings.NewReader("a\n1\n"))
	require.Error(t, err)
}

func TestLoad_WarnsAboutCascadedDependents(t *testing.T) {
	data := strings.Join([]string{
		"customer_id,customer_name",
		"1,Bobi Rinaldo",
	}, "\n")

	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))

	repo := &stubRepo{}
	svc := NewIngestService(repo, logger)

	_, err := svc.Load(context.Background(), "dim_customer", strings.NewReader(data))
	require.NoError(t, err)

	// dim_account and fact_transaction are emptied by the cascading
	// truncate; the load must say so.
	assert.Contains(t, logs.String(), "dim_account")
	assert.Contains(t, logs.String(), "fact_transaction")
}

func TestLoad_NoCascadeWarningForLeafTables(t *testing.T) {
	data := strings.Join([]string{
		"time_key,full_time,hour,minute,second,period,shift",
		"1,08:15:00,8,15,0,AM,Morning",
	}, "\n")

	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))

	svc := NewIngestService(&stubRepo{}, logger)

	_, err := svc.Load(context.Background(), "dim_time", strings.NewReader(data))
	require.NoError(t, err)

	assert.NotContains(t, logs.String(), "dependents")
}
