package service

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aryodl/bankdw/internal/domain/normalize/repository"
)

type stubRepo struct {
	calls   []string
	failOn  string
	results map[string]*repository.Result
}

func (s *stubRepo) RewriteTable(_ context.Context, spec repository.TableSpec) (*repository.Result, error) {
	s.calls = append(s.calls, spec.Table)
	if spec.Table == s.failOn {
		return nil, errors.New("boom")
	}
	if r, ok := s.results[spec.Table]; ok {
		return r, nil
	}
	return &repository.Result{Table: spec.Table}, nil
}

func TestRun_TablesInOrder(t *testing.T) {
	repo := &stubRepo{results: map[string]*repository.Result{
		"dim_date": {Table: "dim_date", Rows: 3, Canonicalized: 3},
	}}
	svc := NewNormalizeService(repo, slog.Default())

	results, err := svc.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"dim_date", "dim_time", "fact_transaction"}, repo.calls)
	require.Len(t, results, 3)
	assert.Equal(t, int64(3), results[0].Rows)
}

func TestRun_StopsOnFirstFailure(t *testing.T) {
	repo := &stubRepo{failOn: "dim_time"}
	svc := NewNormalizeService(repo, slog.Default())

	results, err := svc.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dim_time")

	assert.Equal(t, []string{"dim_date", "dim_time"}, repo.calls)
	assert.Len(t, results, 1)
}
