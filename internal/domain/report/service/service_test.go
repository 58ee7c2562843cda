package service

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aryodl/bankdw/internal/domain/common"
	"github.com/aryodl/bankdw/internal/domain/report/repository"
)

type stubRepo struct {
	dailyStart  time.Time
	dailyEnd    time.Time
	dailyBranch *string
	dailyRows   []repository.DailySummaryRow
	dailyErr    error

	balanceName string
	balanceRows []repository.CustomerBalanceRow
	balanceErr  error
}

func (s *stubRepo) DailySummary(_ context.Context, start, end time.Time, branch *string) ([]repository.DailySummaryRow, error) {
	s.dailyStart, s.dailyEnd, s.dailyBranch = start, end, branch
	return s.dailyRows, s.dailyErr
}

func (s *stubRepo) BalancePerCustomer(_ context.Context, name string) ([]repository.CustomerBalanceRow, error) {
	s.balanceName = name
	return s.balanceRows, s.balanceErr
}

func TestDailyTransactionSummary_RejectsMalformedDates(t *testing.T) {
	repo := &stubRepo{}
	svc := NewReportService(repo, slog.Default())

	_, err := svc.DailyTransactionSummary(context.Background(), "01/02/2024", "2024-01-31", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrBadRequest)

	_, err = svc.DailyTransactionSummary(context.Background(), "2024-01-01", "not-a-date", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrBadRequest)

	// The repository must never see a malformed date.
	assert.True(t, repo.dailyStart.IsZero())
}

func TestDailyTransactionSummary_BranchHandling(t *testing.T) {
	repo := &stubRepo{}
	svc := NewReportService(repo, slog.Default())

	_, err := svc.DailyTransactionSummary(context.Background(), "2024-01-01", "2024-01-31", "  ")
	require.NoError(t, err)
	assert.Nil(t, repo.dailyBranch)

	_, err = svc.DailyTransactionSummary(context.Background(), "2024-01-01", "2024-01-31", " Jakarta Pusat ")
	require.NoError(t, err)
	require.NotNil(t, repo.dailyBranch)
	assert.Equal(t, "Jakarta Pusat", *repo.dailyBranch)
}

func TestDailyTransactionSummary_StartAfterEndPassesThrough(t *testing.T) {
	repo := &stubRepo{}
	svc := NewReportService(repo, slog.Default())

	rows, err := svc.DailyTransactionSummary(context.Background(), "2024-03-10", "2024-03-01", "")
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.True(t, repo.dailyStart.After(repo.dailyEnd), "range must not be swapped")
}

func TestDailyTransactionSummary_RepoErrorPropagates(t *testing.T) {
	repo := &stubRepo{dailyErr: errors.New("store unreachable")}
	svc := NewReportService(repo, slog.Default())

	_, err := svc.DailyTransactionSummary(context.Background(), "2024-01-01", "2024-01-31", "")
	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrBadRequest)
}

func TestBalancePerCustomer_NameVariantsHitSameQueryInput(t *testing.T) {
	repo := &stubRepo{}
	svc := NewReportService(repo, slog.Default())

	variants := []string{"  Bobi Rinaldo  ", "Bobi Rinaldo"}
	for _, v := range variants {
		_, err := svc.BalancePerCustomer(context.Background(), v)
		require.NoError(t, err)
		assert.Equal(t, "Bobi Rinaldo", repo.balanceName)
	}

	// Case folding happens in SQL; the service only trims.
	_, err := svc.BalancePerCustomer(context.Background(), "BOBI RINALDO")
	require.NoError(t, err)
	assert.Equal(t, "BOBI RINALDO", repo.balanceName)
}

func TestBalancePerCustomer_EmptyNameRejected(t *testing.T) {
	repo := &stubRepo{}
	svc := NewReportService(repo, slog.Default())

	_, err := svc.BalancePerCustomer(context.Background(), "   ")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrBadRequest)
	assert.Empty(t, repo.balanceName)
}
