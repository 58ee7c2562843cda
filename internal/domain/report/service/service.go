// Package service validates report inputs and delegates to the repository.
// It is the only entry point the HTTP layer consumes.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aryodl/bankdw/internal/domain/common"
	"github.com/aryodl/bankdw/internal/domain/report/repository"
)

const dateLayout = "2006-01-02"

// ReportService exposes the two warehouse reports.
type ReportService struct {
	repo   repository.ReportRepository
	logger *slog.Logger
}

// NewReportService creates a new report service.
func NewReportService(repo repository.ReportRepository, logger *slog.Logger) *ReportService {
	return &ReportService{repo: repo, logger: logger}
}

// DailyTransactionSummary returns per-day transaction totals for the
// inclusive range [startDate, endDate], optionally restricted to one branch.
// Dates must be YYYY-MM-DD; malformed dates are rejected before any query
// runs. A start date after the end date yields an empty result, not an error.
func (s *ReportService) DailyTransactionSummary(ctx context.Context, startDate, endDate, branchName string) ([]repository.DailySummaryRow, error) {
	start, err := time.Parse(dateLayout, strings.TrimSpace(startDate))
	if err != nil {
		return nil, fmt.Errorf("invalid start date %q: %w", startDate, common.ErrBadRequest)
	}
	end, err := time.Parse(dateLayout, strings.TrimSpace(endDate))
	if err != nil {
		return nil, fmt.Errorf("invalid end date %q: %w", endDate, common.ErrBadRequest)
	}

	var branch *string
	if trimmed := strings.TrimSpace(branchName); trimmed != "" {
		branch = &trimmed
	}

	rows, err := s.repo.DailySummary(ctx, start, end, branch)
	if err != nil {
		return nil, fmt.Errorf("daily transaction summary failed: %w", err)
	}

	s.logger.Debug("daily transaction summary",
		"start", start.Format(dateLayout),
		"end", end.Format(dateLayout),
		"branch_filter", branch != nil,
		"rows", len(rows),
	)
	return rows, nil
}

// BalancePerCustomer returns the stored and derived balance of every ACTIVE
// account owned by customers matching customerName, compared case- and
// whitespace-insensitively. An unknown name yields an empty result.
func (s *ReportService) BalancePerCustomer(ctx context.Context, customerName string) ([]repository.CustomerBalanceRow, error) {
	trimmed := strings.TrimSpace(customerName)
	if trimmed == "" {
		return nil, fmt.Errorf("customer name must not be empty: %w", common.ErrBadRequest)
	}

	rows, err := s.repo.BalancePerCustomer(ctx, trimmed)
	if err != nil {
		return nil, fmt.Errorf("balance per customer failed: %w", err)
	}

	s.logger.Debug("balance per customer", "rows", len(rows))
	return rows, nil
}
