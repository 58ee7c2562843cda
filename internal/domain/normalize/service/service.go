// Package service orchestrates the one-time datetime normalization run.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aryodl/bankdw/internal/domain/normalize/repository"
	"github.com/aryodl/bankdw/pkg/observability"
)

// NormalizeService runs the table rewrites in dependency order. It must not
// run concurrently with report queries against the same tables; callers
// serialize it behind a maintenance window.
type NormalizeService struct {
	repo   repository.NormalizeRepository
	logger *slog.Logger
}

// NewNormalizeService creates a new normalize service.
func NewNormalizeService(repo repository.NormalizeRepository, logger *slog.Logger) *NormalizeService {
	return &NormalizeService{repo: repo, logger: logger}
}

// Run rewrites dim_date, dim_time and fact_transaction in order, stopping at
// the first failure. A row whose text could not be parsed is kept verbatim
// and counted, not treated as an error.
func (s *NormalizeService) Run(ctx context.Context) ([]*repository.Result, error) {
	results := make([]*repository.Result, 0, 3)

	for _, spec := range repository.Tables() {
		result, err := s.repo.RewriteTable(ctx, spec)
		if err != nil {
			return results, fmt.Errorf("normalization of %s failed: %w", spec.Table, err)
		}

		observability.RowsCanonicalized.WithLabelValues(result.Table).Add(float64(result.Canonicalized))
		observability.RowsKeptVerbatim.WithLabelValues(result.Table).Add(float64(result.Kept))

		s.logger.Info("table normalized",
			"table", result.Table,
			"rows", result.Rows,
			"canonicalized", result.Canonicalized,
			"kept_verbatim", result.Kept,
		)
		results = append(results, result)
	}

	return results, nil
}
