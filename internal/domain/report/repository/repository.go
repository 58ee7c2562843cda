// Package repository provides read-only access to the warehouse reporting
// aggregates.
package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// DailySummaryRow is one calendar day of transaction activity. Days without
// transactions produce no row.
type DailySummaryRow struct {
	Date              time.Time
	TotalTransactions int64
	TotalAmount       decimal.Decimal
}

// CustomerBalanceRow is the stored and derived balance of one account owned
// by the matched customer.
type CustomerBalanceRow struct {
	CustomerName   string
	AccountType    string
	Balance        decimal.Decimal
	CurrentBalance decimal.Decimal
}

// ReportRepository defines the two warehouse report queries. Both are
// stateless and safe to run concurrently.
type ReportRepository interface {
	// DailySummary returns per-day transaction counts and amount totals for
	// the inclusive date range, ascending by day. A nil branchName applies no
	// branch restriction.
	DailySummary(ctx context.Context, start, end time.Time, branchName *string) ([]DailySummaryRow, error)

	// BalancePerCustomer returns one row per ACTIVE account of the customers
	// whose name matches customerName case- and whitespace-insensitively.
	BalancePerCustomer(ctx context.Context, customerName string) ([]CustomerBalanceRow, error)
}
