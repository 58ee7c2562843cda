package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

// PgxPool abstracts the subset of pgxpool.Pool used by the repository to allow mocking in tests.
type PgxPool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var _ PgxPool = (*pgxpool.Pool)(nil)

const dateLayout = "2006-01-02"

// Transaction timestamps are canonical "YYYY-MM-DD HH:MM:SS" text after
// normalization, so the leading ten characters compare lexically as dates.
// Aggregate numerics are cast to text and parsed into decimals on scan.
const dailySummaryQuery = `
	SELECT substr(f.transaction_date, 1, 10) AS day,
	       COUNT(*) AS total_transactions,
	       SUM(f.amount)::text AS total_amount
	FROM fact_transaction f
	JOIN dim_branch b ON b.branch_id = f.branch_id
	WHERE substr(f.transaction_date, 1, 10) BETWEEN $1 AND $2
	  AND ($3::text IS NULL OR b.branch_name = $3)
	GROUP BY day
	ORDER BY day
`

const balancePerCustomerQuery = `
	SELECT c.customer_name,
	       a.account_type,
	       a.balance::text,
	       (a.balance + COALESCE(SUM(
	           CASE WHEN f.transaction_type = 'Deposit' THEN f.amount
	                ELSE -f.amount END), 0))::text AS current_balance
	FROM dim_customer c
	JOIN dim_account a ON a.customer_id = c.customer_id
	LEFT JOIN fact_transaction f ON f.account_id = a.account_id
	WHERE UPPER(TRIM(c.customer_name)) = UPPER(TRIM($1))
	  AND UPPER(TRIM(a.status)) = 'ACTIVE'
	GROUP BY c.customer_name, a.account_type, a.balance
	ORDER BY a.account_type
`

// PostgresReportRepository runs the report queries against PostgreSQL.
type PostgresReportRepository struct {
	pgpool PgxPool
}

// NewPostgresReportRepository creates a new report repository.
func NewPostgresReportRepository(pgpool PgxPool) *PostgresReportRepository {
	return &PostgresReportRepository{pgpool: pgpool}
}

var _ ReportRepository = (*PostgresReportRepository)(nil)

func (r *PostgresReportRepository) DailySummary(ctx context.Context, start, end time.Time, branchName *string) ([]DailySummaryRow, error) {
	ctx, span := otel.Tracer("ReportRepo").Start(ctx, "DailySummary", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "fact_transaction"),
		attribute.Bool("report.branch_filter", branchName != nil),
	))
	defer span.End()

	rows, err := r.pgpool.Query(ctx, dailySummaryQuery,
		start.Format(dateLayout), end.Format(dateLayout), branchName)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to query daily summary: %w", err)
	}
	defer rows.Close()

	var result []DailySummaryRow
	for rows.Next() {
		var (
			day    string
			count  int64
			amount string
		)
		if err := rows.Scan(&day, &count, &amount); err != nil {
			span.SetStatus(codes.Error, err.Error())
			return nil, fmt.Errorf("failed to scan daily summary row: %w", err)
		}

		date, err := time.Parse(dateLayout, day)
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			return nil, fmt.Errorf("unexpected day %q in daily summary: %w", day, err)
		}
		total, err := decimal.NewFromString(amount)
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			return nil, fmt.Errorf("unexpected amount %q in daily summary: %w", amount, err)
		}

		result = append(result, DailySummaryRow{
			Date:              date,
			TotalTransactions: count,
			TotalAmount:       total,
		})
	}
	if err := rows.Err(); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to read daily summary: %w", err)
	}

	return result, nil
}

func (r *PostgresReportRepository) BalancePerCustomer(ctx context.Context, customerName string) ([]CustomerBalanceRow, error) {
	ctx, span := otel.Tracer("ReportRepo").Start(ctx, "BalancePerCustomer", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "dim_account"),
	))
	defer span.End()

	rows, err := r.pgpool.Query(ctx, balancePerCustomerQuery, customerName)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to query balance per customer: %w", err)
	}
	defer rows.Close()

	var result []CustomerBalanceRow
	for rows.Next() {
		var (
			name           string
			accountType    string
			balanceText    string
			currentBalText string
		)
		if err := rows.Scan(&name, &accountType, &balanceText, &currentBalText); err != nil {
			span.SetStatus(codes.Error, err.Error())
			return nil, fmt.Errorf("failed to scan balance row: %w", err)
		}

		balance, err := decimal.NewFromString(balanceText)
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			return nil, fmt.Errorf("unexpected balance %q: %w", balanceText, err)
		}
		currentBalance, err := decimal.NewFromString(currentBalText)
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			return nil, fmt.Errorf("unexpected current balance %q: %w", currentBalText, err)
		}

		result = append(result, CustomerBalanceRow{
			CustomerName:   name,
			AccountType:    accountType,
			Balance:        balance,
			CurrentBalance: currentBalance,
		})
	}
	if err := rows.Err(); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to read balance rows: %w", err)
	}

	return result, nil
}
