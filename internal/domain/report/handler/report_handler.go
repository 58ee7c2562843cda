// Package handler exposes the two warehouse reports over HTTP.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/aryodl/bankdw/internal/domain/common"
	"github.com/aryodl/bankdw/internal/domain/report/repository"
	"github.com/aryodl/bankdw/pkg/middleware"
)

const dateLayout = "2006-01-02"

// ReportService is the façade the handler consumes.
type ReportService interface {
	DailyTransactionSummary(ctx context.Context, startDate, endDate, branchName string) ([]repository.DailySummaryRow, error)
	BalancePerCustomer(ctx context.Context, customerName string) ([]repository.CustomerBalanceRow, error)
}

// ReportHandler serves the report endpoints.
type ReportHandler struct {
	svc    ReportService
	logger *slog.Logger
}

// NewReportHandler creates a new report handler.
func NewReportHandler(svc ReportService, logger *slog.Logger) *ReportHandler {
	return &ReportHandler{svc: svc, logger: logger}
}

type dailySummaryItem struct {
	Date              string `json:"date"`
	TotalTransactions int64  `json:"total_transactions"`
	TotalAmount       string `json:"total_amount"`
}

type customerBalanceItem struct {
	CustomerName   string `json:"customer_name"`
	AccountType    string `json:"account_type"`
	Balance        string `json:"balance"`
	CurrentBalance string `json:"current_balance"`
}

// DailyTransactions handles GET /v1/reports/daily-transactions
func (h *ReportHandler) DailyTransactions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	rows, err := h.svc.DailyTransactionSummary(r.Context(),
		q.Get("start_date"), q.Get("end_date"), q.Get("branch_name"))
	if err != nil {
		h.writeServiceError(w, err, "failed to run daily transaction summary")
		return
	}

	items := make([]dailySummaryItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, dailySummaryItem{
			Date:              row.Date.Format(dateLayout),
			TotalTransactions: row.TotalTransactions,
			TotalAmount:       row.TotalAmount.String(),
		})
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]any{
		"rows":  items,
		"count": len(items),
	})
}

// CustomerBalance handles GET /v1/reports/customer-balance
func (h *ReportHandler) CustomerBalance(w http.ResponseWriter, r *http.Request) {
	rows, err := h.svc.BalancePerCustomer(r.Context(), r.URL.Query().Get("customer_name"))
	if err != nil {
		h.writeServiceError(w, err, "failed to run balance per customer")
		return
	}

	items := make([]customerBalanceItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, customerBalanceItem{
			CustomerName:   row.CustomerName,
			AccountType:    row.AccountType,
			Balance:        row.Balance.String(),
			CurrentBalance: row.CurrentBalance.String(),
		})
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]any{
		"rows":  items,
		"count": len(items),
	})
}

func (h *ReportHandler) writeServiceError(w http.ResponseWriter, err error, logMsg string) {
	if errors.Is(err, common.ErrBadRequest) {
		middleware.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.logger.Error(logMsg, "error", err)
	middleware.WriteError(w, http.StatusInternalServerError, "report query failed")
}
