package repository

import (
	"context"
	"database/sql"

	"github.com/nileshswami544-code/freelancerpayment/internal/apperr"
	"github.com/nileshswami544-code/freelancerpayment/internal/model"
)

// ReportRepo computes read-only aggregates over a freelancer's own rows.
type ReportRepo struct {
	db *sql.DB
}

func NewReportRepo(db *sql.DB) *ReportRepo { return &ReportRepo{db: db} }

// TotalPayments sums amount_paid over every payment owned by ownerID.  An
// owner without payments gets 0.
func (r *ReportRepo) TotalPayments(ctx context.Context, ownerID uint64) (float64, error) {
	var total float64
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(pm.amount_paid), 0)
		 FROM payments pm
		 JOIN invoices i ON i.id = pm.invoice_id
		 JOIN projects p ON p.id = i.project_id
		 WHERE p.freelancer_id = ?`, ownerID).Scan(&total)
	if err != nil {
		return 0, apperr.Storage("total payments", err)
	}
	return total, nil
}

// PendingInvoices counts ownerID's invoices with status "pending".
func (r *ReportRepo) PendingInvoices(ctx context.Context, ownerID uint64) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*)
		 FROM invoices i
		 JOIN projects p ON p.id = i.project_id
		 WHERE p.freelancer_id = ? AND i.status = ?`, ownerID, model.InvoicePending).Scan(&n)
	if err != nil {
		return 0, apperr.Storage("pending invoices", err)
	}
	return n, nil
}
