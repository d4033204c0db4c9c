package repository

import (
	"context"
	"database/sql"

	"github.com/nileshswami544-code/freelancerpayment/internal/apperr"
	"github.com/nileshswami544-code/freelancerpayment/internal/model"
)

// PaymentRepo encapsulates all database queries related to payments.  There
// is no update or delete path for payments.
type PaymentRepo struct {
	db       *sql.DB
	invoices *InvoiceRepo
}

func NewPaymentRepo(db *sql.DB) *PaymentRepo {
	return &PaymentRepo{db: db, invoices: NewInvoiceRepo(db)}
}

// ListByOwner returns all payments whose invoice's project belongs to ownerID.
func (r *PaymentRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]model.Payment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT pm.id, pm.invoice_id, `+dateCol("pm.payment_date")+`, pm.amount_paid
		 FROM payments pm
		 JOIN invoices i ON i.id = pm.invoice_id
		 JOIN projects p ON p.id = i.project_id
		 WHERE p.freelancer_id = ?
		 ORDER BY pm.id`, ownerID)
	if err != nil {
		return nil, apperr.Storage("list payments", err)
	}
	defer rows.Close()

	out := []model.Payment{}
	for rows.Next() {
		var pm model.Payment
		if err := rows.Scan(&pm.ID, &pm.InvoiceID, &pm.PaymentDate, &pm.AmountPaid); err != nil {
			return nil, apperr.Storage("list payments", err)
		}
		out = append(out, pm)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Storage("list payments", err)
	}
	return out, nil
}

// Create records pm after checking that its invoice belongs to ownerID.  When
// it does not, nothing is inserted.  The check and the insert are separate
// statements, not a transaction.
func (r *PaymentRepo) Create(ctx context.Context, ownerID uint64, pm *model.Payment) error {
	owned, err := r.invoices.IsOwnedBy(ctx, pm.InvoiceID, ownerID)
	if err != nil {
		return err
	}
	if !owned {
		return apperr.Forbidden("invoice does not belong to this freelancer")
	}
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO payments (invoice_id, payment_date, amount_paid) VALUES (?, ?, ?)",
		pm.InvoiceID, pm.PaymentDate, pm.AmountPaid)
	if err != nil {
		return classify("create payment", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return apperr.Storage("create payment", err)
	}
	pm.ID = uint64(id)
	return nil
}
