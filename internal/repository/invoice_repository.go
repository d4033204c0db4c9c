package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/nileshswami544-code/freelancerpayment/internal/apperr"
	"github.com/nileshswami544-code/freelancerpayment/internal/model"
)

// InvoiceRepo encapsulates all database queries related to invoices.
// Invoices have no owner column: every read, update and delete joins to
// projects and filters on projects.freelancer_id.
type InvoiceRepo struct {
	db *sql.DB
}

func NewInvoiceRepo(db *sql.DB) *InvoiceRepo { return &InvoiceRepo{db: db} }

var invoiceCols = "i.id, i.project_id, i.amount, " + dateCol("i.due_date") + ", i.status"

func scanInvoice(s interface{ Scan(...any) error }, inv *model.Invoice) error {
	return s.Scan(&inv.ID, &inv.ProjectID, &inv.Amount, &inv.DueDate, &inv.Status)
}

// ListByOwner returns all invoices whose project belongs to ownerID.
func (r *InvoiceRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]model.Invoice, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+invoiceCols+`
		 FROM invoices i
		 JOIN projects p ON p.id = i.project_id
		 WHERE p.freelancer_id = ?
		 ORDER BY i.id`, ownerID)
	if err != nil {
		return nil, apperr.Storage("list invoices", err)
	}
	defer rows.Close()

	out := []model.Invoice{}
	for rows.Next() {
		var inv model.Invoice
		if err := scanInvoice(rows, &inv); err != nil {
			return nil, apperr.Storage("list invoices", err)
		}
		out = append(out, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Storage("list invoices", err)
	}
	return out, nil
}

// GetByIDAndOwner fetches an invoice only if its project belongs to ownerID.
func (r *InvoiceRepo) GetByIDAndOwner(ctx context.Context, id, ownerID uint64) (model.Invoice, error) {
	var inv model.Invoice
	err := scanInvoice(r.db.QueryRowContext(ctx,
		`SELECT `+invoiceCols+`
		 FROM invoices i
		 JOIN projects p ON p.id = i.project_id
		 WHERE i.id = ? AND p.freelancer_id = ?`, id, ownerID), &inv)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Invoice{}, apperr.NotFound("invoice")
		}
		return model.Invoice{}, apperr.Storage("get invoice", err)
	}
	return inv, nil
}

// Create inserts inv and fills in inv.ID.  It does not look at ownership;
// callers decide whether the referenced project must be checked first.
func (r *InvoiceRepo) Create(ctx context.Context, inv *model.Invoice) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO invoices (project_id, amount, due_date, status) VALUES (?, ?, ?, ?)",
		inv.ProjectID, inv.Amount, nullDate(inv.DueDate), inv.Status)
	if err != nil {
		return classify("create invoice", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return apperr.Storage("create invoice", err)
	}
	inv.ID = uint64(id)
	return nil
}

// Update rewrites invoice inv.ID if its current project belongs to ownerID.
func (r *InvoiceRepo) Update(ctx context.Context, ownerID uint64, inv *model.Invoice) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE invoices i
		 JOIN projects p ON p.id = i.project_id
		 SET i.project_id = ?, i.amount = ?, i.due_date = ?, i.status = ?
		 WHERE i.id = ? AND p.freelancer_id = ?`,
		inv.ProjectID, inv.Amount, nullDate(inv.DueDate), inv.Status, inv.ID, ownerID)
	if err != nil {
		return classify("update invoice", err)
	}
	return expectOne(res, "invoice", "update invoice")
}

// DeleteByIDAndOwner removes an invoice whose project belongs to ownerID.
func (r *InvoiceRepo) DeleteByIDAndOwner(ctx context.Context, id, ownerID uint64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE i FROM invoices i
		 JOIN projects p ON p.id = i.project_id
		 WHERE i.id = ? AND p.freelancer_id = ?`, id, ownerID)
	if err != nil {
		return classify("delete invoice", err)
	}
	return expectOne(res, "invoice", "delete invoice")
}

// IsOwnedBy reports whether invoice id belongs, through its project, to ownerID.
func (r *InvoiceRepo) IsOwnedBy(ctx context.Context, id, ownerID uint64) (bool, error) {
	return exists(ctx, r.db, "check invoice owner",
		`SELECT 1 FROM invoices i
		 JOIN projects p ON p.id = i.project_id
		 WHERE i.id = ? AND p.freelancer_id = ?`, id, ownerID)
}
