package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/nileshswami544-code/freelancerpayment/internal/apperr"
	"github.com/nileshswami544-code/freelancerpayment/internal/model"
)

// ClientRepo encapsulates all database queries related to clients.  Clients
// carry their owner directly in freelancer_id.
type ClientRepo struct {
	db *sql.DB
}

func NewClientRepo(db *sql.DB) *ClientRepo { return &ClientRepo{db: db} }

const clientCols = "id, name, contact_info, freelancer_id"

func scanClient(s interface{ Scan(...any) error }, c *model.Client) error {
	return s.Scan(&c.ID, &c.Name, &c.ContactInfo, &c.OwnerID)
}

// ListByOwner returns all clients of ownerID ordered by id.  The result is
// never nil.
func (r *ClientRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]model.Client, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+clientCols+" FROM clients WHERE freelancer_id = ? ORDER BY id", ownerID)
	if err != nil {
		return nil, apperr.Storage("list clients", err)
	}
	defer rows.Close()

	out := []model.Client{}
	for rows.Next() {
		var c model.Client
		if err := scanClient(rows, &c); err != nil {
			return nil, apperr.Storage("list clients", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Storage("list clients", err)
	}
	return out, nil
}

// GetByIDAndOwner fetches a client only if it belongs to ownerID.
func (r *ClientRepo) GetByIDAndOwner(ctx context.Context, id, ownerID uint64) (model.Client, error) {
	var c model.Client
	err := scanClient(r.db.QueryRowContext(ctx,
		"SELECT "+clientCols+" FROM clients WHERE id = ? AND freelancer_id = ?", id, ownerID), &c)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Client{}, apperr.NotFound("client")
		}
		return model.Client{}, apperr.Storage("get client", err)
	}
	return c, nil
}

// Create inserts c under c.OwnerID and fills in c.ID.
func (r *ClientRepo) Create(ctx context.Context, c *model.Client) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO clients (name, contact_info, freelancer_id) VALUES (?, ?, ?)",
		c.Name, c.ContactInfo, c.OwnerID)
	if err != nil {
		return classify("create client", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return apperr.Storage("create client", err)
	}
	c.ID = uint64(id)
	return nil
}

// Update rewrites the mutable fields of c if it belongs to c.OwnerID.
func (r *ClientRepo) Update(ctx context.Context, c *model.Client) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE clients SET name = ?, contact_info = ? WHERE id = ? AND freelancer_id = ?",
		c.Name, c.ContactInfo, c.ID, c.OwnerID)
	if err != nil {
		return classify("update client", err)
	}
	return expectOne(res, "client", "update client")
}

// DeleteByIDAndOwner removes a client owned by ownerID.  A client that still
// has projects cannot be deleted.
func (r *ClientRepo) DeleteByIDAndOwner(ctx context.Context, id, ownerID uint64) error {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM clients WHERE id = ? AND freelancer_id = ?", id, ownerID)
	if err != nil {
		return classify("delete client", err)
	}
	return expectOne(res, "client", "delete client")
}

// IsOwnedBy reports whether client id belongs to ownerID.
func (r *ClientRepo) IsOwnedBy(ctx context.Context, id, ownerID uint64) (bool, error) {
	return exists(ctx, r.db, "check client owner",
		"SELECT 1 FROM clients WHERE id = ? AND freelancer_id = ?", id, ownerID)
}

// expectOne turns "zero rows matched" into NotFound.  The DSN sets
// clientFoundRows, so an UPDATE that leaves values unchanged still counts.
func expectOne(res sql.Result, resource, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return apperr.Storage(op, err)
	}
	if n == 0 {
		return apperr.NotFound(resource)
	}
	return nil
}

func exists(ctx context.Context, db *sql.DB, op, q string, args ...any) (bool, error) {
	var one int
	err := db.QueryRowContext(ctx, q, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, apperr.Storage(op, err)
	}
	return true, nil
}
