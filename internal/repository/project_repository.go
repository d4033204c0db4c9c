package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/nileshswami544-code/freelancerpayment/internal/apperr"
	"github.com/nileshswami544-code/freelancerpayment/internal/model"
)

// ProjectRepo encapsulates all database queries related to projects.
// Projects are owned directly through freelancer_id; client_id is only a
// reference and is checked by the caller when required.
type ProjectRepo struct {
	db *sql.DB
}

func NewProjectRepo(db *sql.DB) *ProjectRepo { return &ProjectRepo{db: db} }

var projectCols = "id, project_name, client_id, freelancer_id, status, " + dateCol("due_date")

func scanProject(s interface{ Scan(...any) error }, p *model.Project) error {
	return s.Scan(&p.ID, &p.ProjectName, &p.ClientID, &p.OwnerID, &p.Status, &p.DueDate)
}

// ListByOwner returns all projects of ownerID ordered by id.
func (r *ProjectRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]model.Project, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+projectCols+" FROM projects WHERE freelancer_id = ? ORDER BY id", ownerID)
	if err != nil {
		return nil, apperr.Storage("list projects", err)
	}
	defer rows.Close()

	out := []model.Project{}
	for rows.Next() {
		var p model.Project
		if err := scanProject(rows, &p); err != nil {
			return nil, apperr.Storage("list projects", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Storage("list projects", err)
	}
	return out, nil
}

// GetByIDAndOwner fetches a project only if it belongs to ownerID.
func (r *ProjectRepo) GetByIDAndOwner(ctx context.Context, id, ownerID uint64) (model.Project, error) {
	var p model.Project
	err := scanProject(r.db.QueryRowContext(ctx,
		"SELECT "+projectCols+" FROM projects WHERE id = ? AND freelancer_id = ?", id, ownerID), &p)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Project{}, apperr.NotFound("project")
		}
		return model.Project{}, apperr.Storage("get project", err)
	}
	return p, nil
}

// Create inserts p under p.OwnerID and fills in p.ID.
func (r *ProjectRepo) Create(ctx context.Context, p *model.Project) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO projects (project_name, client_id, freelancer_id, status, due_date) VALUES (?, ?, ?, ?, ?)",
		p.ProjectName, p.ClientID, p.OwnerID, p.Status, nullDate(p.DueDate))
	if err != nil {
		return classify("create project", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return apperr.Storage("create project", err)
	}
	p.ID = uint64(id)
	return nil
}

// Update rewrites p if it belongs to p.OwnerID.
func (r *ProjectRepo) Update(ctx context.Context, p *model.Project) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE projects SET project_name = ?, client_id = ?, status = ?, due_date = ?
		 WHERE id = ? AND freelancer_id = ?`,
		p.ProjectName, p.ClientID, p.Status, nullDate(p.DueDate), p.ID, p.OwnerID)
	if err != nil {
		return classify("update project", err)
	}
	return expectOne(res, "project", "update project")
}

// DeleteByIDAndOwner removes a project owned by ownerID.
func (r *ProjectRepo) DeleteByIDAndOwner(ctx context.Context, id, ownerID uint64) error {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM projects WHERE id = ? AND freelancer_id = ?", id, ownerID)
	if err != nil {
		return classify("delete project", err)
	}
	return expectOne(res, "project", "delete project")
}

// IsOwnedBy reports whether project id belongs to ownerID.
func (r *ProjectRepo) IsOwnedBy(ctx context.Context, id, ownerID uint64) (bool, error) {
	return exists(ctx, r.db, "check project owner",
		"SELECT 1 FROM projects WHERE id = ? AND freelancer_id = ?", id, ownerID)
}
