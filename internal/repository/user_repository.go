package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/nileshswami544-code/freelancerpayment/internal/apperr"
	"github.com/nileshswami544-code/freelancerpayment/internal/model"
)

// UserRepo persists freelancer credentials.  It implements auth.Store.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// CreateFreelancer inserts a freelancer and returns its ID.  A duplicate
// username surfaces as a conflict.
func (r *UserRepo) CreateFreelancer(ctx context.Context, username, passwordHash string) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO freelancers (username, password_hash) VALUES (?, ?)",
		username, passwordHash)
	if err != nil {
		if mysqlCode(err) == errDupEntry {
			return 0, apperr.Conflict("username already taken")
		}
		return 0, apperr.Storage("create freelancer", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, apperr.Storage("create freelancer", err)
	}
	return uint64(id), nil
}

// GetFreelancerByUsername fetches a freelancer by exact username.
func (r *UserRepo) GetFreelancerByUsername(ctx context.Context, username string) (model.Freelancer, error) {
	var f model.Freelancer
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, username, password_hash, created_at FROM freelancers WHERE username = ? LIMIT 1",
		username).Scan(&f.ID, &f.Username, &f.PasswordHash, &f.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Freelancer{}, apperr.NotFound("freelancer")
		}
		return model.Freelancer{}, apperr.Storage("get freelancer", err)
	}
	return f, nil
}
