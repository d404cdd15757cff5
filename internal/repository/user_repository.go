package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/stadium-entry/internal/model"
)

// UserRepo encapsulates queries against the `users` table.
type UserRepo struct{ db *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

// Create inserts u and populates its ID.  A duplicate national id is
// reported as ErrNationalIDExists.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	u.NationalID = strings.TrimSpace(u.NationalID)
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO users (name, national_id) VALUES (?, ?)",
		u.Name, u.NationalID)
	if err != nil {
		if isDuplicateEntry(err) {
			return ErrNationalIDExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	u.ID = uint64(id)
	return nil
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (*model.User, error) {
	var u model.User
	err := r.db.QueryRowContext(ctx,
		"SELECT id, name, national_id FROM users WHERE id = ? LIMIT 1", id).
		Scan(&u.ID, &u.Name, &u.NationalID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// GetByNationalID fetches a user by its national id.
func (r *UserRepo) GetByNationalID(ctx context.Context, nationalID string) (*model.User, error) {
	var u model.User
	err := r.db.QueryRowContext(ctx,
		"SELECT id, name, national_id FROM users WHERE national_id = ? LIMIT 1",
		strings.TrimSpace(nationalID)).
		Scan(&u.ID, &u.Name, &u.NationalID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// ListAll returns every user ordered by id.
func (r *UserRepo) ListAll(ctx context.Context) ([]model.User, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, name, national_id FROM users ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.User{}
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Name, &u.NationalID); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
