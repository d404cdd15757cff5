package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/stadium-entry/internal/model"
)

// StadiumRepo encapsulates all database queries related to stadiums.  It
// depends on a sql.DB connection which is configured in package database.
type StadiumRepo struct {
	db *sql.DB
}

// NewStadiumRepo constructs a StadiumRepo with the provided DB handle.
func NewStadiumRepo(db *sql.DB) *StadiumRepo {
	return &StadiumRepo{db: db}
}

// Create inserts a new stadium.  On success the stadium's ID field is
// populated with the auto-generated value.
func (r *StadiumRepo) Create(ctx context.Context, s *model.Stadium) error {
	const q = "INSERT INTO stadiums (name, num_gates, num_seats) VALUES (?, ?, ?)"
	res, err := r.db.ExecContext(ctx, q, s.Name, s.NumGates, s.NumSeats)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	return nil
}

// GetByID fetches a stadium by its ID.  It returns ErrStadiumNotFound if
// no row is found.
func (r *StadiumRepo) GetByID(ctx context.Context, id uint64) (*model.Stadium, error) {
	const q = "SELECT id, name, num_gates, num_seats FROM stadiums WHERE id = ?"
	var s model.Stadium
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&s.ID, &s.Name, &s.NumGates, &s.NumSeats); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStadiumNotFound
		}
		return nil, err
	}
	return &s, nil
}

// ListAll returns all stadiums ordered by id.
func (r *StadiumRepo) ListAll(ctx context.Context) ([]model.Stadium, error) {
	const q = `SELECT id, name, num_gates, num_seats FROM stadiums ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Stadium{}
	for rows.Next() {
		var s model.Stadium
		if err := rows.Scan(&s.ID, &s.Name, &s.NumGates, &s.NumSeats); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
