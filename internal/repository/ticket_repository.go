package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/stadium-entry/internal/model"
)

// TicketRepo provides persistence for issued tickets.  Tickets are
// insert-only; there is no update or delete path.
type TicketRepo struct {
	db *sql.DB
}

func NewTicketRepo(db *sql.DB) *TicketRepo {
	return &TicketRepo{db: db}
}

// row_number is a reserved word in MySQL 8 and must stay quoted.
const ticketColumns = "id, number, seat_number, `row_number`, col_number, gate_number, user_id, stadium_id"

func scanTicket(row interface{ Scan(...any) error }, t *model.Ticket) error {
	return row.Scan(&t.ID, &t.Number, &t.SeatNumber, &t.RowNumber, &t.ColNumber, &t.GateNumber, &t.UserID, &t.StadiumID)
}

// Create inserts t and populates its ID.  Foreign keys are expected to be
// validated by the caller; the schema enforces them as well.
func (r *TicketRepo) Create(ctx context.Context, t *model.Ticket) error {
	const q = "INSERT INTO tickets (number, seat_number, `row_number`, col_number, gate_number, user_id, stadium_id) " +
		"VALUES (?, ?, ?, ?, ?, ?, ?)"
	res, err := r.db.ExecContext(ctx, q,
		t.Number, t.SeatNumber, t.RowNumber, t.ColNumber, t.GateNumber, t.UserID, t.StadiumID)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	return nil
}

// GetByID fetches a ticket by id or returns ErrTicketNotFound.
func (r *TicketRepo) GetByID(ctx context.Context, id uint64) (*model.Ticket, error) {
	var t model.Ticket
	if err := scanTicket(r.db.QueryRowContext(ctx, "SELECT "+ticketColumns+" FROM tickets WHERE id = ?", id), &t); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTicketNotFound
		}
		return nil, err
	}
	return &t, nil
}

// FindByUserAndNumber returns the first ticket of userID carrying number.
// Numbers are not unique, so the lowest id wins.  The number is compared
// as bytes: utf8mb4_bin still pads trailing spaces.
func (r *TicketRepo) FindByUserAndNumber(ctx context.Context, userID uint64, number string) (*model.Ticket, error) {
	const q = "SELECT " + ticketColumns + " FROM tickets WHERE user_id = ? AND number = CAST(? AS BINARY) ORDER BY id LIMIT 1"
	var t model.Ticket
	if err := scanTicket(r.db.QueryRowContext(ctx, q, userID, number), &t); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTicketNotFound
		}
		return nil, err
	}
	return &t, nil
}

// ListAll returns all tickets ordered by id.
func (r *TicketRepo) ListAll(ctx context.Context) ([]model.Ticket, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+ticketColumns+" FROM tickets ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Ticket{}
	for rows.Next() {
		var t model.Ticket
		if err := scanTicket(rows, &t); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListByUser returns the tickets owned by userID joined with the name of
// the stadium each one was issued for.
func (r *TicketRepo) ListByUser(ctx context.Context, userID uint64) ([]model.UserTicket, error) {
	const q = "SELECT t.number, t.seat_number, t.`row_number`, t.col_number, t.gate_number, s.name " +
		"FROM tickets t JOIN stadiums s ON s.id = t.stadium_id " +
		"WHERE t.user_id = ? ORDER BY t.id"
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.UserTicket{}
	for rows.Next() {
		var ut model.UserTicket
		if err := rows.Scan(&ut.Number, &ut.SeatNumber, &ut.RowNumber, &ut.ColNumber, &ut.GateNumber, &ut.Stadium); err != nil {
			return nil, err
		}
		out = append(out, ut)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
