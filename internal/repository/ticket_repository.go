package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/cinema-ticket-booking/internal/model"
)

// TicketRepo manages persistence for tickets.  The `tickets` table
// carries UNIQUE KEY (show_id, pos_row, cell); that constraint, not any
// application-level check, is what guarantees a seat is sold at most
// once even under concurrent purchases.
type TicketRepo struct {
	db *sql.DB
}

// NewTicketRepo constructs a TicketRepo with the given DB handle.
func NewTicketRepo(db *sql.DB) *TicketRepo {
	return &TicketRepo{db: db}
}

const ticketColumns = "id, show_id, pos_row, cell, user_id, created_at"

// Create inserts a ticket and assigns the generated ID back to the
// struct.  When the seat is already sold for the show, the duplicate-key
// error from the unique constraint is mapped to ErrSeatTaken.
func (r *TicketRepo) Create(ctx context.Context, t *model.Ticket) error {
	const q = `INSERT INTO tickets (show_id, pos_row, cell, user_id) VALUES (?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, t.ShowID, t.PosRow, t.Cell, t.UserID)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrSeatTaken
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	const sel = `SELECT ` + ticketColumns + ` FROM tickets WHERE id = ?`
	return r.db.QueryRowContext(ctx, sel, t.ID).Scan(
		&t.ID, &t.ShowID, &t.PosRow, &t.Cell, &t.UserID, &t.CreatedAt,
	)
}

// GetByID retrieves a ticket by its ID.  It returns ErrTicketNotFound if
// there is no matching row.
func (r *TicketRepo) GetByID(ctx context.Context, id uint64) (*model.Ticket, error) {
	const q = `SELECT ` + ticketColumns + ` FROM tickets WHERE id = ?`
	var t model.Ticket
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&t.ID, &t.ShowID, &t.PosRow, &t.Cell, &t.UserID, &t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTicketNotFound
		}
		return nil, err
	}
	return &t, nil
}

// List returns all tickets ordered by id.
func (r *TicketRepo) List(ctx context.Context) ([]model.Ticket, error) {
	const q = `SELECT ` + ticketColumns + ` FROM tickets ORDER BY id`
	return r.queryTickets(ctx, q)
}

// ListByShow returns all tickets sold for one show.  The availability
// engine sources its sold-seat set from this query.  Ordering by row and
// cell keeps output deterministic.
func (r *TicketRepo) ListByShow(ctx context.Context, showID uint64) ([]model.Ticket, error) {
	const q = `SELECT ` + ticketColumns + ` FROM tickets WHERE show_id = ? ORDER BY pos_row, cell`
	return r.queryTickets(ctx, q, showID)
}

// ListByUser returns all tickets purchased by one user, newest first.
func (r *TicketRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Ticket, error) {
	const q = `SELECT ` + ticketColumns + ` FROM tickets WHERE user_id = ? ORDER BY created_at DESC, id DESC`
	return r.queryTickets(ctx, q, userID)
}

// Update rewrites an existing ticket.  The booking flow never calls
// this; it exists for administrative correction and maps seat conflicts
// the same way Create does.
func (r *TicketRepo) Update(ctx context.Context, t model.Ticket) error {
	const q = `UPDATE tickets SET show_id=?, pos_row=?, cell=?, user_id=? WHERE id=?`
	_, err := r.db.ExecContext(ctx, q, t.ShowID, t.PosRow, t.Cell, t.UserID, t.ID)
	if isDuplicateKey(err) {
		return ErrSeatTaken
	}
	return err
}

// Delete removes a ticket row and reports whether a row was actually
// removed.
func (r *TicketRepo) Delete(ctx context.Context, id uint64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tickets WHERE id=?`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *TicketRepo) queryTickets(ctx context.Context, q string, args ...interface{}) ([]model.Ticket, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	tickets := make([]model.Ticket, 0)
	for rows.Next() {
		var t model.Ticket
		if err := rows.Scan(&t.ID, &t.ShowID, &t.PosRow, &t.Cell, &t.UserID, &t.CreatedAt); err != nil {
			return nil, err
		}
		tickets = append(tickets, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tickets, nil
}
