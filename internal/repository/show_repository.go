// Package repository contains data access logic for the booking domain.
// This file holds repository methods for shows.  A show is a screening
// users can buy tickets for; its seating layout comes from the global
// grid configuration, not from the row itself.
package repository

import (
	"context"      // context for controlling query lifetime
	"database/sql" // sql provides DB abstraction
	"errors"       // errors for sentinel comparisons

	"github.com/iliyamo/cinema-ticket-booking/internal/model"
)

// ShowRepo manages persistence for shows.
type ShowRepo struct {
	db *sql.DB
}

// NewShowRepo constructs a ShowRepo with the given DB handle.
func NewShowRepo(db *sql.DB) *ShowRepo {
	return &ShowRepo{db: db}
}

// DB exposes the underlying sql.DB.  It allows callers to begin
// transactions spanning multiple repositories.
func (r *ShowRepo) DB() *sql.DB {
	return r.db
}

const showColumns = "id, name, description, poster_url, created_at, updated_at"

// Create inserts a new show into the database and assigns the generated
// ID back to the show struct.
func (r *ShowRepo) Create(ctx context.Context, s *model.Show) error {
	const q = `INSERT INTO shows (name, description, poster_url) VALUES (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, s.Name, s.Description, s.PosterURL)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	// Fetch the freshly inserted row to populate DB-default timestamps.
	const sel = `SELECT ` + showColumns + ` FROM shows WHERE id = ?`
	return r.db.QueryRowContext(ctx, sel, s.ID).Scan(
		&s.ID, &s.Name, &s.Description, &s.PosterURL, &s.CreatedAt, &s.UpdatedAt,
	)
}

// GetByID retrieves a show by its ID.  It returns ErrShowNotFound if
// there is no matching row.
func (r *ShowRepo) GetByID(ctx context.Context, id uint64) (*model.Show, error) {
	const q = `SELECT ` + showColumns + ` FROM shows WHERE id = ?`
	var s model.Show
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&s.ID, &s.Name, &s.Description, &s.PosterURL, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrShowNotFound
		}
		return nil, err
	}
	return &s, nil
}

// List returns all shows ordered by id.  Browsing pages render this
// list; an empty slice (not nil) is returned when no shows exist.
func (r *ShowRepo) List(ctx context.Context) ([]model.Show, error) {
	const q = `SELECT ` + showColumns + ` FROM shows ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	shows := make([]model.Show, 0)
	for rows.Next() {
		var s model.Show
		if err := rows.Scan(&s.ID, &s.Name, &s.Description, &s.PosterURL, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		shows = append(shows, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return shows, nil
}

// Update rewrites the mutable fields of an existing show.  It returns
// ErrShowNotFound when the id does not exist.
func (r *ShowRepo) Update(ctx context.Context, s model.Show) error {
	const q = `UPDATE shows SET name=?, description=?, poster_url=? WHERE id=?`
	res, err := r.db.ExecContext(ctx, q, s.Name, s.Description, s.PosterURL, s.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// Distinguish "no such show" from "nothing changed": probe the row.
		var exists uint64
		err := r.db.QueryRowContext(ctx, `SELECT id FROM shows WHERE id=?`, s.ID).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrShowNotFound
		}
		return err
	}
	return nil
}

// Delete removes a show row and reports whether a row was actually
// removed.  Tickets reference shows with a foreign key, so deleting a
// show with sold tickets fails at the DB level and the error is
// propagated unchanged for the handler to map.
func (r *ShowRepo) Delete(ctx context.Context, id uint64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM shows WHERE id=?`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
