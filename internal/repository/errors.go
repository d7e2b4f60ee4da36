// Package repository defines error types that are reused across multiple
// repositories.  These sentinel values let higher layers such as the
// booking workflow or handlers distinguish between different failure
// scenarios without inspecting driver errors.  ErrSeatTaken in
// particular carries the one-seat-one-ticket invariant: it is produced
// when the unique key over (show_id, pos_row, cell) rejects an insert.
package repository

import (
    "errors"
    "strings"
)

// ErrShowNotFound indicates that a show was not located in the DB.
var ErrShowNotFound = errors.New("show not found")

// ErrUserNotFound indicates that a user was not located in the DB.
var ErrUserNotFound = errors.New("user not found")

// ErrTicketNotFound indicates that a ticket was not located in the DB.
var ErrTicketNotFound = errors.New("ticket not found")

// ErrEmailExists is returned when an insert collides with the unique
// index on users.email.  Handlers translate it into HTTP 409.
var ErrEmailExists = errors.New("email already exists")

// ErrPhoneExists is returned when an insert collides with the unique
// index on users.phone.
var ErrPhoneExists = errors.New("phone already exists")

// ErrSeatTaken is returned when a ticket insert collides with the unique
// key on (show_id, pos_row, cell).  This is the authoritative
// seat-uniqueness check: two concurrent purchases of the same seat both
// reach the database and exactly one insert succeeds.
var ErrSeatTaken = errors.New("seat already taken")

// isDuplicateKey reports whether err is a MySQL duplicate-entry error
// (error number 1062).
func isDuplicateKey(err error) bool {
    if err == nil {
        return false
    }
    return strings.Contains(strings.ToLower(err.Error()), "1062")
}
