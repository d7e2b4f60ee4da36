package model

import "time"

// Ticket records the purchase of a single seat for a single show.  The
// seat is addressed by its (row, cell) coordinate in the shared grid.
// The `tickets` table carries a unique key over (show_id, pos_row, cell),
// so no two tickets can ever hold the same seat of the same show; the
// repository translates the resulting duplicate-key error into
// ErrSeatTaken.
//
// Fields:
//  ID        – primary key identifier.
//  ShowID    – show the seat belongs to.
//  PosRow    – row number of the seat, 1..Grid.Rows.
//  Cell      – cell number within the row, 1..Grid.Cells.
//  UserID    – user who purchased the ticket.
//  CreatedAt – purchase timestamp.
type Ticket struct {
    ID        uint64    // tickets.id
    ShowID    uint64    // tickets.show_id
    PosRow    int       // tickets.pos_row
    Cell      int       // tickets.cell
    UserID    uint64    // tickets.user_id
    CreatedAt time.Time // tickets.created_at
}
