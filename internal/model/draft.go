package model

// BookingDraft captures the in-progress seat selection of one caller
// between booking steps.  It is keyed by a per-session identifier, stored
// serialized (JSON) in the draft store and discarded on confirm, cancel
// or expiry.  The zero value of PosRow/Cell means "not selected yet";
// real rows and cells are numbered from 1.
type BookingDraft struct {
    ShowID uint64 `json:"show_id"`          // selected show
    PosRow int    `json:"pos_row,omitempty"` // selected row, 0 until chosen
    Cell   int    `json:"cell,omitempty"`    // selected cell, 0 until chosen
}

// HasRow reports whether the draft has progressed past row selection.
func (d BookingDraft) HasRow() bool { return d.PosRow > 0 }

// HasCell reports whether the draft has progressed past cell selection.
func (d BookingDraft) HasCell() bool { return d.Cell > 0 }
