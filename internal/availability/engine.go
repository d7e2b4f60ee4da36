// Package availability computes free seats for a show.  Every show
// shares the same fixed grid of rows and cells; a seat is free when no
// ticket for the show occupies its (row, cell) coordinate.  The engine
// is a pure read-and-compute component: it queries sold tickets through
// a narrow source interface and never writes anything.
package availability

import (
	"context"
	"sort"

	"github.com/iliyamo/cinema-ticket-booking/internal/config"
	"github.com/iliyamo/cinema-ticket-booking/internal/model"
)

// TicketSource is the slice of the ticket repository the engine needs.
// *repository.TicketRepo satisfies it; tests plug in fakes.
type TicketSource interface {
	ListByShow(ctx context.Context, showID uint64) ([]model.Ticket, error)
}

// Engine answers "which rows still have a free seat" and "which cells of
// a row are free" for a show.  The grid dimensions are fixed at
// construction; the engine does not validate that the show exists, the
// caller is expected to have resolved it first.
type Engine struct {
	tickets TicketSource
	grid    config.Grid
}

// NewEngine constructs an Engine over the given ticket source and grid.
func NewEngine(tickets TicketSource, grid config.Grid) *Engine {
	if tickets == nil {
		panic("nil ticket source passed to NewEngine")
	}
	return &Engine{tickets: tickets, grid: grid}
}

// Grid returns the grid the engine was built with.
func (e *Engine) Grid() config.Grid { return e.grid }

// FreeRows returns the numbers of all rows that still have at least one
// free seat for the show, in ascending order.  A row with every cell
// sold is omitted.
func (e *Engine) FreeRows(ctx context.Context, showID uint64) ([]int, error) {
	free, err := e.freeSeatMap(ctx, showID)
	if err != nil {
		return nil, err
	}
	rows := make([]int, 0, e.grid.Rows)
	for row, cells := range free {
		if len(cells) > 0 {
			rows = append(rows, row)
		}
	}
	sort.Ints(rows)
	return rows, nil
}

// FreeCells returns the free cell numbers of one row for the show, in
// ascending order.  A row outside [1, Rows] yields an empty slice, not
// an error, so a stray request cannot break the booking flow.
func (e *Engine) FreeCells(ctx context.Context, showID uint64, row int) ([]int, error) {
	if row < 1 || row > e.grid.Rows {
		return []int{}, nil
	}
	free, err := e.freeSeatMap(ctx, showID)
	if err != nil {
		return nil, err
	}
	return free[row], nil
}

// freeSeatMap builds the row -> free cells mapping: every cell of every
// row starts free, then each sold ticket removes its exact (row, cell)
// coordinate.  Tickets outside the grid (possible after a grid
// reconfiguration shrank the layout) are ignored rather than panicking.
func (e *Engine) freeSeatMap(ctx context.Context, showID uint64) (map[int][]int, error) {
	tickets, err := e.tickets.ListByShow(ctx, showID)
	if err != nil {
		return nil, err
	}
	sold := make(map[[2]int]bool, len(tickets))
	for _, t := range tickets {
		sold[[2]int{t.PosRow, t.Cell}] = true
	}
	free := make(map[int][]int, e.grid.Rows)
	for row := 1; row <= e.grid.Rows; row++ {
		cells := make([]int, 0, e.grid.Cells)
		for cell := 1; cell <= e.grid.Cells; cell++ {
			if !sold[[2]int{row, cell}] {
				cells = append(cells, cell)
			}
		}
		free[row] = cells
	}
	return free, nil
}
