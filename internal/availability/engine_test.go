package availability

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/iliyamo/cinema-ticket-booking/internal/config"
	"github.com/iliyamo/cinema-ticket-booking/internal/model"
)

// fakeTicketSource serves a fixed set of tickets per show.
type fakeTicketSource struct {
	tickets map[uint64][]model.Ticket
	err     error
	calls   int
}

func (f *fakeTicketSource) ListByShow(_ context.Context, showID uint64) ([]model.Ticket, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.tickets[showID], nil
}

func sold(showID uint64, seats ...[2]int) []model.Ticket {
	out := make([]model.Ticket, 0, len(seats))
	for i, s := range seats {
		out = append(out, model.Ticket{ID: uint64(i + 1), ShowID: showID, PosRow: s[0], Cell: s[1], UserID: 1})
	}
	return out
}

func TestEngine_FreeRows(t *testing.T) {
	t.Parallel()

	grid := config.Grid{Rows: 7, Cells: 10}

	t.Run("empty show lists every row", func(t *testing.T) {
		eng := NewEngine(&fakeTicketSource{}, grid)
		rows, err := eng.FreeRows(context.Background(), 1)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		want := []int{1, 2, 3, 4, 5, 6, 7}
		if !reflect.DeepEqual(rows, want) {
			t.Fatalf("expected %v, got %v", want, rows)
		}
	})

	t.Run("partially sold row still listed", func(t *testing.T) {
		src := &fakeTicketSource{tickets: map[uint64][]model.Ticket{
			1: sold(1, [2]int{3, 5}),
		}}
		eng := NewEngine(src, grid)
		rows, err := eng.FreeRows(context.Background(), 1)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		want := []int{1, 2, 3, 4, 5, 6, 7}
		if !reflect.DeepEqual(rows, want) {
			t.Fatalf("expected row 3 to stay available, got %v", rows)
		}
	})

	t.Run("fully sold row omitted", func(t *testing.T) {
		seats := make([][2]int, 0, 10)
		for cell := 1; cell <= 10; cell++ {
			seats = append(seats, [2]int{2, cell})
		}
		src := &fakeTicketSource{tickets: map[uint64][]model.Ticket{1: sold(1, seats...)}}
		eng := NewEngine(src, grid)
		rows, err := eng.FreeRows(context.Background(), 1)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		want := []int{1, 3, 4, 5, 6, 7}
		if !reflect.DeepEqual(rows, want) {
			t.Fatalf("expected row 2 to be omitted, got %v", rows)
		}
	})

	t.Run("source error propagates", func(t *testing.T) {
		boom := errors.New("db down")
		eng := NewEngine(&fakeTicketSource{err: boom}, grid)
		if _, err := eng.FreeRows(context.Background(), 1); !errors.Is(err, boom) {
			t.Fatalf("expected source error, got %v", err)
		}
	})
}

func TestEngine_FreeCells(t *testing.T) {
	t.Parallel()

	grid := config.Grid{Rows: 7, Cells: 10}

	t.Run("all free in untouched row", func(t *testing.T) {
		eng := NewEngine(&fakeTicketSource{}, grid)
		cells, err := eng.FreeCells(context.Background(), 1, 1)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		want := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
		if !reflect.DeepEqual(cells, want) {
			t.Fatalf("expected %v, got %v", want, cells)
		}
	})

	t.Run("sold cell removed by exact match", func(t *testing.T) {
		src := &fakeTicketSource{tickets: map[uint64][]model.Ticket{
			1: sold(1, [2]int{3, 5}),
		}}
		eng := NewEngine(src, grid)
		cells, err := eng.FreeCells(context.Background(), 1, 3)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		want := []int{1, 2, 3, 4, 6, 7, 8, 9, 10}
		if !reflect.DeepEqual(cells, want) {
			t.Fatalf("expected %v, got %v", want, cells)
		}
	})

	t.Run("other rows unaffected by a sale", func(t *testing.T) {
		src := &fakeTicketSource{tickets: map[uint64][]model.Ticket{
			1: sold(1, [2]int{3, 5}),
		}}
		eng := NewEngine(src, grid)
		cells, err := eng.FreeCells(context.Background(), 1, 4)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(cells) != 10 {
			t.Fatalf("expected 10 free cells in row 4, got %d", len(cells))
		}
	})

	t.Run("row out of range yields empty result", func(t *testing.T) {
		eng := NewEngine(&fakeTicketSource{}, grid)
		for _, row := range []int{0, -1, 8, 100} {
			cells, err := eng.FreeCells(context.Background(), 1, row)
			if err != nil {
				t.Fatalf("row %d: expected no error, got %v", row, err)
			}
			if len(cells) != 0 {
				t.Fatalf("row %d: expected empty result, got %v", row, cells)
			}
		}
	})

	t.Run("repeated calls without writes are identical", func(t *testing.T) {
		src := &fakeTicketSource{tickets: map[uint64][]model.Ticket{
			1: sold(1, [2]int{1, 1}, [2]int{2, 2}, [2]int{7, 10}),
		}}
		eng := NewEngine(src, grid)
		first, err := eng.FreeCells(context.Background(), 1, 2)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		second, err := eng.FreeCells(context.Background(), 1, 2)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !reflect.DeepEqual(first, second) {
			t.Fatalf("expected identical results, got %v then %v", first, second)
		}
	})

	t.Run("ticket outside the grid is ignored", func(t *testing.T) {
		src := &fakeTicketSource{tickets: map[uint64][]model.Ticket{
			1: sold(1, [2]int{12, 40}),
		}}
		eng := NewEngine(src, grid)
		rows, err := eng.FreeRows(context.Background(), 1)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(rows) != 7 {
			t.Fatalf("expected all 7 rows free, got %v", rows)
		}
	})
}
