package booking

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"

	"github.com/iliyamo/cinema-ticket-booking/internal/availability"
	"github.com/iliyamo/cinema-ticket-booking/internal/config"
	"github.com/iliyamo/cinema-ticket-booking/internal/model"
	"github.com/iliyamo/cinema-ticket-booking/internal/queue"
	"github.com/iliyamo/cinema-ticket-booking/internal/repository"
)

// fakeShowSource resolves shows from a fixed map.
type fakeShowSource struct {
	shows map[uint64]*model.Show
}

func (f *fakeShowSource) GetByID(_ context.Context, id uint64) (*model.Show, error) {
	if s, ok := f.shows[id]; ok {
		return s, nil
	}
	return nil, repository.ErrShowNotFound
}

// fakeTicketStore emulates the tickets table including its unique key
// over (show_id, pos_row, cell).  It doubles as the availability
// engine's ticket source.
type fakeTicketStore struct {
	mu      sync.Mutex
	nextID  uint64
	tickets []model.Ticket
}

func (f *fakeTicketStore) Create(_ context.Context, t *model.Ticket) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.tickets {
		if existing.ShowID == t.ShowID && existing.PosRow == t.PosRow && existing.Cell == t.Cell {
			return repository.ErrSeatTaken
		}
	}
	f.nextID++
	t.ID = f.nextID
	f.tickets = append(f.tickets, *t)
	return nil
}

func (f *fakeTicketStore) ListByShow(_ context.Context, showID uint64) ([]model.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.Ticket, 0)
	for _, t := range f.tickets {
		if t.ShowID == showID {
			out = append(out, t)
		}
	}
	return out, nil
}

// fakePublisher records published events.
type fakePublisher struct {
	events []queue.TicketPurchasedEvent
	err    error
}

func (f *fakePublisher) PublishTicketPurchased(_ context.Context, ev queue.TicketPurchasedEvent) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, ev)
	return nil
}

func newTestWorkflow(t *testing.T) (*Workflow, *fakeTicketStore, *fakePublisher) {
	t.Helper()
	shows := &fakeShowSource{shows: map[uint64]*model.Show{
		1: {ID: 1, Name: "Dune"},
		2: {ID: 2, Name: "Alien"},
	}}
	store := &fakeTicketStore{}
	engine := availability.NewEngine(store, config.Grid{Rows: 7, Cells: 10})
	pub := &fakePublisher{}
	return NewWorkflow(shows, store, engine, NewMemoryDraftStore(), pub), store, pub
}

func TestWorkflow_HappyPath(t *testing.T) {
	t.Parallel()
	w, store, pub := newTestWorkflow(t)
	ctx := context.Background()

	sel, err := w.SelectShow(ctx, "", 1)
	if err != nil {
		t.Fatalf("SelectShow: %v", err)
	}
	if sel.SessionID == "" {
		t.Fatalf("expected a minted session id")
	}
	if sel.Show.Name != "Dune" {
		t.Fatalf("expected show Dune, got %q", sel.Show.Name)
	}
	if want := []int{1, 2, 3, 4, 5, 6, 7}; !reflect.DeepEqual(sel.FreeRows, want) {
		t.Fatalf("expected free rows %v, got %v", want, sel.FreeRows)
	}

	cells, err := w.SelectRow(ctx, sel.SessionID, 3)
	if err != nil {
		t.Fatalf("SelectRow: %v", err)
	}
	if len(cells) != 10 {
		t.Fatalf("expected 10 free cells, got %v", cells)
	}

	if err := w.SelectCell(ctx, sel.SessionID, 5); err != nil {
		t.Fatalf("SelectCell: %v", err)
	}

	ticket, err := w.Confirm(ctx, sel.SessionID, 42)
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if ticket.ID == 0 || ticket.ShowID != 1 || ticket.PosRow != 3 || ticket.Cell != 5 || ticket.UserID != 42 {
		t.Fatalf("unexpected ticket %+v", ticket)
	}
	if len(store.tickets) != 1 {
		t.Fatalf("expected 1 persisted ticket, got %d", len(store.tickets))
	}
	if len(pub.events) != 1 {
		t.Fatalf("expected 1 published event, got %d", len(pub.events))
	}
	if ev := pub.events[0]; ev.TicketID != ticket.ID || ev.ShowName != "Dune" || ev.PosRow != 3 || ev.Cell != 5 {
		t.Fatalf("unexpected event %+v", ev)
	}

	// The draft is gone; another confirm cannot double-sell.
	if _, err := w.Confirm(ctx, sel.SessionID, 42); !errors.Is(err, ErrNoSelection) {
		t.Fatalf("expected ErrNoSelection after purchase, got %v", err)
	}
}

func TestWorkflow_StepOrderEnforced(t *testing.T) {
	t.Parallel()
	w, _, _ := newTestWorkflow(t)
	ctx := context.Background()

	if _, err := w.SelectRow(ctx, "unknown", 1); !errors.Is(err, ErrNoSelection) {
		t.Fatalf("expected ErrNoSelection for row without show, got %v", err)
	}
	if err := w.SelectCell(ctx, "unknown", 1); !errors.Is(err, ErrNoSelection) {
		t.Fatalf("expected ErrNoSelection for cell without show, got %v", err)
	}

	sel, err := w.SelectShow(ctx, "", 1)
	if err != nil {
		t.Fatalf("SelectShow: %v", err)
	}
	// Cell before row is rejected even with a show selected.
	if err := w.SelectCell(ctx, sel.SessionID, 1); !errors.Is(err, ErrNoSelection) {
		t.Fatalf("expected ErrNoSelection for cell before row, got %v", err)
	}
	// Confirm before the selection is complete is rejected.
	if _, err := w.Confirm(ctx, sel.SessionID, 1); !errors.Is(err, ErrNoSelection) {
		t.Fatalf("expected ErrNoSelection for early confirm, got %v", err)
	}
}

func TestWorkflow_UnknownShow(t *testing.T) {
	t.Parallel()
	w, _, _ := newTestWorkflow(t)
	if _, err := w.SelectShow(context.Background(), "", 99); !errors.Is(err, repository.ErrShowNotFound) {
		t.Fatalf("expected ErrShowNotFound, got %v", err)
	}
}

func TestWorkflow_SeatConflict(t *testing.T) {
	t.Parallel()
	w, store, _ := newTestWorkflow(t)
	ctx := context.Background()

	// Two callers want (show 1, row 3, cell 5); the first to confirm wins.
	runToCell := func() string {
		sel, err := w.SelectShow(ctx, "", 1)
		if err != nil {
			t.Fatalf("SelectShow: %v", err)
		}
		if _, err := w.SelectRow(ctx, sel.SessionID, 3); err != nil {
			t.Fatalf("SelectRow: %v", err)
		}
		if err := w.SelectCell(ctx, sel.SessionID, 5); err != nil {
			t.Fatalf("SelectCell: %v", err)
		}
		return sel.SessionID
	}
	first := runToCell()
	second := runToCell()

	if _, err := w.Confirm(ctx, first, 1); err != nil {
		t.Fatalf("first confirm: %v", err)
	}
	if _, err := w.Confirm(ctx, second, 2); !errors.Is(err, ErrSeatUnavailable) {
		t.Fatalf("expected ErrSeatUnavailable, got %v", err)
	}
	if len(store.tickets) != 1 {
		t.Fatalf("expected exactly one ticket, got %d", len(store.tickets))
	}

	// The loser dropped back to seat selection: the show is still chosen,
	// row and cell are not.
	if err := w.SelectCell(ctx, second, 6); !errors.Is(err, ErrNoSelection) {
		t.Fatalf("expected cell selection to require a row again, got %v", err)
	}
	cells, err := w.SelectRow(ctx, second, 3)
	if err != nil {
		t.Fatalf("re-select row: %v", err)
	}
	if want := []int{1, 2, 3, 4, 6, 7, 8, 9, 10}; !reflect.DeepEqual(cells, want) {
		t.Fatalf("expected sold cell excluded, got %v", cells)
	}
	if err := w.SelectCell(ctx, second, 6); err != nil {
		t.Fatalf("re-select cell: %v", err)
	}
	if _, err := w.Confirm(ctx, second, 2); err != nil {
		t.Fatalf("retry confirm: %v", err)
	}
	if len(store.tickets) != 2 {
		t.Fatalf("expected two tickets after retry, got %d", len(store.tickets))
	}
}

func TestWorkflow_Cancel(t *testing.T) {
	t.Parallel()
	w, store, _ := newTestWorkflow(t)
	ctx := context.Background()

	sel, err := w.SelectShow(ctx, "", 1)
	if err != nil {
		t.Fatalf("SelectShow: %v", err)
	}
	if _, err := w.SelectRow(ctx, sel.SessionID, 2); err != nil {
		t.Fatalf("SelectRow: %v", err)
	}
	if err := w.Cancel(ctx, sel.SessionID); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if _, err := w.SelectRow(ctx, sel.SessionID, 2); !errors.Is(err, ErrNoSelection) {
		t.Fatalf("expected draft discarded, got %v", err)
	}
	if len(store.tickets) != 0 {
		t.Fatalf("cancel must not persist tickets, got %d", len(store.tickets))
	}
	// Cancelling again is a no-op.
	if err := w.Cancel(ctx, sel.SessionID); err != nil {
		t.Fatalf("second Cancel: %v", err)
	}
}

func TestWorkflow_ReselectShowResetsDraft(t *testing.T) {
	t.Parallel()
	w, _, _ := newTestWorkflow(t)
	ctx := context.Background()

	sel, err := w.SelectShow(ctx, "", 1)
	if err != nil {
		t.Fatalf("SelectShow: %v", err)
	}
	if _, err := w.SelectRow(ctx, sel.SessionID, 4); err != nil {
		t.Fatalf("SelectRow: %v", err)
	}
	if err := w.SelectCell(ctx, sel.SessionID, 4); err != nil {
		t.Fatalf("SelectCell: %v", err)
	}

	// Switching to another show under the same session starts over.
	again, err := w.SelectShow(ctx, sel.SessionID, 2)
	if err != nil {
		t.Fatalf("second SelectShow: %v", err)
	}
	if again.SessionID != sel.SessionID {
		t.Fatalf("expected the session to be reused, got %q", again.SessionID)
	}
	if _, err := w.Confirm(ctx, sel.SessionID, 1); !errors.Is(err, ErrNoSelection) {
		t.Fatalf("expected stale selection discarded, got %v", err)
	}
}

func TestWorkflow_PublishFailureDoesNotFailPurchase(t *testing.T) {
	t.Parallel()
	w, store, pub := newTestWorkflow(t)
	pub.err = errors.New("broker down")
	ctx := context.Background()

	sel, err := w.SelectShow(ctx, "", 1)
	if err != nil {
		t.Fatalf("SelectShow: %v", err)
	}
	if _, err := w.SelectRow(ctx, sel.SessionID, 1); err != nil {
		t.Fatalf("SelectRow: %v", err)
	}
	if err := w.SelectCell(ctx, sel.SessionID, 1); err != nil {
		t.Fatalf("SelectCell: %v", err)
	}
	if _, err := w.Confirm(ctx, sel.SessionID, 7); err != nil {
		t.Fatalf("Confirm must succeed despite publish failure, got %v", err)
	}
	if len(store.tickets) != 1 {
		t.Fatalf("expected the ticket persisted, got %d", len(store.tickets))
	}
}
