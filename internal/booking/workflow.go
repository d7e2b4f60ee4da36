package booking

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/cinema-ticket-booking/internal/availability"
	"github.com/iliyamo/cinema-ticket-booking/internal/model"
	"github.com/iliyamo/cinema-ticket-booking/internal/queue"
	"github.com/iliyamo/cinema-ticket-booking/internal/repository"
)

// ErrNoSelection is returned when a step is attempted without the
// preceding one: row before show, cell before row, confirm before a
// complete selection.  The flow never skips states.
var ErrNoSelection = errors.New("no selection in progress")

// ErrSeatUnavailable is returned by Confirm when the chosen seat was
// sold between selection and commit.  The draft is reset to the
// seat-selection step so the caller can pick again.
var ErrSeatUnavailable = errors.New("seat unavailable")

// ShowSource resolves shows for the workflow.  *repository.ShowRepo
// satisfies it.
type ShowSource interface {
	GetByID(ctx context.Context, id uint64) (*model.Show, error)
}

// TicketStore commits tickets.  *repository.TicketRepo satisfies it;
// Create must return repository.ErrSeatTaken on a seat collision.
type TicketStore interface {
	Create(ctx context.Context, t *model.Ticket) error
}

// Publisher emits the purchase event after a successful commit.  A nil
// publisher disables events entirely.
type Publisher interface {
	PublishTicketPurchased(ctx context.Context, ev queue.TicketPurchasedEvent) error
}

// Workflow drives a caller's booking from show selection to purchase.
// Intermediate steps trust the free lists the caller was shown and do
// not re-validate them; the unique key behind TicketStore.Create is the
// authoritative check at commit time.
type Workflow struct {
	shows   ShowSource
	tickets TicketStore
	engine  *availability.Engine
	drafts  DraftStore
	pub     Publisher
}

// NewWorkflow wires the workflow.  All dependencies except pub must be
// non-nil.
func NewWorkflow(shows ShowSource, tickets TicketStore, engine *availability.Engine, drafts DraftStore, pub Publisher) *Workflow {
	if shows == nil || tickets == nil || engine == nil || drafts == nil {
		panic("nil dependency passed to NewWorkflow")
	}
	return &Workflow{shows: shows, tickets: tickets, engine: engine, drafts: drafts, pub: pub}
}

// ShowSelection is the result of SelectShow: the resolved show, the rows
// that still have free seats and the session the draft is stored under.
type ShowSelection struct {
	SessionID string
	Show      *model.Show
	FreeRows  []int
}

// SelectShow starts (or restarts) a booking.  It resolves the show,
// computes the rows with free seats and stores a fresh draft.  When
// sessionID is empty a new one is minted; selecting a show again under
// an existing session discards any previous partial selection.
func (w *Workflow) SelectShow(ctx context.Context, sessionID string, showID uint64) (*ShowSelection, error) {
	show, err := w.shows.GetByID(ctx, showID)
	if err != nil {
		return nil, err
	}
	rows, err := w.engine.FreeRows(ctx, showID)
	if err != nil {
		return nil, err
	}
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	if err := w.drafts.Put(ctx, sessionID, model.BookingDraft{ShowID: showID}); err != nil {
		return nil, err
	}
	return &ShowSelection{SessionID: sessionID, Show: show, FreeRows: rows}, nil
}

// SelectRow records the chosen row on the draft and returns the free
// cells of that row.  A session without a selected show yields
// ErrNoSelection.
func (w *Workflow) SelectRow(ctx context.Context, sessionID string, row int) ([]int, error) {
	draft, ok, err := w.drafts.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNoSelection
	}
	cells, err := w.engine.FreeCells(ctx, draft.ShowID, row)
	if err != nil {
		return nil, err
	}
	draft.PosRow = row
	draft.Cell = 0
	if err := w.drafts.Put(ctx, sessionID, draft); err != nil {
		return nil, err
	}
	return cells, nil
}

// SelectCell records the chosen cell on the draft.  A session without a
// selected row yields ErrNoSelection.
func (w *Workflow) SelectCell(ctx context.Context, sessionID string, cell int) error {
	draft, ok, err := w.drafts.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	if !ok || !draft.HasRow() {
		return ErrNoSelection
	}
	draft.Cell = cell
	return w.drafts.Put(ctx, sessionID, draft)
}

// Confirm commits the selection as a ticket for the authenticated user.
// On success the draft is deleted, a purchase event is published (best
// effort) and the persisted ticket is returned.  When the seat was sold
// in the meantime the draft drops back to the seat-selection step and
// ErrSeatUnavailable is returned.
func (w *Workflow) Confirm(ctx context.Context, sessionID string, userID uint64) (*model.Ticket, error) {
	draft, ok, err := w.drafts.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !ok || !draft.HasRow() || !draft.HasCell() {
		return nil, ErrNoSelection
	}
	ticket := &model.Ticket{
		ShowID: draft.ShowID,
		PosRow: draft.PosRow,
		Cell:   draft.Cell,
		UserID: userID,
	}
	if err := w.tickets.Create(ctx, ticket); err != nil {
		if errors.Is(err, repository.ErrSeatTaken) {
			draft.PosRow = 0
			draft.Cell = 0
			if putErr := w.drafts.Put(ctx, sessionID, draft); putErr != nil {
				log.Printf("booking: reset draft after seat conflict failed: %v", putErr)
			}
			return nil, ErrSeatUnavailable
		}
		return nil, err
	}
	if err := w.drafts.Delete(ctx, sessionID); err != nil {
		log.Printf("booking: delete draft after purchase failed: %v", err)
	}
	w.publishPurchase(ctx, ticket)
	return ticket, nil
}

// Cancel aborts the booking and discards the draft.  Cancelling a
// session without a draft is a no-op.
func (w *Workflow) Cancel(ctx context.Context, sessionID string) error {
	return w.drafts.Delete(ctx, sessionID)
}

// publishPurchase emits the purchase event.  Publishing failures are
// logged and swallowed; the ticket is already sold and the caller must
// see success.
func (w *Workflow) publishPurchase(ctx context.Context, t *model.Ticket) {
	if w.pub == nil {
		return
	}
	showName := ""
	if show, err := w.shows.GetByID(ctx, t.ShowID); err == nil {
		showName = show.Name
	}
	ev := queue.TicketPurchasedEvent{
		TicketID:    t.ID,
		ShowID:      t.ShowID,
		ShowName:    showName,
		UserID:      t.UserID,
		PosRow:      t.PosRow,
		Cell:        t.Cell,
		PurchasedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if err := w.pub.PublishTicketPurchased(ctx, ev); err != nil {
		log.Printf("booking: publish ticket.purchased failed: %v", err)
	}
}
