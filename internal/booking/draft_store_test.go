package booking

import (
	"context"
	"testing"

	"github.com/iliyamo/cinema-ticket-booking/internal/model"
)

func TestMemoryDraftStore(t *testing.T) {
	t.Parallel()
	store := NewMemoryDraftStore()
	ctx := context.Background()

	t.Run("missing draft is absent, not an error", func(t *testing.T) {
		_, ok, err := store.Get(ctx, "nope")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if ok {
			t.Fatalf("expected draft to be absent")
		}
	})

	t.Run("put then get round-trips", func(t *testing.T) {
		want := model.BookingDraft{ShowID: 1, PosRow: 3, Cell: 5}
		if err := store.Put(ctx, "s1", want); err != nil {
			t.Fatalf("Put: %v", err)
		}
		got, ok, err := store.Get(ctx, "s1")
		if err != nil || !ok {
			t.Fatalf("Get: ok=%v err=%v", ok, err)
		}
		if got != want {
			t.Fatalf("expected %+v, got %+v", want, got)
		}
	})

	t.Run("put overwrites", func(t *testing.T) {
		if err := store.Put(ctx, "s1", model.BookingDraft{ShowID: 2}); err != nil {
			t.Fatalf("Put: %v", err)
		}
		got, _, _ := store.Get(ctx, "s1")
		if got.ShowID != 2 || got.HasRow() {
			t.Fatalf("expected overwritten draft, got %+v", got)
		}
	})

	t.Run("delete removes, repeated delete is a no-op", func(t *testing.T) {
		if err := store.Delete(ctx, "s1"); err != nil {
			t.Fatalf("Delete: %v", err)
		}
		if _, ok, _ := store.Get(ctx, "s1"); ok {
			t.Fatalf("expected draft deleted")
		}
		if err := store.Delete(ctx, "s1"); err != nil {
			t.Fatalf("second Delete: %v", err)
		}
	})
}
