package repository

import (
	"errors"
	"testing"
)

func TestIsDuplicateKey(t *testing.T) {
	t.Parallel()

	t.Run("matches mysql duplicate entry", func(t *testing.T) {
		err := errors.New("Error 1062 (23000): Duplicate entry '3-5' for key 'tickets.ux_show_seat'")
		if !isDuplicateKey(err) {
			t.Fatalf("expected duplicate key for %v", err)
		}
	})

	t.Run("ignores other errors", func(t *testing.T) {
		for _, err := range []error{nil, errors.New("Error 1452 (23000): foreign key constraint fails")} {
			if isDuplicateKey(err) {
				t.Fatalf("unexpected duplicate key for %v", err)
			}
		}
	})
}
