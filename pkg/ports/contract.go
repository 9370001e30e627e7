package ports

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mintaka-labs/pennywise/pkg/domain"
)

// RunContextStoreContract verifies that a store complies with the
// ContextStore semantics. Adapter test suites call it against their
// own backends.
func RunContextStoreContract(t *testing.T, store ContextStore) {
	t.Helper()

	ctx := context.Background()
	userID := "user-contract"

	t.Run("Load_NotFound", func(t *testing.T) {
		_, err := store.Load(ctx, "nobody")
		if !errors.Is(err, domain.ErrContextNotFound) {
			t.Fatalf("expected ErrContextNotFound, got %v", err)
		}
	})

	t.Run("Save_And_Load", func(t *testing.T) {
		convo := domain.NewContext("Ada")
		convo.State = "main"
		convo.MessageCounter = 3
		convo.LastMessageOn = time.Date(2026, 8, 10, 9, 30, 0, 0, time.UTC)
		item := "groceries"
		convo.CurrentExpenseItem = &item

		if err := store.Save(ctx, userID, convo); err != nil {
			t.Fatalf("save failed: %v", err)
		}

		loaded, err := store.Load(ctx, userID)
		if err != nil {
			t.Fatalf("load failed: %v", err)
		}
		if loaded.State != "main" || loaded.UserName != "Ada" || loaded.MessageCounter != 3 {
			t.Errorf("loaded context mismatch: %+v", loaded)
		}
		if loaded.CurrentExpenseItem == nil || *loaded.CurrentExpenseItem != "groceries" {
			t.Errorf("expense slot not round-tripped: %+v", loaded.CurrentExpenseItem)
		}
		if loaded.Budget != domain.DefaultBudget {
			t.Errorf("budget mismatch: %v", loaded.Budget)
		}

		// Mutating the loaded copy must not leak back into the store.
		loaded.MessageCounter = 99
		again, err := store.Load(ctx, userID)
		if err != nil {
			t.Fatalf("reload failed: %v", err)
		}
		if again.MessageCounter != 3 {
			t.Errorf("store leaked caller mutation: counter = %d", again.MessageCounter)
		}
	})

	t.Run("List", func(t *testing.T) {
		ids, err := store.List(ctx)
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		found := false
		for _, id := range ids {
			if id == userID {
				found = true
			}
		}
		if !found {
			t.Errorf("expected %q in list, got %v", userID, ids)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		if err := store.Delete(ctx, userID); err != nil {
			t.Fatalf("delete failed: %v", err)
		}
		_, err := store.Load(ctx, userID)
		if !errors.Is(err, domain.ErrContextNotFound) {
			t.Fatalf("expected ErrContextNotFound after delete, got %v", err)
		}

		// Deleting an absent context is not an error.
		if err := store.Delete(ctx, userID); err != nil {
			t.Errorf("second delete failed: %v", err)
		}
	})
}
