package ports

import (
	"context"

	"github.com/mintaka-labs/pennywise/pkg/domain"
)

// ContextStore defines the interface for persisting durable contexts.
// This keeps a user's conversational state across turns and restarts.
type ContextStore interface {
	// Save persists the context for a given user ID.
	Save(ctx context.Context, userID string, convo *domain.Context) error

	// Load retrieves the context for a given user ID.
	// Returns domain.ErrContextNotFound if the user has no context.
	Load(ctx context.Context, userID string) (*domain.Context, error)

	// Delete removes the context for a given user ID.
	Delete(ctx context.Context, userID string) error

	// List returns the user IDs with a stored context.
	List(ctx context.Context) ([]string, error)
}
