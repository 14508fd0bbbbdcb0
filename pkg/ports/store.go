package ports

import (
	"context"

	"github.com/aretw0/wicker/pkg/domain"
)

// SessionStore persists sessions keyed by conversation ID. Implementations
// must support concurrent access across distinct conversation IDs; exclusive
// access per ID during a turn is the session manager's job, not the store's.
type SessionStore interface {
	// Save overwrites the prior snapshot for the session's conversation ID.
	Save(ctx context.Context, conversationID string, sess *domain.Session) error

	// Load retrieves a session. Returns domain.ErrSessionNotFound when the
	// conversation has no stored state.
	Load(ctx context.Context, conversationID string) (*domain.Session, error)

	// Delete removes the session. Deleting an absent session is not an error.
	Delete(ctx context.Context, conversationID string) error

	// List returns the conversation IDs with stored state.
	List(ctx context.Context) ([]string, error)
}
