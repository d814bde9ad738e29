package note

import (
	"context"
)

// Repository is the personal-note slice of the document store.
type Repository interface {
	// Create persists a new note and returns its assigned id. Ids are
	// opaque and never reused.
	Create(ctx context.Context, n *Note) (string, error)
	Get(ctx context.Context, id string) (*Note, error)
	// UpdateContent replaces ciphertext and key as one unit. Only the
	// owner's own note matches; anything else is ErrNotFound.
	UpdateContent(ctx context.Context, id, ownerID, ciphertext, key string) error
	// Delete is idempotent: deleting an absent id is not an error.
	// Unscoped; reserved for the sweeper, which acts across owners.
	Delete(ctx context.Context, id string) error
	// DeleteByOwner is the owner-scoped variant used for explicit removals.
	// Idempotent like Delete; a foreign or absent id is a silent no-op.
	DeleteByOwner(ctx context.Context, id, ownerID string) error
	// ListByOwner returns the owner's notes in arrival order.
	ListByOwner(ctx context.Context, ownerID string) ([]Note, error)
	// ListWithTTL returns every note that carries a TTL, across owners.
	// Input for the background reaper.
	ListWithTTL(ctx context.Context) ([]Note, error)
	// WatchByOwner delivers snapshots of the owner's notes whenever the
	// collection changes, and at least once per second while watched.
	// The channel closes when ctx is done.
	WatchByOwner(ctx context.Context, ownerID string) (<-chan []Note, error)
}
