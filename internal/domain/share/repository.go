package share

import (
	"context"
)

// Repository is the shared-note slice of the document store.
type Repository interface {
	// Create persists a new shared note and returns its assigned id.
	Create(ctx context.Context, n *SharedNote) (string, error)
	Get(ctx context.Context, id string) (*SharedNote, error)
	// MarkOpened flips opened from false to true as a single conditional
	// update. It reports whether this caller performed the flip; false with
	// a nil error means somebody else burned the note first.
	MarkOpened(ctx context.Context, id string) (bool, error)
	// Delete is idempotent: deleting an absent id is not an error.
	Delete(ctx context.Context, id string) error
	// ListOpened returns every note already burned by a read. Input for the
	// background reaper.
	ListOpened(ctx context.Context) ([]SharedNote, error)
}
