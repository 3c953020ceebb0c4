package ward

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	// Create persists a ward together with its beds.
	Create(ctx context.Context, w *Ward) error

	// CreateBatch inserts several wards in one transaction. Used by bulk
	// import: either every ward lands or none does.
	CreateBatch(ctx context.Context, wards []*Ward) error

	// GetByID retrieves a ward with its beds ordered by bed number.
	// Returns ErrWardNotFound if not found.
	GetByID(ctx context.Context, id uuid.UUID) (*Ward, error)

	// List returns all wards with their beds.
	List(ctx context.Context) ([]*Ward, error)

	// SetBedStatus updates the cached status of a single bed, matched by
	// exact stored number. Only that bed's row is touched, so concurrent
	// updates to sibling beds in the same ward are never clobbered.
	// Returns ErrBedNotFound when no such bed exists.
	SetBedStatus(ctx context.Context, wardID uuid.UUID, bedNumber string, status BedStatus) error

	// ReplaceBeds swaps a ward's entire bed list. Used only by the
	// legacy bed normalization pass, never by the admission workflow.
	ReplaceBeds(ctx context.Context, wardID uuid.UUID, beds []Bed) error
}
