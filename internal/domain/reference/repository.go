package reference

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	GetDoctor(ctx context.Context, id uuid.UUID) (*Doctor, error)
	GetVisit(ctx context.Context, id uuid.UUID) (*Visit, error)
	GetRoomCategory(ctx context.Context, id uuid.UUID) (*RoomCategory, error)

	// FindRoomCategoryByName matches a category by its name or, failing
	// that, its description. Bulk ward import rows name categories
	// loosely, so both fields are consulted.
	FindRoomCategoryByName(ctx context.Context, name string) (*RoomCategory, error)
}
