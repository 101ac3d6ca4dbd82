package items

import (
	"context"

	"github.com/google/uuid"

	"github.com/siamdocs/quarry/pkg/pagination"
)

// System defines the public contract for knowledge item operations.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Item], error)

	Find(ctx context.Context, id uuid.UUID) (*ItemDetail, error)
	Chunks(ctx context.Context, id uuid.UUID) ([]Chunk, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
