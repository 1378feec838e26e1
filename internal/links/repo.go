package links

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the persistence operations for Link entities.
// Reads never return soft-deleted links.
type Repository interface {
	Create(ctx context.Context, link Link) (Link, error)
	FindByCode(ctx context.Context, code string) (Link, error)
	FindByID(ctx context.Context, id uuid.UUID) (Link, error)
	// FindAllByUser returns one page of the owner's links, newest first,
	// and the owner's total link count.
	FindAllByUser(ctx context.Context, ownerID uuid.UUID, p Pagination) ([]Link, int64, error)
	Update(ctx context.Context, id uuid.UUID, patch Patch) (Link, error)
	// ResolveAndTrack looks a link up by code and increments its access
	// count in the same statement.
	ResolveAndTrack(ctx context.Context, code string) (Link, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
}
