package content

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the content store contract. One document per artist.
type Repository interface {
	// GetByArtist returns the artist's document or (nil, nil) when none
	// exists yet.
	GetByArtist(ctx context.Context, artistID uuid.UUID) (*ContentState, error)

	// Create inserts a fresh document. The stored version starts at the
	// document's Version field (1 for new documents).
	Create(ctx context.Context, state *ContentState) (*ContentState, error)

	// UpdateWithVersion writes every mutable field of state and bumps the
	// stored version to expectedVersion+1, but only when the stored version
	// still equals expectedVersion. A lost race yields a version-conflict
	// error carrying the current stored version; a published-URL uniqueness
	// violation yields a slug-taken error. Either way nothing is written.
	UpdateWithVersion(ctx context.Context, state *ContentState, expectedVersion int64) (*ContentState, error)

	// ResetVersion rewrites the document with its version forced back to 1.
	// Only the explicit start-over flow may use it.
	ResetVersion(ctx context.Context, state *ContentState) (*ContentState, error)
}
