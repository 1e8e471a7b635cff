package content

import (
	"context"

	"github.com/google/uuid"
)

// ArtifactStore is the object-storage collaborator holding compiled site
// JSON. The key scheme is deterministic (sites/{artistID}/site.json).
type ArtifactStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

// Service is the content domain API consumed by the HTTP layer.
type Service interface {
	// GetOrCreate returns the artist's document, creating the default one
	// on first access.
	GetOrCreate(ctx context.Context, artistID uuid.UUID) (*ContentState, error)

	// ReplaceSurvey swaps the stored survey answers whole-object and bumps
	// the version.
	ReplaceSurvey(ctx context.Context, artistID uuid.UUID, survey map[string]any) (*ContentState, error)

	// Compile builds the compiled site, writes the artifact, and records
	// the artifact path on the document. The document is untouched when the
	// artifact write fails.
	Compile(ctx context.Context, artistID uuid.UUID) (*CompiledSite, *ContentState, error)

	// ApplyPatch validates and applies a batch of content updates
	// atomically under optimistic concurrency, optionally recompiling
	// synchronously. One version increment per accepted batch.
	ApplyPatch(ctx context.Context, artistID uuid.UUID, req *PatchRequest, compile bool) (*PatchResult, error)

	// Publish assigns a slug and flips the published flag. Re-publishing
	// the same slug for the same artist is a no-op; a slug held by another
	// artist is a conflict. Publishing never compiles.
	Publish(ctx context.Context, artistID uuid.UUID, customURL string) (*ContentState, error)

	// StartOver deletes the compiled artifact and clears the compile
	// bookkeeping; the document itself survives with version reset to 1.
	StartOver(ctx context.Context, artistID uuid.UUID) (*ContentState, error)

	// GetCompiled fetches the latest compiled artifact (cache first, then
	// object storage).
	GetCompiled(ctx context.Context, artistID uuid.UUID) (*CompiledSite, error)
}
