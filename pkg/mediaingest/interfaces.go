package mediaingest

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for asset and idempotency-ledger persistence
type Repository interface {
	// Asset operations
	CreateAsset(ctx context.Context, asset *MediaAsset) error
	GetAsset(ctx context.Context, id uuid.UUID) (*MediaAsset, error)
	GetAssetByStoragePath(ctx context.Context, path string) (*MediaAsset, error)
	UpdateAsset(ctx context.Context, asset *MediaAsset) error
	DeleteAsset(ctx context.Context, id uuid.UUID) error

	// Idempotency ledger operations. MarkProcessed atomically inserts the
	// derived key and reports whether this call created it: false means a
	// previous delivery already claimed the event. Uniqueness is decided by
	// the store, not by a prior read, so near-simultaneous duplicates cannot
	// both observe "unprocessed". ReleaseProcessed removes a claim after a
	// failed mutation so the provider's retry is not swallowed.
	MarkProcessed(ctx context.Context, key string) (bool, error)
	ReleaseProcessed(ctx context.Context, key string) error
	HasProcessed(ctx context.Context, key string) (bool, error)
}

// UserRepository defines the owner-entity interface for profile-photo linkage
type UserRepository interface {
	GetUser(ctx context.Context, id uuid.UUID) (*User, error)
	GetUserByMediaAssetID(ctx context.Context, assetID uuid.UUID) (*User, error)
	UpdateUser(ctx context.Context, user *User) error
}

// HeadlineRepository defines the owner-entity interface for article-image linkage
type HeadlineRepository interface {
	GetHeadline(ctx context.Context, id uuid.UUID) (*Headline, error)
	GetHeadlineByMediaAssetID(ctx context.Context, assetID uuid.UUID) (*Headline, error)
	UpdateHeadline(ctx context.Context, headline *Headline) error
}

// ObjectStore defines the interface for physical object disposal
type ObjectStore interface {
	// Delete removes the object stored under objectKey
	Delete(ctx context.Context, objectKey string) error
}

// URLStrategy maps storage paths to public URLs and back. Construction is
// deterministic; no storage call is involved.
type URLStrategy interface {
	// PublicURL returns the public URL serving the object at storagePath
	PublicURL(storagePath string) string

	// StoragePath recovers the storage path from a public URL this strategy
	// produced; ok is false for foreign URLs
	StoragePath(publicURL string) (path string, ok bool)
}

// LinkResult describes the owner entity touched by a finalize linkage.
type LinkResult struct {
	EntityID   uuid.UUID
	EntityType string

	// PreviousURL is the URL the owner displayed before relinking; non-empty
	// when a superseded asset needs cleanup.
	PreviousURL string
}

// OwnerLink reconciles the denormalized reference on the entity owning an
// asset. Owners are correlated by MediaAssetID, never by identifiers carried
// in the provider event.
type OwnerLink interface {
	// Finalize points the awaiting owner at publicURL, clears its
	// MediaAssetID and returns the owner's identity and previous URL.
	// Returns ErrOwnerNotFound when no entity is awaiting the asset.
	Finalize(ctx context.Context, asset *MediaAsset, publicURL string) (LinkResult, error)

	// Release clears the owner's URL field if it still equals the deleted
	// asset's PublicURL; a replaced URL is left untouched.
	Release(ctx context.Context, asset *MediaAsset) error
}

// CleanupJob identifies a superseded asset by the public URL the owner used
// to display it.
type CleanupJob struct {
	PreviousURL string
}

// CleanupQueue accepts detached disposal work. Implementations must not block
// the webhook acknowledgement on job completion.
type CleanupQueue interface {
	Enqueue(ctx context.Context, job CleanupJob) error
}
