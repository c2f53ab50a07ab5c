package mediaingest

import (
	"time"

	"github.com/google/uuid"
)

// AssetStatus is the domain type for media asset lifecycle states.
type AssetStatus string

// Asset status constants (typed).
const (
	AssetStatusPendingUpload AssetStatus = "pending_upload"
	AssetStatusCompleted     AssetStatus = "completed"
)

// AssetPurpose classifies what an asset is used for. The purpose selects the
// owner-linkage strategy applied when the asset is finalized.
type AssetPurpose string

// Asset purpose constants (typed).
const (
	PurposeUserProfilePhoto AssetPurpose = "user_profile_photo"
	PurposeHeadlineImage    AssetPurpose = "headline_image"
)

// MediaAsset tracks one uploaded object from upload-URL issuance to
// finalization or deletion.
//
// PublicURL and AssociatedEntityID stay empty until Status is completed.
type MediaAsset struct {
	ID                   uuid.UUID    `json:"id"`
	UserID               uuid.UUID    `json:"user_id"`
	Purpose              AssetPurpose `json:"purpose"`
	Status               AssetStatus  `json:"status"`
	StoragePath          string       `json:"storage_path"`
	ContentType          string       `json:"content_type,omitempty"`
	PublicURL            string       `json:"public_url,omitempty"`
	AssociatedEntityID   *uuid.UUID   `json:"associated_entity_id,omitempty"`
	AssociatedEntityType string       `json:"associated_entity_type,omitempty"`
	CreatedAt            time.Time    `json:"created_at"`
	UpdatedAt            time.Time    `json:"updated_at"`
}

// IdempotencyRecord marks one processed provider event. Existence of a record
// means the event's side effects have been applied; rows are created once and
// never updated.
type IdempotencyRecord struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

// User is the owner entity for profile-photo assets. While MediaAssetID is
// non-nil the user is awaiting that asset's finalize event.
type User struct {
	ID           uuid.UUID  `json:"id"`
	Email        string     `json:"email,omitempty"`
	DisplayName  string     `json:"display_name,omitempty"`
	PhotoURL     string     `json:"photo_url,omitempty"`
	MediaAssetID *uuid.UUID `json:"media_asset_id,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Headline is the owner entity for article-image assets.
type Headline struct {
	ID           uuid.UUID  `json:"id"`
	AuthorID     uuid.UUID  `json:"author_id"`
	Title        string     `json:"title,omitempty"`
	ImageURL     string     `json:"image_url,omitempty"`
	MediaAssetID *uuid.UUID `json:"media_asset_id,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// EventAction is the canonical action derived from a provider event type.
type EventAction string

// Canonical actions. Provider event types outside the finalize/delete families
// normalize to ActionIgnore and are acknowledged without touching state.
const (
	ActionFinalize EventAction = "finalize"
	ActionDelete   EventAction = "delete"
	ActionIgnore   EventAction = "ignore"
)

// CanonicalEvent is the provider-independent form of one storage notification.
type CanonicalEvent struct {
	Action      EventAction
	StoragePath string
	RawEventID  string
}

// ProcessResult reports what a dispatch did, so adapters can pick the
// acknowledgement status expected by the provider.
type ProcessResult string

const (
	// ResultApplied means asset or owner state changed.
	ResultApplied ProcessResult = "applied"
	// ResultDuplicate means the ledger already held the event's key.
	ResultDuplicate ProcessResult = "duplicate"
	// ResultIgnored means no tracked state matched (untracked upload, replayed
	// finalize, unsupported action); acknowledged as success.
	ResultIgnored ProcessResult = "ignored"
)
