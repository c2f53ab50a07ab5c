package mediaingest

import (
	"context"

	"github.com/google/uuid"
)

// Service defines the main interface for the media ingestion library
type Service interface {
	// Asset operations
	CreateAsset(ctx context.Context, req CreateAssetRequest) (*MediaAsset, error)
	GetAsset(ctx context.Context, id uuid.UUID) (*MediaAsset, error)

	// ProcessEvent applies one canonical provider event: deduplicates it via
	// the idempotency ledger, runs the asset state machine and owner
	// reconciliation, and schedules orphan cleanup. The scope names the
	// originating provider and keeps ledger keys disjoint across providers.
	ProcessEvent(ctx context.Context, scope string, event CanonicalEvent) (ProcessResult, error)
}
