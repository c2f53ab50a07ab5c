package mediaingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// service implements the Service interface
type service struct {
	repo    Repository
	urls    URLStrategy
	links   map[AssetPurpose]OwnerLink
	cleanup CleanupQueue
	logger  *slog.Logger
}

// Option represents a functional option for configuring the service
type Option func(*service)

// WithRepository sets the asset and ledger repository for the service
func WithRepository(repo Repository) Option {
	return func(s *service) {
		s.repo = repo
	}
}

// WithURLStrategy sets the public URL strategy for the service
func WithURLStrategy(urls URLStrategy) Option {
	return func(s *service) {
		s.urls = urls
	}
}

// WithOwnerLink registers the owner-linkage strategy for an asset purpose
func WithOwnerLink(purpose AssetPurpose, link OwnerLink) Option {
	return func(s *service) {
		if s.links == nil {
			s.links = make(map[AssetPurpose]OwnerLink)
		}
		s.links[purpose] = link
	}
}

// WithCleanupQueue sets the detached disposal queue for superseded assets
func WithCleanupQueue(queue CleanupQueue) Option {
	return func(s *service) {
		s.cleanup = queue
	}
}

// WithLogger sets the logger for the service
func WithLogger(logger *slog.Logger) Option {
	return func(s *service) {
		s.logger = logger
	}
}

// New creates a new service instance with the given options
func New(options ...Option) (Service, error) {
	s := &service{
		links: make(map[AssetPurpose]OwnerLink),
	}

	for _, option := range options {
		option(s)
	}

	if s.repo == nil {
		return nil, fmt.Errorf("repository is required")
	}
	if s.urls == nil {
		return nil, fmt.Errorf("url strategy is required")
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}

	return s, nil
}

// Asset operations

func (s *service) CreateAsset(ctx context.Context, req CreateAssetRequest) (*MediaAsset, error) {
	if req.Purpose == "" {
		return nil, fmt.Errorf("asset purpose is required")
	}

	now := time.Now().UTC()
	asset := &MediaAsset{
		ID:          uuid.New(),
		UserID:      req.UserID,
		Purpose:     req.Purpose,
		Status:      AssetStatusPendingUpload,
		ContentType: req.ContentType,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	asset.StoragePath = ObjectPath(req.UserID, asset.ID, req.FileName)

	if err := s.repo.CreateAsset(ctx, asset); err != nil {
		return nil, &AssetError{AssetID: asset.ID, Op: "create", Err: err}
	}

	return asset, nil
}

func (s *service) GetAsset(ctx context.Context, id uuid.UUID) (*MediaAsset, error) {
	return s.repo.GetAsset(ctx, id)
}

// Event processing

func (s *service) ProcessEvent(ctx context.Context, scope string, event CanonicalEvent) (ProcessResult, error) {
	if event.Action == ActionIgnore {
		s.logger.Info("unsupported event acknowledged", "scope", scope, "event_id", event.RawEventID)
		return ResultIgnored, nil
	}

	key := IdempotencyKey(scope, event.RawEventID)
	fresh, err := s.repo.MarkProcessed(ctx, key)
	if err != nil {
		return "", &PersistenceError{Op: "mark processed", Err: err}
	}
	if !fresh {
		s.logger.Info("duplicate delivery skipped", "scope", scope, "event_id", event.RawEventID)
		return ResultDuplicate, nil
	}

	result, err := s.apply(ctx, event)
	if err != nil {
		// The mutation did not complete: release the ledger claim so the
		// provider's redelivery is not swallowed.
		if rerr := s.repo.ReleaseProcessed(ctx, key); rerr != nil {
			s.logger.Error("release idempotency claim", "key", key, "err", rerr)
		}
		return "", err
	}
	return result, nil
}

func (s *service) apply(ctx context.Context, event CanonicalEvent) (ProcessResult, error) {
	asset, err := s.repo.GetAssetByStoragePath(ctx, event.StoragePath)
	if err != nil {
		if errors.Is(err, ErrAssetNotFound) {
			// Untracked upload, or already reconciled by a prior delivery.
			s.logger.Info("no tracked asset for event", "path", event.StoragePath, "action", event.Action)
			return ResultIgnored, nil
		}
		return "", &PersistenceError{Op: "resolve asset", Err: err}
	}

	switch event.Action {
	case ActionFinalize:
		return s.finalize(ctx, asset)
	case ActionDelete:
		return s.remove(ctx, asset)
	}
	return ResultIgnored, nil
}

func (s *service) finalize(ctx context.Context, asset *MediaAsset) (ProcessResult, error) {
	if asset.Status == AssetStatusCompleted {
		s.logger.Info("finalize replay ignored", "asset_id", asset.ID.String())
		return ResultIgnored, nil
	}

	publicURL := s.urls.PublicURL(asset.StoragePath)
	asset.Status = AssetStatusCompleted
	asset.PublicURL = publicURL
	asset.UpdatedAt = time.Now().UTC()

	var previousURL string
	if link, ok := s.links[asset.Purpose]; ok {
		res, err := link.Finalize(ctx, asset, publicURL)
		switch {
		case errors.Is(err, ErrOwnerNotFound):
			s.logger.Warn("no owner awaiting asset", "asset_id", asset.ID.String(), "purpose", asset.Purpose)
		case err != nil:
			var perr *PersistenceError
			if errors.As(err, &perr) {
				return "", err
			}
			return "", &PersistenceError{Op: "link owner", Err: err}
		default:
			entityID := res.EntityID
			asset.AssociatedEntityID = &entityID
			asset.AssociatedEntityType = res.EntityType
			previousURL = res.PreviousURL
		}
	} else {
		s.logger.Warn("no owner link registered for purpose", "purpose", asset.Purpose)
	}

	if err := s.repo.UpdateAsset(ctx, asset); err != nil {
		return "", &PersistenceError{Op: "update asset", Err: err}
	}
	s.logger.Info("asset finalized", "asset_id", asset.ID.String(), "public_url", publicURL)

	if previousURL != "" && previousURL != publicURL && s.cleanup != nil {
		if err := s.cleanup.Enqueue(ctx, CleanupJob{PreviousURL: previousURL}); err != nil {
			// Secondary cleanup never fails the acknowledged event.
			s.logger.Error("enqueue cleanup", "url", previousURL, "err", err)
		}
	}

	return ResultApplied, nil
}

func (s *service) remove(ctx context.Context, asset *MediaAsset) (ProcessResult, error) {
	if link, ok := s.links[asset.Purpose]; ok {
		if err := link.Release(ctx, asset); err != nil {
			if errors.Is(err, ErrOwnerNotFound) {
				s.logger.Warn("owner missing during delete", "asset_id", asset.ID.String())
			} else {
				var perr *PersistenceError
				if errors.As(err, &perr) {
					return "", err
				}
				return "", &PersistenceError{Op: "release owner", Err: err}
			}
		}
	}

	if err := s.repo.DeleteAsset(ctx, asset.ID); err != nil {
		return "", &PersistenceError{Op: "delete asset", Err: err}
	}
	s.logger.Info("asset deleted", "asset_id", asset.ID.String(), "path", asset.StoragePath)

	return ResultApplied, nil
}
