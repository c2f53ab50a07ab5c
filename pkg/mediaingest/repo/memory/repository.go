package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tendant/simple-ingest/pkg/mediaingest"
)

// Repository implements mediaingest.Repository plus the owner-entity
// repositories using in-memory storage. Intended for tests and the dev server.
type Repository struct {
	mu           sync.RWMutex
	assets       map[uuid.UUID]*mediaingest.MediaAsset
	assetsByPath map[string]uuid.UUID
	ledger       map[string]time.Time
	users        map[uuid.UUID]*mediaingest.User
	headlines    map[uuid.UUID]*mediaingest.Headline
}

// New creates a new in-memory repository
func New() *Repository {
	return &Repository{
		assets:       make(map[uuid.UUID]*mediaingest.MediaAsset),
		assetsByPath: make(map[string]uuid.UUID),
		ledger:       make(map[string]time.Time),
		users:        make(map[uuid.UUID]*mediaingest.User),
		headlines:    make(map[uuid.UUID]*mediaingest.Headline),
	}
}

// Asset operations

func (r *Repository) CreateAsset(ctx context.Context, asset *mediaingest.MediaAsset) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.assetsByPath[asset.StoragePath]; exists {
		return mediaingest.ErrDuplicatePath
	}

	// Store a copy to avoid external modifications
	assetCopy := *asset
	r.assets[asset.ID] = &assetCopy
	r.assetsByPath[asset.StoragePath] = asset.ID

	return nil
}

func (r *Repository) GetAsset(ctx context.Context, id uuid.UUID) (*mediaingest.MediaAsset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	asset, exists := r.assets[id]
	if !exists {
		return nil, mediaingest.ErrAssetNotFound
	}
	assetCopy := *asset
	return &assetCopy, nil
}

func (r *Repository) GetAssetByStoragePath(ctx context.Context, path string) (*mediaingest.MediaAsset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, exists := r.assetsByPath[path]
	if !exists {
		return nil, mediaingest.ErrAssetNotFound
	}
	assetCopy := *r.assets[id]
	return &assetCopy, nil
}

func (r *Repository) UpdateAsset(ctx context.Context, asset *mediaingest.MediaAsset) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, exists := r.assets[asset.ID]
	if !exists {
		return mediaingest.ErrAssetNotFound
	}
	if current.StoragePath != asset.StoragePath {
		delete(r.assetsByPath, current.StoragePath)
		r.assetsByPath[asset.StoragePath] = asset.ID
	}

	assetCopy := *asset
	r.assets[asset.ID] = &assetCopy

	return nil
}

func (r *Repository) DeleteAsset(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	asset, exists := r.assets[id]
	if !exists {
		return mediaingest.ErrAssetNotFound
	}
	delete(r.assetsByPath, asset.StoragePath)
	delete(r.assets, id)

	return nil
}

// Idempotency ledger operations

func (r *Repository) MarkProcessed(ctx context.Context, key string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.ledger[key]; exists {
		return false, nil
	}
	r.ledger[key] = time.Now().UTC()
	return true, nil
}

func (r *Repository) ReleaseProcessed(ctx context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.ledger, key)
	return nil
}

func (r *Repository) HasProcessed(ctx context.Context, key string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.ledger[key]
	return exists, nil
}

// User operations

func (r *Repository) PutUser(ctx context.Context, user *mediaingest.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	userCopy := *user
	r.users[user.ID] = &userCopy
	return nil
}

func (r *Repository) GetUser(ctx context.Context, id uuid.UUID) (*mediaingest.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, exists := r.users[id]
	if !exists {
		return nil, mediaingest.ErrOwnerNotFound
	}
	userCopy := *user
	return &userCopy, nil
}

func (r *Repository) GetUserByMediaAssetID(ctx context.Context, assetID uuid.UUID) (*mediaingest.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if user.MediaAssetID != nil && *user.MediaAssetID == assetID {
			userCopy := *user
			return &userCopy, nil
		}
	}
	return nil, mediaingest.ErrOwnerNotFound
}

func (r *Repository) UpdateUser(ctx context.Context, user *mediaingest.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.users[user.ID]; !exists {
		return mediaingest.ErrOwnerNotFound
	}
	userCopy := *user
	userCopy.UpdatedAt = time.Now().UTC()
	r.users[user.ID] = &userCopy
	return nil
}

// Headline operations

func (r *Repository) PutHeadline(ctx context.Context, headline *mediaingest.Headline) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	headlineCopy := *headline
	r.headlines[headline.ID] = &headlineCopy
	return nil
}

func (r *Repository) GetHeadline(ctx context.Context, id uuid.UUID) (*mediaingest.Headline, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	headline, exists := r.headlines[id]
	if !exists {
		return nil, mediaingest.ErrOwnerNotFound
	}
	headlineCopy := *headline
	return &headlineCopy, nil
}

func (r *Repository) GetHeadlineByMediaAssetID(ctx context.Context, assetID uuid.UUID) (*mediaingest.Headline, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, headline := range r.headlines {
		if headline.MediaAssetID != nil && *headline.MediaAssetID == assetID {
			headlineCopy := *headline
			return &headlineCopy, nil
		}
	}
	return nil, mediaingest.ErrOwnerNotFound
}

func (r *Repository) UpdateHeadline(ctx context.Context, headline *mediaingest.Headline) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.headlines[headline.ID]; !exists {
		return mediaingest.ErrOwnerNotFound
	}
	headlineCopy := *headline
	headlineCopy.UpdatedAt = time.Now().UTC()
	r.headlines[headline.ID] = &headlineCopy
	return nil
}
