package mediaingest

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Error types
var (
	// ErrAssetNotFound indicates a media asset was not found
	ErrAssetNotFound = errors.New("media asset not found")

	// ErrOwnerNotFound indicates no owner entity is awaiting the asset
	ErrOwnerNotFound = errors.New("owner entity not found")

	// ErrDuplicatePath indicates the storage path is already tracked by a live asset
	ErrDuplicatePath = errors.New("storage path already tracked")

	// ErrObjectNotFound indicates a storage object was not found
	ErrObjectNotFound = errors.New("storage object not found")

	// ErrMissingCredential indicates the request carried no bearer credential
	ErrMissingCredential = errors.New("missing bearer credential")

	// ErrInvalidCredential indicates the bearer credential failed verification
	ErrInvalidCredential = errors.New("invalid bearer credential")

	// ErrCleanerClosed indicates the cleanup worker is shut down
	ErrCleanerClosed = errors.New("cleanup worker closed")
)

// PersistenceError wraps a repository failure that must surface to the
// provider so the event is redelivered. The ledger is never marked processed
// when one of these occurs.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence operation %s failed: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// AssetError represents an error related to one media asset
type AssetError struct {
	AssetID uuid.UUID
	Op      string
	Err     error
}

func (e *AssetError) Error() string {
	return fmt.Sprintf("asset operation %s failed for asset %s: %v", e.Op, e.AssetID, e.Err)
}

func (e *AssetError) Unwrap() error {
	return e.Err
}

// StorageError represents an error related to physical object operations
type StorageError struct {
	Key string
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage operation %s failed for key %s: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
