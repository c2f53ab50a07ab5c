package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tendant/simple-ingest/pkg/mediaingest"
)

// DBTX is an interface that allows us to use either a database connection or a transaction
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Repository implements mediaingest.Repository plus the owner-entity
// repositories using PostgreSQL
type Repository struct {
	db DBTX
}

// New creates a new PostgreSQL repository
func New(db DBTX) *Repository {
	return &Repository{db: db}
}

// NewWithPool creates a new PostgreSQL repository with connection pool
func NewWithPool(pool *pgxpool.Pool) *Repository {
	return &Repository{db: pool}
}

// Error handling helper
func (r *Repository) handlePostgresError(operation string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return mediaingest.ErrDuplicatePath
		case "23502": // not_null_violation
			return fmt.Errorf("required field %s is missing", pgErr.ColumnName)
		case "42P01": // undefined_table
			return fmt.Errorf("table does not exist - database migration required")
		default:
			return fmt.Errorf("database error in %s: %s (code: %s)", operation, pgErr.Message, pgErr.Code)
		}
	}

	return fmt.Errorf("database error in %s: %w", operation, err)
}

// Asset operations

func (r *Repository) CreateAsset(ctx context.Context, asset *mediaingest.MediaAsset) error {
	query := `
		INSERT INTO media_asset (
			id, user_id, purpose, status, storage_path, content_type,
			public_url, associated_entity_id, associated_entity_type,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.db.Exec(ctx, query,
		asset.ID, asset.UserID, asset.Purpose, asset.Status, asset.StoragePath,
		asset.ContentType, asset.PublicURL, asset.AssociatedEntityID,
		asset.AssociatedEntityType, asset.CreatedAt, asset.UpdatedAt)

	if err != nil {
		return r.handlePostgresError("create asset", err)
	}

	return nil
}

const assetColumns = `
	id, user_id, purpose, status, storage_path, content_type,
	public_url, associated_entity_id, associated_entity_type,
	created_at, updated_at`

func (r *Repository) scanAsset(row pgx.Row) (*mediaingest.MediaAsset, error) {
	var asset mediaingest.MediaAsset
	err := row.Scan(
		&asset.ID, &asset.UserID, &asset.Purpose, &asset.Status,
		&asset.StoragePath, &asset.ContentType, &asset.PublicURL,
		&asset.AssociatedEntityID, &asset.AssociatedEntityType,
		&asset.CreatedAt, &asset.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, mediaingest.ErrAssetNotFound
		}
		return nil, err
	}
	return &asset, nil
}

func (r *Repository) GetAsset(ctx context.Context, id uuid.UUID) (*mediaingest.MediaAsset, error) {
	query := `SELECT ` + assetColumns + ` FROM media_asset WHERE id = $1`
	return r.scanAsset(r.db.QueryRow(ctx, query, id))
}

func (r *Repository) GetAssetByStoragePath(ctx context.Context, path string) (*mediaingest.MediaAsset, error) {
	query := `SELECT ` + assetColumns + ` FROM media_asset WHERE storage_path = $1`
	return r.scanAsset(r.db.QueryRow(ctx, query, path))
}

func (r *Repository) UpdateAsset(ctx context.Context, asset *mediaingest.MediaAsset) error {
	query := `
		UPDATE media_asset SET
			status = $2, storage_path = $3, content_type = $4, public_url = $5,
			associated_entity_id = $6, associated_entity_type = $7, updated_at = $8
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query,
		asset.ID, asset.Status, asset.StoragePath, asset.ContentType,
		asset.PublicURL, asset.AssociatedEntityID, asset.AssociatedEntityType,
		asset.UpdatedAt)

	if err != nil {
		return r.handlePostgresError("update asset", err)
	}
	if tag.RowsAffected() == 0 {
		return mediaingest.ErrAssetNotFound
	}

	return nil
}

func (r *Repository) DeleteAsset(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM media_asset WHERE id = $1`, id)
	if err != nil {
		return r.handlePostgresError("delete asset", err)
	}
	if tag.RowsAffected() == 0 {
		return mediaingest.ErrAssetNotFound
	}

	return nil
}

// Idempotency ledger operations.
//
// MarkProcessed relies on the primary key for atomicity: the insert either
// claims the key or affects zero rows. No read happens first, so concurrent
// duplicate deliveries race on the constraint, not on application state.

func (r *Repository) MarkProcessed(ctx context.Context, key string) (bool, error) {
	query := `
		INSERT INTO idempotency_record (id, created_at)
		VALUES ($1, now())
		ON CONFLICT (id) DO NOTHING`

	tag, err := r.db.Exec(ctx, query, key)
	if err != nil {
		return false, r.handlePostgresError("mark processed", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *Repository) ReleaseProcessed(ctx context.Context, key string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM idempotency_record WHERE id = $1`, key)
	if err != nil {
		return r.handlePostgresError("release processed", err)
	}
	return nil
}

func (r *Repository) HasProcessed(ctx context.Context, key string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM idempotency_record WHERE id = $1)`, key).Scan(&exists)
	if err != nil {
		return false, r.handlePostgresError("has processed", err)
	}
	return exists, nil
}

// User operations

func (r *Repository) scanUser(row pgx.Row) (*mediaingest.User, error) {
	var user mediaingest.User
	err := row.Scan(
		&user.ID, &user.Email, &user.DisplayName, &user.PhotoURL,
		&user.MediaAssetID, &user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, mediaingest.ErrOwnerNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *Repository) GetUser(ctx context.Context, id uuid.UUID) (*mediaingest.User, error) {
	query := `
		SELECT id, email, display_name, photo_url, media_asset_id, created_at, updated_at
		FROM app_user WHERE id = $1`
	return r.scanUser(r.db.QueryRow(ctx, query, id))
}

func (r *Repository) GetUserByMediaAssetID(ctx context.Context, assetID uuid.UUID) (*mediaingest.User, error) {
	query := `
		SELECT id, email, display_name, photo_url, media_asset_id, created_at, updated_at
		FROM app_user WHERE media_asset_id = $1`
	return r.scanUser(r.db.QueryRow(ctx, query, assetID))
}

func (r *Repository) UpdateUser(ctx context.Context, user *mediaingest.User) error {
	query := `
		UPDATE app_user SET
			email = $2, display_name = $3, photo_url = $4, media_asset_id = $5,
			updated_at = now()
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query,
		user.ID, user.Email, user.DisplayName, user.PhotoURL, user.MediaAssetID)

	if err != nil {
		return r.handlePostgresError("update user", err)
	}
	if tag.RowsAffected() == 0 {
		return mediaingest.ErrOwnerNotFound
	}

	return nil
}

// Headline operations

func (r *Repository) scanHeadline(row pgx.Row) (*mediaingest.Headline, error) {
	var headline mediaingest.Headline
	err := row.Scan(
		&headline.ID, &headline.AuthorID, &headline.Title, &headline.ImageURL,
		&headline.MediaAssetID, &headline.CreatedAt, &headline.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, mediaingest.ErrOwnerNotFound
		}
		return nil, err
	}
	return &headline, nil
}

func (r *Repository) GetHeadline(ctx context.Context, id uuid.UUID) (*mediaingest.Headline, error) {
	query := `
		SELECT id, author_id, title, image_url, media_asset_id, created_at, updated_at
		FROM headline WHERE id = $1`
	return r.scanHeadline(r.db.QueryRow(ctx, query, id))
}

func (r *Repository) GetHeadlineByMediaAssetID(ctx context.Context, assetID uuid.UUID) (*mediaingest.Headline, error) {
	query := `
		SELECT id, author_id, title, image_url, media_asset_id, created_at, updated_at
		FROM headline WHERE media_asset_id = $1`
	return r.scanHeadline(r.db.QueryRow(ctx, query, assetID))
}

func (r *Repository) UpdateHeadline(ctx context.Context, headline *mediaingest.Headline) error {
	query := `
		UPDATE headline SET
			title = $2, image_url = $3, media_asset_id = $4, updated_at = now()
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query,
		headline.ID, headline.Title, headline.ImageURL, headline.MediaAssetID)

	if err != nil {
		return r.handlePostgresError("update headline", err)
	}
	if tag.RowsAffected() == 0 {
		return mediaingest.ErrOwnerNotFound
	}

	return nil
}
