package memory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-ingest/pkg/mediaingest"
)

func TestAssetLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := New()

	asset := &mediaingest.MediaAsset{
		ID:          uuid.New(),
		UserID:      uuid.New(),
		Purpose:     mediaingest.PurposeUserProfilePhoto,
		Status:      mediaingest.AssetStatusPendingUpload,
		StoragePath: "uploads/u1/avatar.jpg",
	}
	require.NoError(t, repo.CreateAsset(ctx, asset))

	t.Run("duplicate path rejected", func(t *testing.T) {
		dup := &mediaingest.MediaAsset{ID: uuid.New(), StoragePath: asset.StoragePath}
		err := repo.CreateAsset(ctx, dup)
		assert.ErrorIs(t, err, mediaingest.ErrDuplicatePath)
	})

	t.Run("lookup by id and path", func(t *testing.T) {
		byID, err := repo.GetAsset(ctx, asset.ID)
		require.NoError(t, err)
		assert.Equal(t, asset.StoragePath, byID.StoragePath)

		byPath, err := repo.GetAssetByStoragePath(ctx, asset.StoragePath)
		require.NoError(t, err)
		assert.Equal(t, asset.ID, byPath.ID)
	})

	t.Run("returned asset is a copy", func(t *testing.T) {
		got, err := repo.GetAsset(ctx, asset.ID)
		require.NoError(t, err)
		got.Status = mediaingest.AssetStatusCompleted

		again, err := repo.GetAsset(ctx, asset.ID)
		require.NoError(t, err)
		assert.Equal(t, mediaingest.AssetStatusPendingUpload, again.Status)
	})

	t.Run("update reindexes path", func(t *testing.T) {
		moved, err := repo.GetAsset(ctx, asset.ID)
		require.NoError(t, err)
		moved.StoragePath = "uploads/u1/avatar-v2.jpg"
		require.NoError(t, repo.UpdateAsset(ctx, moved))

		_, err = repo.GetAssetByStoragePath(ctx, "uploads/u1/avatar.jpg")
		assert.ErrorIs(t, err, mediaingest.ErrAssetNotFound)

		byPath, err := repo.GetAssetByStoragePath(ctx, "uploads/u1/avatar-v2.jpg")
		require.NoError(t, err)
		assert.Equal(t, asset.ID, byPath.ID)
	})

	t.Run("delete clears both indexes", func(t *testing.T) {
		require.NoError(t, repo.DeleteAsset(ctx, asset.ID))

		_, err := repo.GetAsset(ctx, asset.ID)
		assert.ErrorIs(t, err, mediaingest.ErrAssetNotFound)
		_, err = repo.GetAssetByStoragePath(ctx, "uploads/u1/avatar-v2.jpg")
		assert.ErrorIs(t, err, mediaingest.ErrAssetNotFound)

		assert.ErrorIs(t, repo.DeleteAsset(ctx, asset.ID), mediaingest.ErrAssetNotFound)
	})
}

func TestIdempotencyLedger(t *testing.T) {
	ctx := context.Background()
	repo := New()

	key := mediaingest.IdempotencyKey("push", "msg-1")

	fresh, err := repo.MarkProcessed(ctx, key)
	require.NoError(t, err)
	assert.True(t, fresh)

	fresh, err = repo.MarkProcessed(ctx, key)
	require.NoError(t, err)
	assert.False(t, fresh)

	seen, err := repo.HasProcessed(ctx, key)
	require.NoError(t, err)
	assert.True(t, seen)

	require.NoError(t, repo.ReleaseProcessed(ctx, key))

	fresh, err = repo.MarkProcessed(ctx, key)
	require.NoError(t, err)
	assert.True(t, fresh)
}

func TestOwnerLookups(t *testing.T) {
	ctx := context.Background()
	repo := New()

	assetID := uuid.New()
	user := &mediaingest.User{ID: uuid.New(), MediaAssetID: &assetID}
	require.NoError(t, repo.PutUser(ctx, user))

	t.Run("user by media asset id", func(t *testing.T) {
		got, err := repo.GetUserByMediaAssetID(ctx, assetID)
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)

		_, err = repo.GetUserByMediaAssetID(ctx, uuid.New())
		assert.ErrorIs(t, err, mediaingest.ErrOwnerNotFound)
	})

	t.Run("update unknown user", func(t *testing.T) {
		err := repo.UpdateUser(ctx, &mediaingest.User{ID: uuid.New()})
		assert.ErrorIs(t, err, mediaingest.ErrOwnerNotFound)
	})

	headlineAssetID := uuid.New()
	headline := &mediaingest.Headline{ID: uuid.New(), MediaAssetID: &headlineAssetID}
	require.NoError(t, repo.PutHeadline(ctx, headline))

	t.Run("headline by media asset id", func(t *testing.T) {
		got, err := repo.GetHeadlineByMediaAssetID(ctx, headlineAssetID)
		require.NoError(t, err)
		assert.Equal(t, headline.ID, got.ID)

		_, err = repo.GetHeadlineByMediaAssetID(ctx, uuid.New())
		assert.ErrorIs(t, err, mediaingest.ErrOwnerNotFound)
	})
}
