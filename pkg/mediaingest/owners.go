package mediaingest

import (
	"context"
)

// Owner entity type names stamped onto finalized assets.
const (
	EntityTypeUser     = "user"
	EntityTypeHeadline = "headline"
)

// UserPhotoLink links profile-photo assets to the awaiting user. The user is
// the single owner of its photo, so correlation is a direct lookup on the
// user's MediaAssetID.
type UserPhotoLink struct {
	Users UserRepository
}

func (l UserPhotoLink) Finalize(ctx context.Context, asset *MediaAsset, publicURL string) (LinkResult, error) {
	user, err := l.Users.GetUserByMediaAssetID(ctx, asset.ID)
	if err != nil {
		return LinkResult{}, err
	}

	previous := user.PhotoURL
	user.PhotoURL = publicURL
	user.MediaAssetID = nil
	if err := l.Users.UpdateUser(ctx, user); err != nil {
		return LinkResult{}, &PersistenceError{Op: "update user", Err: err}
	}

	return LinkResult{EntityID: user.ID, EntityType: EntityTypeUser, PreviousURL: previous}, nil
}

func (l UserPhotoLink) Release(ctx context.Context, asset *MediaAsset) error {
	if asset.AssociatedEntityID == nil {
		return nil
	}
	user, err := l.Users.GetUser(ctx, *asset.AssociatedEntityID)
	if err != nil {
		return err
	}
	if user.PhotoURL != asset.PublicURL {
		// The photo was replaced since; leave it alone.
		return nil
	}
	user.PhotoURL = ""
	if err := l.Users.UpdateUser(ctx, user); err != nil {
		return &PersistenceError{Op: "update user", Err: err}
	}
	return nil
}

// HeadlineImageLink links article-image assets to the awaiting headline,
// located by a reverse filter on MediaAssetID.
type HeadlineImageLink struct {
	Headlines HeadlineRepository
}

func (l HeadlineImageLink) Finalize(ctx context.Context, asset *MediaAsset, publicURL string) (LinkResult, error) {
	headline, err := l.Headlines.GetHeadlineByMediaAssetID(ctx, asset.ID)
	if err != nil {
		return LinkResult{}, err
	}

	previous := headline.ImageURL
	headline.ImageURL = publicURL
	headline.MediaAssetID = nil
	if err := l.Headlines.UpdateHeadline(ctx, headline); err != nil {
		return LinkResult{}, &PersistenceError{Op: "update headline", Err: err}
	}

	return LinkResult{EntityID: headline.ID, EntityType: EntityTypeHeadline, PreviousURL: previous}, nil
}

func (l HeadlineImageLink) Release(ctx context.Context, asset *MediaAsset) error {
	if asset.AssociatedEntityID == nil {
		return nil
	}
	headline, err := l.Headlines.GetHeadline(ctx, *asset.AssociatedEntityID)
	if err != nil {
		return err
	}
	if headline.ImageURL != asset.PublicURL {
		return nil
	}
	headline.ImageURL = ""
	if err := l.Headlines.UpdateHeadline(ctx, headline); err != nil {
		return &PersistenceError{Op: "update headline", Err: err}
	}
	return nil
}
