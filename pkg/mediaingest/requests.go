package mediaingest

import (
	"fmt"
	"path"

	"github.com/google/uuid"
)

// CreateAssetRequest contains parameters for creating a pending-upload asset
type CreateAssetRequest struct {
	UserID      uuid.UUID
	Purpose     AssetPurpose
	FileName    string
	ContentType string
}

// ObjectPath builds the storage path for a new upload. The asset id keeps
// paths unique per live object; the original extension is preserved so public
// URLs stay recognizable.
func ObjectPath(userID, assetID uuid.UUID, fileName string) string {
	return fmt.Sprintf("uploads/%s/%s%s", userID, assetID, path.Ext(fileName))
}
