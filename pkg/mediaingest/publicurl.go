package mediaingest

import "strings"

// BucketURLStrategy serves objects from a fixed base endpoint and bucket,
// e.g. https://storage.example.com/my-bucket/uploads/u1/avatar.jpg.
type BucketURLStrategy struct {
	BaseURL string // endpoint without trailing slash, e.g. "https://storage.example.com"
	Bucket  string
}

// NewBucketURLStrategy creates a URL strategy for the given endpoint and bucket
func NewBucketURLStrategy(baseURL, bucket string) BucketURLStrategy {
	return BucketURLStrategy{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Bucket:  bucket,
	}
}

func (s BucketURLStrategy) prefix() string {
	return s.BaseURL + "/" + s.Bucket + "/"
}

// PublicURL returns the public URL serving the object at storagePath
func (s BucketURLStrategy) PublicURL(storagePath string) string {
	return s.prefix() + strings.TrimLeft(storagePath, "/")
}

// StoragePath recovers the storage path from a URL produced by PublicURL
func (s BucketURLStrategy) StoragePath(publicURL string) (string, bool) {
	path, ok := strings.CutPrefix(publicURL, s.prefix())
	if !ok || path == "" {
		return "", false
	}
	return path, true
}
