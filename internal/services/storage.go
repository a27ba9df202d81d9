package services

import "context"

// ObjectStorage is the external object-storage collaborator. Upload hands
// over a raw image payload and yields a retrieval URL; Destroy releases a
// previously uploaded object by that URL.
type ObjectStorage interface {
	Upload(ctx context.Context, payload string) (string, error)
	Destroy(ctx context.Context, url string) error
}
