package storage

import "context"

// ObjectStorage is the slice of object storage the job service needs:
// resolving photo URLs and removing photo objects when a job is deleted.
// Uploading is done by the media service that writes job_photos rows.
type ObjectStorage interface {
	// GetURL returns the public URL of an object.
	GetURL(key string) string

	// Delete removes an object. Deleting a missing object is not an error.
	Delete(ctx context.Context, key string) error
}
