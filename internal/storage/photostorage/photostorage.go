package photostorage

import (
	"context"
	"mime/multipart"
)

// UploadResult is what the image host reports back after an upload.
// PublicID is the host-side identifier used for later deletion.
type UploadResult struct {
	PublicID string
	URL      string
	Size     int64
}

// PhotoStorage is the external image host collaborator. Implementations:
// local disk for development, S3-compatible object storage otherwise.
type PhotoStorage interface {
	Upload(ctx context.Context, file *multipart.FileHeader) (UploadResult, error)
	Delete(ctx context.Context, publicID string) error
}

// UploadError is returned when the image host fails an upload. Message
// carries the host's own wording and is safe to surface to the client.
type UploadError struct {
	Message string
	Err     error
}

func (e *UploadError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *UploadError) Unwrap() error { return e.Err }

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}
