package photostorage

import (
	"context"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"datespark/internal/storage"

	"github.com/google/uuid"
)

// LocalStorage keeps photos on the local filesystem. The public id is the
// generated file name relative to the base directory.
type LocalStorage struct {
	baseDir string
	baseURL string
	maxSize int64
}

func NewLocalStorage(baseDir, baseURL string, maxSize int64) (*LocalStorage, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, err
	}

	return &LocalStorage{
		baseDir: baseDir,
		baseURL: baseURL,
		maxSize: maxSize,
	}, nil
}

func (s *LocalStorage) Upload(ctx context.Context, file *multipart.FileHeader) (UploadResult, error) {
	if err := ctx.Err(); err != nil {
		return UploadResult{}, err
	}

	if s.maxSize > 0 && file.Size > s.maxSize {
		return UploadResult{}, storage.ErrFileTooLarge
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedExtensions[ext] {
		return UploadResult{}, storage.ErrInvalidFileType
	}

	publicID := uuid.New().String() + ext
	filePath := filepath.Join(s.baseDir, publicID)

	src, err := file.Open()
	if err != nil {
		return UploadResult{}, &UploadError{Message: "failed to read uploaded file", Err: err}
	}
	defer src.Close()

	dst, err := os.Create(filePath)
	if err != nil {
		return UploadResult{}, &UploadError{Message: "failed to store file", Err: err}
	}
	defer dst.Close()

	done := make(chan struct{})
	var size int64
	var copyErr error

	go func() {
		size, copyErr = io.Copy(dst, src)
		close(done)
	}()

	select {
	case <-done:
		if copyErr != nil {
			_ = os.Remove(filePath)
			return UploadResult{}, &UploadError{Message: "failed to store file", Err: copyErr}
		}
	case <-ctx.Done():
		_ = os.Remove(filePath)
		return UploadResult{}, ctx.Err()
	}

	return UploadResult{
		PublicID: publicID,
		URL:      s.baseURL + "/" + publicID,
		Size:     size,
	}, nil
}

func (s *LocalStorage) Delete(ctx context.Context, publicID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := os.Remove(filepath.Join(s.baseDir, publicID))
	if os.IsNotExist(err) {
		return storage.ErrFileNotFound
	}
	return err
}
