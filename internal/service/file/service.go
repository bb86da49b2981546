package file

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"

	"github.com/cmlabs-hris/leave-attendance-backend/internal/domain/user"
	"github.com/cmlabs-hris/leave-attendance-backend/internal/pkg/storage"
	"github.com/google/uuid"
)

// FileService stores user uploads and hands back their public URLs.
type FileService struct {
	storage storage.FileStorage
}

var _ user.ImageStore = (*FileService)(nil)

func NewFileService(storage storage.FileStorage) *FileService {
	return &FileService{storage: storage}
}

// UploadProfileImage validates and normalizes the image, stores it under
// profiles/<userID>/ and returns its URL. The stored name is generated, so
// filename is not used.
func (s *FileService) UploadProfileImage(ctx context.Context, userID string, file io.Reader, filename string) (string, error) {
	data, err := io.ReadAll(io.LimitReader(file, MaxImageSize+1))
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}
	if len(data) > MaxImageSize {
		return "", user.ErrImageTooLarge
	}

	normalized, err := normalizeImage(data)
	if err != nil {
		return "", err
	}

	name := path.Join("profiles", userID, uuid.New().String()+".jpg")
	stored, err := s.storage.Upload(ctx, bytes.NewReader(normalized), name, outputMimeType)
	if err != nil {
		return "", fmt.Errorf("failed to upload profile image: %w", err)
	}
	return s.storage.URL(stored), nil
}

// DeleteByURL removes a file previously returned by UploadProfileImage.
// URLs that do not belong to this storage are left alone.
func (s *FileService) DeleteByURL(ctx context.Context, url string) error {
	p, ok := s.storage.PathFromURL(url)
	if !ok {
		return nil
	}
	return s.storage.Delete(ctx, p)
}
