package storage

import (
	"context"
	"errors"
	"io"
)

var ErrInvalidPath = errors.New("invalid file path")

// FileStorage stores uploaded files under relative, slash separated paths.
type FileStorage interface {
	// Upload writes file at path and returns the cleaned path.
	Upload(ctx context.Context, file io.Reader, path string, contentType string) (string, error)

	// Delete removes path. Deleting a missing file is not an error.
	Delete(ctx context.Context, path string) error

	Exists(ctx context.Context, path string) (bool, error)

	// URL returns the public URL of path.
	URL(path string) string

	// PathFromURL reverses URL. ok is false for URLs this storage did not issue.
	PathFromURL(url string) (path string, ok bool)
}
