package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) (*LocalStorage, string) {
	t.Helper()
	dir := t.TempDir()
	s, err := NewLocalStorage(dir, "http://localhost:8080/uploads/")
	require.NoError(t, err)
	return s, dir
}

func TestLocalStorage_UploadAndDelete(t *testing.T) {
	// Setup
	s, dir := newTestStorage(t)
	ctx := context.Background()

	// Act
	p, err := s.Upload(ctx, strings.NewReader("hello"), "profiles/u1/a.jpg", "image/jpeg")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "profiles/u1/a.jpg", p)
	content, err := os.ReadFile(filepath.Join(dir, "profiles", "u1", "a.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(content))

	exists, err := s.Exists(ctx, p)
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, s.Delete(ctx, p))
	exists, err = s.Exists(ctx, p)
	require.NoError(t, err)
	assert.False(t, exists)

	assert.NoError(t, s.Delete(ctx, p), "deleting a missing file is a no-op")
}

func TestLocalStorage_PathsStayInsideBase(t *testing.T) {
	s, dir := newTestStorage(t)

	p, err := s.Upload(context.Background(), strings.NewReader("x"), "../../escape.txt", "text/plain")

	require.NoError(t, err)
	assert.Equal(t, "escape.txt", p)
	_, err = os.Stat(filepath.Join(dir, "escape.txt"))
	assert.NoError(t, err)
}

func TestLocalStorage_EmptyPath(t *testing.T) {
	s, _ := newTestStorage(t)

	_, err := s.Upload(context.Background(), strings.NewReader("x"), "/", "text/plain")

	assert.ErrorIs(t, err, ErrInvalidPath)
}

func TestLocalStorage_URLRoundTrip(t *testing.T) {
	s, _ := newTestStorage(t)

	url := s.URL("profiles/u1/a.jpg")
	assert.Equal(t, "http://localhost:8080/uploads/profiles/u1/a.jpg", url)

	p, ok := s.PathFromURL(url)
	assert.True(t, ok)
	assert.Equal(t, "profiles/u1/a.jpg", p)

	_, ok = s.PathFromURL("https://cdn.example.com/a.jpg")
	assert.False(t, ok)
}
