// Package local stores media blobs on the local filesystem.
package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/heartmarshall/forkful-backend/internal/domain"
)

// Store writes blobs under a root directory and addresses them by
// slash-separated relative names.
type Store struct {
	root    string
	baseURL string
}

// New creates the root directory if needed.
func New(root, publicBaseURL string) (*Store, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("local.New: %w", err)
	}
	return &Store{root: root, baseURL: strings.TrimRight(publicBaseURL, "/")}, nil
}

// Put writes data atomically and returns the public URL of the blob.
func (s *Store) Put(ctx context.Context, name, _ string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	path, err := s.path(name)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("local.Put: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".upload-*")
	if err != nil {
		return "", fmt.Errorf("local.Put: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("local.Put: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("local.Put: close: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("local.Put: rename: %w", err)
	}

	return s.baseURL + "/" + name, nil
}

// Open returns a reader for the blob. Missing blobs map to ErrNotFound.
func (s *Store) Open(_ context.Context, name string) (io.ReadCloser, error) {
	path, err := s.path(name)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("blob %s: %w", name, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("local.Open: %w", err)
	}
	return f, nil
}

func (s *Store) path(name string) (string, error) {
	native := filepath.FromSlash(name)
	if name == "" || !filepath.IsLocal(native) {
		return "", fmt.Errorf("blob name %q: %w", name, domain.ErrValidation)
	}
	return filepath.Join(s.root, native), nil
}
