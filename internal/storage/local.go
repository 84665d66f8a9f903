package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore writes images into a directory that the HTTP server exposes
// under /uploads/. An upload with an existing name replaces the old file.
type LocalStore struct {
	dir     string
	baseURL string
}

func NewLocalStore(dir, publicBaseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating upload dir: %w", err)
	}
	return &LocalStore{dir: dir, baseURL: strings.TrimRight(publicBaseURL, "/")}, nil
}

func (s *LocalStore) Dir() string {
	return s.dir
}

func (s *LocalStore) Save(ctx context.Context, filename, _ string, body io.Reader) (string, error) {
	name := SanitizeFilename(filename)
	if name == "" {
		return "", ErrInvalidFilename
	}

	f, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("creating image file: %w", err)
	}

	if _, err := io.Copy(f, body); err != nil {
		f.Close()
		return "", fmt.Errorf("writing image file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("closing image file: %w", err)
	}

	return s.baseURL + "/uploads/" + url.PathEscape(name), nil
}

func (s *LocalStore) Delete(_ context.Context, filename string) error {
	name := SanitizeFilename(filename)
	if name == "" {
		return ErrInvalidFilename
	}
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing image file: %w", err)
	}
	return nil
}
