// Package storage persists uploaded item images and returns the public URL
// under which each one can be fetched.
package storage

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
)

var ErrInvalidFilename = errors.New("invalid image filename")

type ImageStore interface {
	Save(ctx context.Context, filename, contentType string, body io.Reader) (string, error)
	// Delete removes the image stored under filename. A missing image is
	// not an error.
	Delete(ctx context.Context, filename string) error
}

// SanitizeFilename keeps only the base name of a client supplied filename and
// replaces spaces with underscores. It returns "" for names that cannot be
// stored.
func SanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = filepath.Base(strings.TrimSpace(name))
	if name == "." || name == ".." || name == "/" {
		return ""
	}
	return strings.ReplaceAll(name, " ", "_")
}
