package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileStore keeps a write-once copy of every generated figure on the
// local filesystem, one file per generation, under a single flat root.
type FileStore struct {
	basePath string
}

// NewFileStore initializes a FileStore rooted at basePath.
func NewFileStore(basePath string) (*FileStore, error) {
	basePath = strings.TrimSpace(basePath)
	if basePath == "" {
		return nil, errors.New("storage: base path is required")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("storage: ensure base path: %w", err)
	}
	return &FileStore{basePath: basePath}, nil
}

// BasePath returns the configured root directory.
func (s *FileStore) BasePath() string {
	if s == nil {
		return ""
	}
	return s.basePath
}

// Write persists the bytes under the given filename and returns the full
// path. Filenames are cleaned to prevent escaping the storage root.
func (s *FileStore) Write(ctx context.Context, filename string, data []byte) (string, error) {
	if s == nil {
		return "", errors.New("storage: no store configured")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	name, err := sanitizeFilename(filename)
	if err != nil {
		return "", err
	}
	fullPath := filepath.Join(s.basePath, name)
	if err := os.WriteFile(fullPath, data, 0o644); err != nil {
		return "", fmt.Errorf("storage: write file: %w", err)
	}
	return fullPath, nil
}

// sanitizeFilename rejects anything that would leave the flat root.
func sanitizeFilename(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errors.New("storage: filename is required")
	}
	name = strings.ReplaceAll(name, "\\", "/")
	if name != filepath.Base(name) || name == "." || name == ".." {
		return "", errors.New("storage: invalid filename")
	}
	return name, nil
}
