// Package storage keeps media files on the local filesystem. Files are
// named after their asset id plus extension and served statically under
// the configured base URL.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"story-server/internal/config"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MediaStore stores and removes asset files and builds their public URLs.
type MediaStore struct {
	root    string
	baseURL string
	logger  *zap.Logger
}

// NewMediaStore creates a store rooted at cfg.Root, creating the directory if needed.
func NewMediaStore(cfg config.MediaConfig, logger *zap.Logger) (*MediaStore, error) {
	if err := os.MkdirAll(cfg.Root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create media root %s: %w", cfg.Root, err)
	}
	return &MediaStore{
		root:    cfg.Root,
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		logger:  logger.Named("MediaStore"),
	}, nil
}

// Filename returns the canonical file name for an asset.
func (s *MediaStore) Filename(assetID uuid.UUID, ext string) string {
	ext = strings.TrimPrefix(ext, ".")
	return fmt.Sprintf("%s.%s", assetID, ext)
}

// Save writes the file bytes and returns the stored filename and public URL.
func (s *MediaStore) Save(assetID uuid.UUID, ext string, data []byte) (filename, url string, err error) {
	filename = s.Filename(assetID, ext)
	path := filepath.Join(s.root, filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		s.logger.Error("Failed to write media file", zap.Error(err), zap.String("path", path))
		return "", "", fmt.Errorf("failed to write media file: %w", err)
	}
	s.logger.Debug("Media file saved", zap.String("path", path), zap.Int("bytes", len(data)))
	return filename, s.baseURL + "/" + filename, nil
}

// Delete removes a stored file. A missing file is not an error: the goal
// is that the file is gone.
func (s *MediaStore) Delete(filename string) error {
	// Защита от путей вида ../../etc/passwd
	if filename != filepath.Base(filename) {
		return fmt.Errorf("invalid media filename: %s", filename)
	}
	path := filepath.Join(s.root, filename)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		s.logger.Error("Failed to delete media file", zap.Error(err), zap.String("path", path))
		return fmt.Errorf("failed to delete media file: %w", err)
	}
	return nil
}

// Root returns the filesystem root the static file server should expose.
func (s *MediaStore) Root() string {
	return s.root
}

// BaseURL returns the public URL prefix of stored files.
func (s *MediaStore) BaseURL() string {
	return s.baseURL
}
