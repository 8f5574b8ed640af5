// Package images provides item photo processing and storage.
package images

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Storage manages photo filesystem operations.
// Thread-safe for concurrent operations.
type Storage struct {
	basePath string
	mu       sync.RWMutex // Protects file operations
}

// NewStorage creates a new Storage instance for item photos.
// basePath should be the data directory; photos are stored in
// {basePath}/photos/.
func NewStorage(basePath string) (*Storage, error) {
	return NewStorageWithSubdir(basePath, "photos")
}

// NewStorageWithSubdir creates a new Storage instance with a custom
// subdirectory under basePath.
func NewStorageWithSubdir(basePath, subdir string) (*Storage, error) {
	if basePath == "" {
		return nil, fmt.Errorf("base path cannot be empty")
	}
	if subdir == "" {
		return nil, fmt.Errorf("subdirectory cannot be empty")
	}

	storagePath := filepath.Join(basePath, subdir)

	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create %s directory: %w", subdir, err)
	}

	return &Storage{
		basePath: storagePath,
	}, nil
}

// Save stores photo data for an item.
// Filename format: {id}.jpg.
func (s *Storage) Save(id string, imgData []byte) error {
	if id == "" {
		return fmt.Errorf("ID cannot be empty")
	}
	if len(imgData) == 0 {
		return fmt.Errorf("image data cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.WriteFile(s.Path(id), imgData, 0644); err != nil {
		return fmt.Errorf("failed to write image file: %w", err)
	}

	return nil
}

// Get retrieves photo data for an item.
func (s *Storage) Get(id string) ([]byte, error) {
	if id == "" {
		return nil, fmt.Errorf("ID cannot be empty")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.Path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("image not found for %s: %w", id, err)
		}
		return nil, fmt.Errorf("failed to read image file: %w", err)
	}

	return data, nil
}

// Exists checks if a photo exists for an item.
func (s *Storage) Exists(id string) bool {
	if id == "" {
		return false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	_, err := os.Stat(s.Path(id))
	return err == nil
}

// Delete removes a photo for an item.
func (s *Storage) Delete(id string) error {
	if id == "" {
		return fmt.Errorf("ID cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.Path(id)); err != nil {
		if os.IsNotExist(err) {
			// Already deleted, not an error.
			return nil
		}
		return fmt.Errorf("failed to delete image file: %w", err)
	}

	return nil
}

// Hash computes SHA256 hash of a photo.
// Returns hex-encoded string for ETag/cache validation.
func (s *Storage) Hash(id string) (string, error) {
	if id == "" {
		return "", fmt.Errorf("ID cannot be empty")
	}

	data, err := s.Get(id)
	if err != nil {
		return "", err
	}

	hash := sha256.Sum256(data)
	return fmt.Sprintf("%x", hash), nil
}

// Path returns the full filesystem path for an item's photo.
func (s *Storage) Path(id string) string {
	return filepath.Join(s.basePath, fmt.Sprintf("%s.jpg", id))
}
