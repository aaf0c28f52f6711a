package previewcache

import (
	"errors"
	"os"
	"path/filepath"
)

// ErrQuotaExceeded is returned by a Storage whose capacity is exhausted.
// The cache reacts by pruning down to its most recent entries and retrying.
var ErrQuotaExceeded = errors.New("storage quota exceeded")

// Storage is a durable string key-value store, the Go analogue of browser
// local storage: one serialized blob per key, surviving process restarts.
type Storage interface {
	// Get returns the value for key, or ok=false when the key is absent.
	Get(key string) (value string, ok bool, err error)
	// Set stores value under key. May return ErrQuotaExceeded.
	Set(key, value string) error
}

// FileStorage persists each key as a file under a directory, with an
// optional byte limit per value to mimic a bounded quota.
type FileStorage struct {
	dir      string
	maxBytes int
}

// NewFileStorage creates a FileStorage rooted at dir. maxBytes <= 0 means
// unbounded values.
func NewFileStorage(dir string, maxBytes int) *FileStorage {
	return &FileStorage{dir: dir, maxBytes: maxBytes}
}

func (s *FileStorage) Get(key string) (string, bool, error) {
	data, err := os.ReadFile(s.path(key))
	if os.IsNotExist(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return string(data), true, nil
}

func (s *FileStorage) Set(key, value string) error {
	if s.maxBytes > 0 && len(value) > s.maxBytes {
		return ErrQuotaExceeded
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}
	path := s.path(key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(value), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func (s *FileStorage) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}
