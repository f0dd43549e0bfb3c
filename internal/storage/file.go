package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileStorage keeps one YAML document per key in a directory
type FileStorage struct {
	dir string
}

// NewFileStorage creates the directory if needed and returns a store rooted there
func NewFileStorage(dir string) (*FileStorage, error) {
	if dir == "" {
		return nil, errors.New("storage directory is required")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &FileStorage{dir: dir}, nil
}

// Dir returns the directory the documents live in
func (fs *FileStorage) Dir() string {
	return fs.dir
}

// Get implements Storage
func (fs *FileStorage) Get(key string, out any) (bool, error) {
	path, err := fs.path(key)
	if err != nil {
		return false, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read %s: %w", key, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

// Set implements Storage
func (fs *FileStorage) Set(key string, v any) error {
	path, err := fs.path(key)
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}

	// Write to temporary file first, then rename (atomic operation)
	tmp, err := os.CreateTemp(fs.dir, key+".tmp.*")
	if err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

// path maps a key onto a file name, rejecting keys that would escape the directory
func (fs *FileStorage) path(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\:*?"<>|`) || key == "." || key == ".." {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return filepath.Join(fs.dir, key+".yaml"), nil
}
