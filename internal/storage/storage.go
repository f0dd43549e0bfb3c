// Package storage persists small client settings between runs, keyed by name.
package storage

import (
	"sync"

	"gopkg.in/yaml.v3"
)

// Storage reads and writes values by key. Get reports false when the key
// has never been set.
type Storage interface {
	Get(key string, out any) (bool, error)
	Set(key string, v any) error
}

// MemoryStorage is an in-process Storage, used in tests and when no state
// directory is available.
type MemoryStorage struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{docs: map[string][]byte{}}
}

func (m *MemoryStorage) Get(key string, out any) (bool, error) {
	m.mu.RLock()
	data, ok := m.docs[key]
	m.mu.RUnlock()
	if !ok {
		return false, nil
	}
	return true, yaml.Unmarshal(data, out)
}

func (m *MemoryStorage) Set(key string, v any) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.docs[key] = data
	m.mu.Unlock()
	return nil
}

// Int reads an int stored under key, writing def first when the key is unset
// or unreadable.
func Int(s Storage, key string, def int) (int, error) {
	var n int
	ok, err := s.Get(key, &n)
	if err == nil && ok {
		return n, nil
	}
	if serr := s.Set(key, def); serr != nil {
		return def, serr
	}
	return def, nil
}
