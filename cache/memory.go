package cache

import (
	"slices"
	"sync"

	"github.com/briangreenhill/jokeshelf/internal/models"
)

// Memory implements Store with an ordered slice held in process memory
type Memory struct {
	mu    sync.RWMutex
	jokes []models.Joke
}

// NewMemory creates an empty cache
func NewMemory() *Memory {
	return &Memory{}
}

// GetAll implements Reader interface
func (m *Memory) GetAll() []models.Joke {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Joke, len(m.jokes))
	copy(out, m.jokes)
	return out
}

// Contains implements Reader interface
func (m *Memory) Contains(id int64) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.index(id) != -1
}

// IDs implements Reader interface
func (m *Memory) IDs() map[int64]struct{} {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make(map[int64]struct{}, len(m.jokes))
	for _, j := range m.jokes {
		ids[j.ID] = struct{}{}
	}
	return ids
}

// Len implements Reader interface
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.jokes)
}

// SetAll implements Writer interface
func (m *Memory) SetAll(jokes []models.Joke) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jokes = slices.Clone(jokes)
}

// Add implements Writer interface
func (m *Memory) Add(joke models.Joke) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jokes = append(m.jokes, joke)
}

// Update implements Writer interface
func (m *Memory) Update(id int64, joke models.Joke) (models.Joke, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.index(id)
	if i == -1 {
		return models.Joke{}, false
	}
	m.jokes[i] = joke
	return joke, true
}

// Delete implements Writer interface
func (m *Memory) Delete(id int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	before := len(m.jokes)
	m.jokes = slices.DeleteFunc(m.jokes, func(j models.Joke) bool { return j.ID == id })
	return len(m.jokes) < before
}

// Clear implements Writer interface
func (m *Memory) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jokes = nil
}

// index must be called with mu held
func (m *Memory) index(id int64) int {
	return slices.IndexFunc(m.jokes, func(j models.Joke) bool { return j.ID == id })
}
