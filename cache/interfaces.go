// Package cache holds the in-memory joke working set that stands in for
// persistent storage on the server.
package cache

import "github.com/briangreenhill/jokeshelf/internal/models"

// Reader defines read access to the cached jokes
type Reader interface {
	// GetAll returns the cached jokes in order. The slice is a copy.
	GetAll() []models.Joke

	// Contains reports whether a joke with the given id is cached
	Contains(id int64) bool

	// IDs returns the set of cached ids
	IDs() map[int64]struct{}

	// Len returns the number of cached jokes
	Len() int
}

// Writer defines mutation of the cached jokes
type Writer interface {
	// SetAll replaces the whole sequence
	SetAll(jokes []models.Joke)

	// Add appends a joke
	Add(joke models.Joke)

	// Update replaces the entry with the given id.
	// Returns the stored joke and false if nothing matched.
	Update(id int64, joke models.Joke) (models.Joke, bool)

	// Delete removes the entry with the given id and reports whether one was removed
	Delete(id int64) bool

	// Clear empties the cache
	Clear()
}

// Store is the main interface that combines all cache operations
type Store interface {
	Reader
	Writer
}
