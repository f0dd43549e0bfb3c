// Package jokes reconciles the server's joke cache against the external joke
// API and implements the CRUD operations exposed over HTTP.
package jokes

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/briangreenhill/jokeshelf/cache"
	"github.com/briangreenhill/jokeshelf/internal/models"
)

// MaxRandomAttempts bounds the search for a joke that is not cached yet.
const MaxRandomAttempts = 10

// Source fetches random jokes from somewhere outside the process.
type Source interface {
	Random(ctx context.Context, n int) ([]models.Draft, error)
}

type Service struct {
	// mu serializes whole operations, including the upstream call, so two
	// requests never interleave their read-modify-write of the cache.
	mu sync.Mutex

	cache        cache.Store
	source       Source
	defaultCount int
	log          zerolog.Logger
}

type Options struct {
	Cache        cache.Store
	Source       Source
	DefaultCount int
	Logger       zerolog.Logger
}

func New(opts Options) *Service {
	c := opts.Cache
	if c == nil {
		c = cache.NewMemory()
	}
	return &Service{
		cache:        c,
		source:       opts.Source,
		defaultCount: opts.DefaultCount,
		log:          opts.Logger,
	}
}

// DefaultCount is the count used when a caller does not ask for one.
func (s *Service) DefaultCount() int {
	return s.defaultCount
}

// Snapshot returns the cached jokes without touching the upstream.
func (s *Service) Snapshot() []models.Joke {
	return s.cache.GetAll()
}

// Fetch grows, shrinks or leaves the cache so that it holds count jokes.
// Growing keeps the cached jokes as a prefix and skips ids already present;
// the result may hold fewer than count jokes when the upstream returns
// duplicates.
func (s *Service) Fetch(ctx context.Context, count int) ([]models.Joke, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count = max(count, 0)
	cached := s.cache.GetAll()
	switch {
	case len(cached) < count:
		missing := count - len(cached)
		drafts, err := s.source.Random(ctx, missing)
		if err != nil {
			return nil, &UpstreamError{Op: "fetch", Err: err}
		}

		seen := s.cache.IDs()
		merged := cached
		for _, j := range models.EnrichMany(drafts) {
			if len(merged) == count {
				break
			}
			if _, dup := seen[j.ID]; dup {
				continue
			}
			seen[j.ID] = struct{}{}
			merged = append(merged, j)
		}
		s.cache.SetAll(merged)
		s.log.Debug().Int("requested", count).Int("cached", len(cached)).Int("fetched", len(drafts)).
			Int("result", len(merged)).Msg("grew joke cache")
		return merged, nil

	case len(cached) > count:
		trimmed := cached[:count]
		s.cache.SetAll(trimmed)
		s.log.Debug().Int("requested", count).Int("cached", len(cached)).Msg("trimmed joke cache")
		return trimmed, nil

	default:
		return cached, nil
	}
}

// LoadRandom appends one random joke that is not cached yet. It gives up
// with ErrConflict after MaxRandomAttempts duplicates.
func (s *Service) LoadRandom(ctx context.Context) (models.Joke, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for attempt := 1; attempt <= MaxRandomAttempts; attempt++ {
		drafts, err := s.source.Random(ctx, 1)
		if err != nil {
			return models.Joke{}, &UpstreamError{Op: "random", Err: err}
		}
		if len(drafts) == 0 {
			return models.Joke{}, &UpstreamError{Op: "random", Err: errEmptyBatch}
		}

		j := models.Enrich(drafts[0])
		if s.cache.Contains(j.ID) {
			s.log.Debug().Int64("id", j.ID).Int("attempt", attempt).Msg("random joke already cached")
			continue
		}
		s.cache.Add(j)
		return j, nil
	}
	return models.Joke{}, ErrConflict
}

// Create enriches d and appends it to the cache.
func (s *Service) Create(d models.Draft) (models.Joke, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	j := models.Enrich(d)
	if j.ID == 0 {
		return models.Joke{}, ErrMissingID
	}
	if s.cache.Contains(j.ID) {
		return models.Joke{}, ErrDuplicateID
	}
	s.cache.Add(j)
	return j, nil
}

// Update replaces the joke stored under id with d. A body id, when present,
// must equal id so the cache stays unique by id.
func (s *Service) Update(id int64, d models.Draft) (models.Joke, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if d.ID != 0 && d.ID != id {
		return models.Joke{}, ErrIDMismatch
	}
	d.ID = id
	j, ok := s.cache.Update(id, models.Enrich(d))
	if !ok {
		return models.Joke{}, ErrNotFound
	}
	return j, nil
}

// Delete removes the joke with the given id.
func (s *Service) Delete(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.cache.Delete(id) {
		return ErrNotFound
	}
	return nil
}

// DeleteAll empties the cache.
func (s *Service) DeleteAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache.Clear()
}

// Reset replaces the whole cache with count fresh jokes. Prior entries are
// discarded even if their ids come back.
func (s *Service) Reset(ctx context.Context, count int) ([]models.Joke, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	drafts, err := s.source.Random(ctx, count)
	if err != nil {
		return nil, &UpstreamError{Op: "reset", Err: err}
	}
	fresh := models.EnrichMany(drafts)
	s.cache.SetAll(fresh)
	s.log.Info().Int("count", len(fresh)).Msg("joke cache reset")
	return fresh, nil
}
