package client

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"slices"
	"strconv"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/briangreenhill/jokeshelf/internal/config"
	"github.com/briangreenhill/jokeshelf/internal/models"
	"github.com/briangreenhill/jokeshelf/internal/numutil"
	"github.com/briangreenhill/jokeshelf/internal/storage"
)

// JokesNumberKey is the storage key of the known jokes total
const JokesNumberKey = "jokesNumber"

type SortDirection string

const (
	SortAsc  SortDirection = "ASC"
	SortDesc SortDirection = "DESC"
)

type StoreOptions struct {
	API        API
	Pagination *Pagination
	Storage    storage.Storage
	Notifier   Notifier
	Policy     config.ErrorPolicy
	// DefaultJokesNumber seeds the stored total on first use
	DefaultJokesNumber int
	Logger             zerolog.Logger
}

// JokesStore is the client-side copy of the server's jokes. Every change to
// the jokes, the current page or the page size recomputes the visible page.
type JokesStore struct {
	api        API
	pagination *Pagination
	storage    storage.Storage
	notifier   Notifier
	policy     config.ErrorPolicy
	log        zerolog.Logger

	mu          sync.Mutex
	jokes       []models.Joke
	page        []models.Joke
	jokesNumber int
	direction   SortDirection
	busy        bool
	collator    *collate.Collator
}

func NewJokesStore(opts StoreOptions) (*JokesStore, error) {
	if opts.API == nil || opts.Pagination == nil || opts.Storage == nil {
		return nil, errors.New("jokes store needs an API, pagination and storage")
	}
	def := opts.DefaultJokesNumber
	if def <= 0 {
		def = 10
	}
	n, err := storage.Int(opts.Storage, JokesNumberKey, def)
	if err != nil {
		return nil, fmt.Errorf("load jokes number: %w", err)
	}
	notifier := opts.Notifier
	if notifier == nil {
		notifier = LogNotifier{Log: opts.Logger}
	}
	policy := opts.Policy
	if policy == "" {
		policy = config.PropagateErrors
	}

	s := &JokesStore{
		api:         opts.API,
		pagination:  opts.Pagination,
		storage:     opts.Storage,
		notifier:    notifier,
		policy:      policy,
		log:         opts.Logger,
		jokes:       []models.Joke{},
		page:        []models.Joke{},
		jokesNumber: n,
		direction:   SortAsc,
		collator:    collate.New(language.English),
	}
	opts.Pagination.Subscribe(s.recompute)
	return s, nil
}

// Paginate returns the pageSize items on the given 1-based page. Pages below
// 1 are treated as 1 and pages past the last one are empty.
func Paginate[T any](items []T, page, pageSize int) []T {
	if pageSize <= 0 {
		return []T{}
	}
	page = max(page, 1)
	// checked before multiplying so a huge page cannot overflow start
	if page-1 >= (len(items)+pageSize-1)/pageSize {
		return []T{}
	}
	start := (page - 1) * pageSize
	end := min(start+pageSize, len(items))
	return slices.Clone(items[start:end])
}

func (s *JokesStore) Jokes() []models.Joke {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.jokes)
}

// Page returns the jokes on the current page
func (s *JokesStore) Page() []models.Joke {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.page)
}

// JokesNumber is the greater of the last requested count and the number of
// jokes held.
func (s *JokesStore) JokesNumber() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jokesNumber
}

func (s *JokesStore) TotalPages() int {
	return totalPages(s.JokesNumber(), s.pagination.PageSize())
}

func (s *JokesStore) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

func (s *JokesStore) SortDirection() SortDirection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.direction
}

func (s *JokesStore) SetSortDirection(d SortDirection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.direction = d
}

// LoadJokes asks the server for n jokes. n <= 0 reuses the stored total.
func (s *JokesStore) LoadJokes(ctx context.Context, n int) error {
	s.setBusy(true)
	defer s.setBusy(false)

	if n > 0 {
		s.setJokesNumber(n)
	}
	var got []models.Joke
	if err := s.api.Get(ctx, "/"+strconv.Itoa(s.JokesNumber()), &got); err != nil {
		return s.fail("Couldn't load jokes.", err)
	}
	s.replace(got)
	return nil
}

// LoadJoke appends one random joke from the server. The returned joke is nil
// when the failure was swallowed.
func (s *JokesStore) LoadJoke(ctx context.Context) (*models.Joke, error) {
	var j models.Joke
	if err := s.api.Get(ctx, "/random", &j); err != nil {
		return nil, s.fail(loadJokeMessage(err), err)
	}
	s.mu.Lock()
	s.jokes = append(s.jokes, j)
	s.mu.Unlock()
	s.changed()
	return &j, nil
}

func loadJokeMessage(err error) string {
	var se *StatusError
	if errors.As(err, &se) {
		switch se.Status {
		case http.StatusNotFound:
			return "Joke not found"
		case http.StatusConflict:
			return "Couldn't fetch a unique joke. Try again."
		case http.StatusInternalServerError:
			return "Server error. Please try later."
		}
		if se.Message != "" {
			return se.Message
		}
		return "Unexpected error occurred"
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return "Unexpected error occurred"
}

// RemoveJoke deletes a joke on the server, then locally
func (s *JokesStore) RemoveJoke(ctx context.Context, id int64) error {
	if err := s.api.Delete(ctx, "/"+strconv.FormatInt(id, 10)); err != nil {
		return s.fail(fmt.Sprintf("Couldn't remove the joke with id %d", id), err)
	}
	s.mu.Lock()
	s.jokes = slices.DeleteFunc(s.jokes, func(j models.Joke) bool { return j.ID == id })
	s.mu.Unlock()
	s.changed()
	return nil
}

// RemoveJokes deletes every joke on the server, then locally
func (s *JokesStore) RemoveJokes(ctx context.Context) error {
	if err := s.api.Delete(ctx, "/"); err != nil {
		return s.fail("Couldn't remove jokes.", err)
	}
	s.replace([]models.Joke{})
	return nil
}

// UpdateJokeRating sends the joke to the server. The local copy is left as is.
func (s *JokesStore) UpdateJokeRating(ctx context.Context, j models.Joke) error {
	if err := s.api.Put(ctx, "/"+strconv.FormatInt(j.ID, 10), models.DraftOf(j), nil); err != nil {
		return s.fail(fmt.Sprintf("Couldn't update rating for the joke with id %d", j.ID), err)
	}
	return nil
}

// ResetJokes replaces the server's jokes with n fresh ones and mirrors them
func (s *JokesStore) ResetJokes(ctx context.Context, n int) error {
	s.setBusy(true)
	defer s.setBusy(false)

	var got []models.Joke
	if err := s.api.Post(ctx, "/reset/"+strconv.Itoa(n), struct{}{}, &got); err != nil {
		return s.fail(fmt.Sprintf("Couldn't reset %d jokes", n), err)
	}
	if n > 0 {
		s.setJokesNumber(n)
	}
	s.replace(got)
	return nil
}

// ToggleSorting sorts the jokes by type in the current direction, then flips
// the direction for the next call. Equal types keep their order.
func (s *JokesStore) ToggleSorting() {
	s.setBusy(true)
	defer s.setBusy(false)

	s.mu.Lock()
	dir := s.direction
	sorted := slices.Clone(s.jokes)
	slices.SortStableFunc(sorted, func(a, b models.Joke) int {
		if dir == SortDesc {
			return s.collator.CompareString(b.Type, a.Type)
		}
		return s.collator.CompareString(a.Type, b.Type)
	})
	s.jokes = sorted
	if dir == SortAsc {
		s.direction = SortDesc
	} else {
		s.direction = SortAsc
	}
	s.mu.Unlock()
	s.changed()
}

// EnterHome corrects the page parameter before the jokes view is shown:
// a missing page or one past the last page becomes "1".
func (s *JokesStore) EnterHome() {
	raw, ok := s.pagination.RawPage()
	pages := s.TotalPages()
	if !ok || math.Trunc(numutil.SafeNumber(raw, math.NaN())) > float64(pages) {
		s.pagination.ResetPage()
	}
}

func (s *JokesStore) replace(jokes []models.Joke) {
	if jokes == nil {
		jokes = []models.Joke{}
	}
	s.mu.Lock()
	s.jokes = jokes
	s.mu.Unlock()
	s.changed()
}

// changed runs after every mutation of the jokes
func (s *JokesStore) changed() {
	s.mu.Lock()
	n := max(s.jokesNumber, len(s.jokes))
	s.mu.Unlock()
	s.setJokesNumber(n)
	s.recompute()
}

// recompute rebuilds the visible page and resets the page parameter when it
// points past the last page. It must not be called with s.mu held: ResetPage
// notifies observers, recompute among them.
func (s *JokesStore) recompute() {
	page := s.pagination.CurrentPage()
	size := s.pagination.PageSize()

	s.mu.Lock()
	s.page = Paginate(s.jokes, page, size)
	pages := totalPages(s.jokesNumber, size)
	s.mu.Unlock()

	raw, _ := s.pagination.RawPage()
	if raw != "1" && float64(pages) < numutil.SafeNumber(raw, -1) {
		s.pagination.ResetPage()
	}
}

func (s *JokesStore) setJokesNumber(n int) {
	s.mu.Lock()
	if s.jokesNumber == n {
		s.mu.Unlock()
		return
	}
	s.jokesNumber = n
	s.mu.Unlock()

	if err := s.storage.Set(JokesNumberKey, n); err != nil {
		s.log.Warn().Err(err).Msg("save jokes number")
	}
}

func (s *JokesStore) setBusy(b bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = b
}

// fail reports err to the user and applies the error policy
func (s *JokesStore) fail(msg string, err error) error {
	s.log.Error().Err(err).Msg(msg)
	if nerr := s.notifier.Notify(NewNotification(LevelError, msg)); nerr != nil {
		s.log.Warn().Err(nerr).Msg("notify")
	}
	if s.policy == config.SwallowErrors {
		return nil
	}
	return err
}

func totalPages(total, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	return int(math.Ceil(float64(total) / float64(pageSize)))
}
