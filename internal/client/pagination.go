package client

import (
	"fmt"
	"maps"
	"math"
	"strconv"
	"sync"

	"github.com/briangreenhill/jokeshelf/internal/numutil"
	"github.com/briangreenhill/jokeshelf/internal/storage"
)

const (
	// PageSizeKey is the storage key of the persisted page size
	PageSizeKey = "pageSize"

	DefaultPageSize = 10

	// MaxPage bounds the page parsed from the query
	MaxPage = math.MaxInt32
)

// Pagination derives the current page from the router query and keeps the
// page size in storage.
type Pagination struct {
	router  Router
	storage storage.Storage

	mu        sync.Mutex
	pageSize  int
	observers []func()
}

func NewPagination(r Router, s storage.Storage) (*Pagination, error) {
	size, err := storage.Int(s, PageSizeKey, DefaultPageSize)
	if err != nil {
		return nil, fmt.Errorf("load page size: %w", err)
	}
	if size <= 0 {
		size = DefaultPageSize
	}
	p := &Pagination{router: r, storage: s, pageSize: size}
	r.Subscribe(func(Query) { p.notify() })
	return p, nil
}

// CurrentPage is the page query parameter, or 1 when it is absent, not a
// number, or below 1. Larger values are capped at MaxPage.
func (p *Pagination) CurrentPage() int {
	f := numutil.SafeNumber(p.router.Query()["page"], 1)
	if f < 1 {
		return 1
	}
	return int(math.Min(f, MaxPage))
}

func (p *Pagination) PageSize() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pageSize
}

// RawPage returns the page query parameter as it appears in the URL
func (p *Pagination) RawPage() (string, bool) {
	v, ok := p.router.Query()["page"]
	return v, ok
}

func (p *Pagination) SetCurrentPage(n int) {
	q := p.query()
	q["page"] = strconv.Itoa(n)
	p.router.Push(q)
}

// ResetPage replaces the page parameter with "1" without adding history
func (p *Pagination) ResetPage() {
	q := p.query()
	q["page"] = "1"
	p.router.Replace(q)
}

func (p *Pagination) query() Query {
	q := maps.Clone(p.router.Query())
	if q == nil {
		q = Query{}
	}
	return q
}

func (p *Pagination) SetPageSize(n int) error {
	if n <= 0 {
		return fmt.Errorf("page size must be positive, got %d", n)
	}
	p.mu.Lock()
	if p.pageSize == n {
		p.mu.Unlock()
		return nil
	}
	p.pageSize = n
	p.mu.Unlock()

	if err := p.storage.Set(PageSizeKey, n); err != nil {
		return fmt.Errorf("save page size: %w", err)
	}
	p.notify()
	return nil
}

// Subscribe registers fn to run after the page or page size changes
func (p *Pagination) Subscribe(fn func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.observers = append(p.observers, fn)
}

func (p *Pagination) notify() {
	p.mu.Lock()
	observers := append([]func(){}, p.observers...)
	p.mu.Unlock()
	for _, fn := range observers {
		fn()
	}
}
