package client

import (
	"maps"
	"sync"
)

// Query is the URL query the client navigates with
type Query map[string]string

// Router owns the current query. Push adds a history entry, Replace does not.
type Router interface {
	Query() Query
	Push(q Query)
	Replace(q Query)
	Subscribe(fn func(Query))
}

// MemoryRouter is an in-process Router. Observers only run when the query
// actually changes, so a replace with the same query is a no-op.
type MemoryRouter struct {
	mu        sync.Mutex
	query     Query
	history   []Query
	observers []func(Query)
}

func NewMemoryRouter(initial Query) *MemoryRouter {
	q := Query{}
	maps.Copy(q, initial)
	return &MemoryRouter{query: q}
}

func (r *MemoryRouter) Query() Query {
	r.mu.Lock()
	defer r.mu.Unlock()
	return maps.Clone(r.query)
}

// History returns the queries that were pushed over, oldest first
func (r *MemoryRouter) History() []Query {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Query, 0, len(r.history))
	for _, q := range r.history {
		out = append(out, maps.Clone(q))
	}
	return out
}

func (r *MemoryRouter) Push(q Query) {
	r.navigate(q, true)
}

func (r *MemoryRouter) Replace(q Query) {
	r.navigate(q, false)
}

func (r *MemoryRouter) Subscribe(fn func(Query)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.observers = append(r.observers, fn)
}

func (r *MemoryRouter) navigate(q Query, push bool) {
	next := Query{}
	maps.Copy(next, q)

	r.mu.Lock()
	if maps.Equal(r.query, next) {
		r.mu.Unlock()
		return
	}
	if push {
		r.history = append(r.history, r.query)
	}
	r.query = next
	observers := append([]func(Query){}, r.observers...)
	r.mu.Unlock()

	for _, fn := range observers {
		fn(maps.Clone(next))
	}
}
