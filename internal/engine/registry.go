package engine

import (
	"sync"

	"fenrir/internal/book"
)

// registry holds one book.Book per pair, created lazily on first use.
// Creation is atomic relative to any Submit/Cancel on that pair: the first
// caller to need a missing pair's book takes the write lock and is the only
// one to construct it (spec.md §9: "ensure the creation path is atomic
// relative to submit/cancel on that pair").
//
// Grounded on the teacher's Engine.Books map[AssetType]OrderBook
// (internal/engine/engine.go), generalized from a fixed, constructor-time
// AssetType enumeration to an open set of pair strings populated on demand,
// and from an unguarded map to one protected by sync.RWMutex — matching the
// guarding style of the teacher's clientSessionsLock in internal/net/server.go.
type registry struct {
	mu    sync.RWMutex
	books map[string]*book.Book

	lockMu sync.Mutex
	locks  map[string]*sync.Mutex
}

func newRegistry() *registry {
	return &registry{
		books: make(map[string]*book.Book),
		locks: make(map[string]*sync.Mutex),
	}
}

// getOrCreate returns the book for pair, creating an empty one on first use.
func (r *registry) getOrCreate(pair string) *book.Book {
	r.mu.RLock()
	b, ok := r.books[pair]
	r.mu.RUnlock()
	if ok {
		return b
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if b, ok = r.books[pair]; ok {
		return b
	}
	b = book.New(pair)
	r.books[pair] = b
	return b
}

// get returns the book for pair without creating one.
func (r *registry) get(pair string) (*book.Book, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.books[pair]
	return b, ok
}

// pairLock returns the mutex a caller must hold for the full duration of a
// Submit or Cancel on pair, creating it lazily on first use under lockMu.
// Engine.Submit/Cancel hold this lock across admission, matching, and
// resting so that, per spec.md §5, "exactly one submit or cancel is in
// progress for a given pair at any moment" — the matching loop's
// BestBid/BestAsk/ApplyFill/AddResting calls each take book.Book's own
// mutex (Level.Head takes none), but without pairLock nothing stops two
// goroutines from interleaving those calls against each other and both
// consuming the same resting liquidity.
func (r *registry) pairLock(pair string) *sync.Mutex {
	r.lockMu.Lock()
	l, ok := r.locks[pair]
	if !ok {
		l = &sync.Mutex{}
		r.locks[pair] = l
	}
	r.lockMu.Unlock()
	return l
}

// pairs returns every pair with a book, in no particular order.
func (r *registry) pairs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.books))
	for pair := range r.books {
		out = append(out, pair)
	}
	return out
}
