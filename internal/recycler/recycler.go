// Package recycler implements the optional object pool spec.md §4.7
// describes: a bounded free list of *common.Order records that dampens
// allocation churn at high order rates. No correctness property of the
// engine may depend on it — a Recycler and a plain `&common.Order{}` must
// be interchangeable from the matching engine's point of view.
//
// Grounded on the arena/free-list pattern in the zero-dependency QuantCup
// port (_examples/lightsgoout-go-quantcup/engine.go: a statically-sized
// bookEntries arena bumped by a monotonic index, sized to avoid heap
// allocation under load) adapted to a bounded, reusable Go slice-backed
// stack rather than a fixed arena, since spec.md requires release to be a
// no-op once full instead of growing unbounded.
package recycler

import "sync"

// Order is the subset of fields a pooled order owner needs to reset; it is
// satisfied by *common.Order without recycler importing common, avoiding an
// import cycle risk if common ever needs pooling primitives itself.
type Order interface {
	Reset()
}

// Recycler is a bounded free list of T. It is safe for concurrent use so a
// single Recycler may be shared across pairs (spec.md §5); per-pair
// recyclers may skip that sharing and still be correct.
type Recycler[T Order] struct {
	mu   sync.Mutex
	free []T
	max  int
	new  func() T
}

// New builds a Recycler whose free list holds at most maxFree entries.
// newFn constructs a fresh T when the free list is empty.
func New[T Order](maxFree int, newFn func() T) *Recycler[T] {
	return &Recycler[T]{
		free: make([]T, 0, maxFree),
		max:  maxFree,
		new:  newFn,
	}
}

// Acquire returns a T from the free list with all fields reset, or a
// freshly constructed T if the free list is empty.
func (r *Recycler[T]) Acquire() T {
	r.mu.Lock()
	n := len(r.free)
	if n == 0 {
		r.mu.Unlock()
		return r.new()
	}
	v := r.free[n-1]
	r.free = r.free[:n-1]
	r.mu.Unlock()
	v.Reset()
	return v
}

// Release returns v to the free list. It is a no-op if the free list is
// already at capacity — correctness never depends on a Release succeeding.
func (r *Recycler[T]) Release(v T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.free) >= r.max {
		return
	}
	r.free = append(r.free, v)
}

// Len reports how many entries currently sit in the free list.
func (r *Recycler[T]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.free)
}
