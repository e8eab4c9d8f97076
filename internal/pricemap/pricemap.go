// Package pricemap implements the ordered price -> price-level mapping
// spec.md §4.2 calls for: O(log P) insert/remove/find, O(log P) first/last,
// and in-order/reverse iteration over a user-supplied total order.
//
// It is grounded on the teacher's internal/engine/orderbook.go, which keys
// its bid and ask sides on github.com/tidwall/btree.BTreeG[*PriceLevel] with
// a price comparator; this package generalizes that into a reusable,
// side-agnostic ordered map so internal/book can build both the bid side
// (descending) and ask side (ascending) from the same type.
package pricemap

import (
	"github.com/tidwall/btree"

	"fenrir/internal/decimal"
)

// Entry pairs a price with the value stored at that price level.
type Entry[V any] struct {
	Price decimal.Decimal
	Value V
}

// Map is an ordered mapping from decimal.Decimal price to a value V,
// ordered by a comparator fixed at construction time.
type Map[V any] struct {
	tree *btree.BTreeG[Entry[V]]
}

func newMap[V any](less func(a, b decimal.Decimal) bool) *Map[V] {
	return &Map[V]{
		tree: btree.NewBTreeG(func(a, b Entry[V]) bool {
			return less(a.Price, b.Price)
		}),
	}
}

// NewAscending builds a map that iterates and extracts lowest-price-first,
// the ordering spec.md requires for the ask side.
func NewAscending[V any]() *Map[V] {
	return newMap[V](func(a, b decimal.Decimal) bool { return a.LessThan(b) })
}

// NewDescending builds a map that iterates and extracts highest-price-first,
// the ordering spec.md requires for the bid side.
func NewDescending[V any]() *Map[V] {
	return newMap[V](func(a, b decimal.Decimal) bool { return a.GreaterThan(b) })
}

// Len returns the number of price levels currently held.
func (m *Map[V]) Len() int {
	return m.tree.Len()
}

// Insert places value at price, overwriting any existing entry at that
// exact price.
func (m *Map[V]) Insert(price decimal.Decimal, value V) {
	m.tree.Set(Entry[V]{Price: price, Value: value})
}

// Remove deletes the entry at price, if any, and returns its value.
func (m *Map[V]) Remove(price decimal.Decimal) (V, bool) {
	entry, ok := m.tree.Delete(Entry[V]{Price: price})
	return entry.Value, ok
}

// Find looks up the value at price without mutating the map.
func (m *Map[V]) Find(price decimal.Decimal) (V, bool) {
	entry, ok := m.tree.Get(Entry[V]{Price: price})
	return entry.Value, ok
}

// First returns the extremal entry per the map's comparator (best price):
// the highest bid or the lowest ask.
func (m *Map[V]) First() (Entry[V], bool) {
	return m.tree.Min()
}

// Last returns the entry furthest from best price.
func (m *Map[V]) Last() (Entry[V], bool) {
	return m.tree.Max()
}

// IterForward yields entries in comparator order (best price first),
// stopping early if fn returns false. The callback must not mutate m.
func (m *Map[V]) IterForward(fn func(Entry[V]) bool) {
	m.tree.Scan(fn)
}

// IterReverse yields entries in the reverse of comparator order (worst
// price first). The callback must not mutate m.
func (m *Map[V]) IterReverse(fn func(Entry[V]) bool) {
	m.tree.Reverse(fn)
}

// Items materializes every entry in comparator order. Intended for tests
// and snapshotting (e.g. depth views); avoid on hot paths.
func (m *Map[V]) Items() []Entry[V] {
	items := make([]Entry[V], 0, m.tree.Len())
	m.IterForward(func(e Entry[V]) bool {
		items = append(items, e)
		return true
	})
	return items
}
