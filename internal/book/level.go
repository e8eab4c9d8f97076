// Package book implements the per-pair order book: ordered price levels on
// each side, a by-id index, and the depth/stats read views spec.md §4.3 and
// §4.4 describe. It generalizes the teacher's internal/engine/orderbook.go
// (which inlined a []*Order FIFO per btree node) into a standalone Level
// type and a Book that owns two pricemap.Map sides plus the index.
package book

import (
	"fenrir/internal/common"
	"fenrir/internal/decimal"
)

// Level is a FIFO queue of resting orders at a single price, plus the
// cached aggregate unfilled amount spec.md §4.3 requires so the book can
// report level/side volume without rescanning orders.
type Level struct {
	orders []*common.Order
	amount decimal.Decimal
}

// Amount returns the level's cached aggregate unfilled amount.
func (l *Level) Amount() decimal.Decimal { return l.amount }

// Len returns the number of resting orders at this level.
func (l *Level) Len() int { return len(l.orders) }

// Empty reports whether the level's queue has drained. The owning Book
// removes a level from its price map once Empty returns true.
func (l *Level) Empty() bool { return len(l.orders) == 0 }

// Append enqueues order at the tail of the FIFO queue and adds its
// remaining amount to the cached aggregate.
func (l *Level) Append(o *common.Order) {
	l.orders = append(l.orders, o)
	l.amount = l.amount.Add(o.Remaining())
}

// Head peeks the front of the queue (earliest-arrived order) without
// removing it.
func (l *Level) Head() (*common.Order, bool) {
	if len(l.orders) == 0 {
		return nil, false
	}
	return l.orders[0], true
}

// PopHead dequeues the front order. The caller is responsible for updating
// the cached amount (ApplyFill does this atomically with the fill).
func (l *Level) PopHead() (*common.Order, bool) {
	if len(l.orders) == 0 {
		return nil, false
	}
	o := l.orders[0]
	l.orders[0] = nil
	l.orders = l.orders[1:]
	return o, true
}

// RemoveByID removes order with the given id from the queue in O(N_level),
// acceptable per spec.md §4.3 because per-level depth is small. It adjusts
// the cached aggregate by the removed order's remaining amount.
func (l *Level) RemoveByID(id string) (*common.Order, bool) {
	for i, o := range l.orders {
		if o.ID == id {
			l.amount = l.amount.Sub(o.Remaining())
			l.orders = append(l.orders[:i], l.orders[i+1:]...)
			return o, true
		}
	}
	return nil, false
}

// ApplyFill records fill against order (order.FilledAmount += fill) and
// subtracts fill from the level's cached aggregate. If the order is now
// fully filled, it is popped from the head of the queue (it is always the
// head: matching always fills the resting order at the front first) and
// marked Filled; otherwise it is marked Partial. Returns the order removed
// from the queue, if the fill completed it.
func (l *Level) ApplyFill(fill decimal.Decimal) (*common.Order, bool) {
	head, ok := l.Head()
	if !ok {
		return nil, false
	}
	head.FilledAmount = head.FilledAmount.Add(fill)
	l.amount = l.amount.Sub(fill)
	if head.Remaining().IsZero() {
		head.Status = common.Filled
		_, _ = l.PopHead()
		return head, true
	}
	head.Status = common.Partial
	return nil, false
}
