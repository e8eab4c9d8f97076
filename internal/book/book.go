package book

import (
	"errors"
	"sync"
	"time"

	"fenrir/internal/common"
	"fenrir/internal/decimal"
	"fenrir/internal/pricemap"
)

// ErrDuplicateID is returned by AddResting when an order with the same id
// is already resting in the book (spec.md §4.4: "Fails with DuplicateId
// otherwise").
var ErrDuplicateID = errors.New("book: duplicate order id")

// ErrNotRestable is returned by AddResting for market orders or orders with
// no remaining quantity; spec.md §4.4 requires order.type == limit and
// remaining > 0.
var ErrNotRestable = errors.New("book: order is not restable")

// DepthLevel is one row of a market depth snapshot: a price, the aggregate
// resting amount at that price, the cumulative total from the top of the
// side, and the ids of the orders making up that amount (spec.md §6).
type DepthLevel struct {
	Price    decimal.Decimal
	Amount   decimal.Decimal
	Total    decimal.Decimal
	OrderIDs []string
}

// Depth is a point-in-time snapshot of a pair's book; mutating the Book
// afterwards does not affect an already-returned Depth (spec.md §4.4: "the
// caller must not mutate the book while iterating" — satisfied here by
// copying into a fresh slice rather than handing out live level pointers).
type Depth struct {
	Pair           string
	Bids           []DepthLevel
	Asks           []DepthLevel
	LastUpdateTime int64
}

// Stats is the aggregate read view spec.md §4.5.7 calls order_book_stats.
type Stats struct {
	BestBid    decimal.Decimal
	HasBestBid bool
	BestAsk    decimal.Decimal
	HasBestAsk bool
	Spread     decimal.Decimal
	HasSpread  bool
	BidVolume  decimal.Decimal
	AskVolume  decimal.Decimal
	OrderCount int
}

// Book is the per-pair aggregate described by spec.md §4.4: two ordered
// price maps (bids descending, asks ascending), a by-id index for O(1)
// lookups, and a last-update timestamp advanced by every mutation.
//
// Grounded on the teacher's internal/engine/orderbook.go OrderBook, which
// held exactly this shape (two btree.BTreeG[*PriceLevel] sides) but without
// an id index or stats/depth views; those are generalized in here from
// spec.md §4.4/§4.5.7 rather than the teacher, which had none.
type Book struct {
	mu   sync.RWMutex
	pair string

	bids *pricemap.Map[*Level]
	asks *pricemap.Map[*Level]

	index map[string]*common.Order

	lastUpdate int64
	now        func() int64
}

// New creates an empty order book for pair.
func New(pair string) *Book {
	return &Book{
		pair:  pair,
		bids:  pricemap.NewDescending[*Level](),
		asks:  pricemap.NewAscending[*Level](),
		index: make(map[string]*common.Order),
		now:   func() int64 { return time.Now().UnixMilli() },
	}
}

// Pair returns the symbol this book serves.
func (b *Book) Pair() string { return b.pair }

func (b *Book) sideMap(side common.Side) *pricemap.Map[*Level] {
	if side == common.Buy {
		return b.bids
	}
	return b.asks
}

func (b *Book) touch() {
	b.lastUpdate = b.now()
}

// LastUpdateTime returns the ms-epoch timestamp of the most recent mutation.
func (b *Book) LastUpdateTime() int64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lastUpdate
}

// AddResting inserts order into the side-appropriate level (creating the
// level if absent), registers it in the by-id index, and advances
// last_update_time. Requires order.Type == LimitOrder, a positive
// remaining amount, and no existing entry under the same id.
func (b *Book) AddResting(o *common.Order) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if o.Type != common.LimitOrder || !o.Remaining().IsPositive() {
		return ErrNotRestable
	}
	if _, exists := b.index[o.ID]; exists {
		return ErrDuplicateID
	}

	levels := b.sideMap(o.Side)
	level, ok := levels.Find(o.Price)
	if !ok {
		level = &Level{}
		levels.Insert(o.Price, level)
	}
	level.Append(o)
	b.index[o.ID] = o
	b.touch()
	return nil
}

// Remove deletes order_id from its level and the by-id index, dropping the
// level if it becomes empty. Returns the order (status left unchanged by
// Remove itself — callers set Status) or (nil, false) if absent.
func (b *Book) Remove(orderID string) (*common.Order, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.removeLocked(orderID)
}

func (b *Book) removeLocked(orderID string) (*common.Order, bool) {
	o, ok := b.index[orderID]
	if !ok {
		return nil, false
	}
	levels := b.sideMap(o.Side)
	if level, ok := levels.Find(o.Price); ok {
		level.RemoveByID(orderID)
		if level.Empty() {
			levels.Remove(o.Price)
		}
	}
	delete(b.index, orderID)
	b.touch()
	return o, true
}

// ApplyFill applies fill to the resting order identified by orderID, which
// must be the current head of its price level (matching always fills the
// level head first). It adjusts the level's cached aggregate by fill, sets
// filled_amount, and — if the order is now fully filled — removes it from
// the level and the by-id index and marks it Filled; otherwise marks it
// Partial. Returns whether the order was found at all.
func (b *Book) ApplyFill(orderID string, fill decimal.Decimal) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	o, ok := b.index[orderID]
	if !ok {
		return false
	}
	levels := b.sideMap(o.Side)
	level, ok := levels.Find(o.Price)
	if !ok {
		return false
	}
	if _, completed := level.ApplyFill(fill); completed {
		delete(b.index, orderID)
	}
	if level.Empty() {
		levels.Remove(o.Price)
	}
	b.touch()
	return true
}

// BestBid returns the head level of the bid side and its price, or
// (nil, decimal.Zero, false) if empty.
func (b *Book) BestBid() (*Level, decimal.Decimal, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	entry, ok := b.bids.First()
	if !ok {
		return nil, decimal.Zero, false
	}
	return entry.Value, entry.Price, true
}

// BestAsk returns the head level of the ask side and its price, or
// (nil, decimal.Zero, false) if empty.
func (b *Book) BestAsk() (*Level, decimal.Decimal, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	entry, ok := b.asks.First()
	if !ok {
		return nil, decimal.Zero, false
	}
	return entry.Value, entry.Price, true
}

// Spread returns best_ask.price - best_bid.price, or !ok if either side is
// empty.
func (b *Book) Spread() (decimal.Decimal, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.spreadLocked()
}

func (b *Book) spreadLocked() (decimal.Decimal, bool) {
	bid, ok := b.bids.First()
	if !ok {
		return decimal.Zero, false
	}
	ask, ok := b.asks.First()
	if !ok {
		return decimal.Zero, false
	}
	return ask.Price.Sub(bid.Price), true
}

// Volume sums the aggregate resting amount across every level on side.
func (b *Book) Volume(side common.Side) decimal.Decimal {
	b.mu.RLock()
	defer b.mu.RUnlock()
	total := decimal.Zero
	b.sideMap(side).IterForward(func(e pricemap.Entry[*Level]) bool {
		total = total.Add(e.Value.Amount())
		return true
	})
	return total
}

// OrderCount returns the number of resting orders indexed by this book.
func (b *Book) OrderCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.index)
}

// Stats returns the aggregate read view spec.md §4.5.7 describes.
func (b *Book) Stats() Stats {
	b.mu.RLock()
	defer b.mu.RUnlock()

	s := Stats{
		BidVolume:  decimal.Zero,
		AskVolume:  decimal.Zero,
		OrderCount: len(b.index),
	}
	if entry, ok := b.bids.First(); ok {
		s.BestBid, s.HasBestBid = entry.Price, true
	}
	if entry, ok := b.asks.First(); ok {
		s.BestAsk, s.HasBestAsk = entry.Price, true
	}
	if spread, ok := b.spreadLocked(); ok {
		s.Spread, s.HasSpread = spread, true
	}
	b.bids.IterForward(func(e pricemap.Entry[*Level]) bool {
		s.BidVolume = s.BidVolume.Add(e.Value.Amount())
		return true
	})
	b.asks.IterForward(func(e pricemap.Entry[*Level]) bool {
		s.AskVolume = s.AskVolume.Add(e.Value.Amount())
		return true
	})
	return s
}

// Depth returns up to maxLevels rows from the top of each side, with Total
// cumulative from the top (spec.md §4.4, §8 property 6: "total[0] ==
// amount[0]" and non-decreasing thereafter).
func (b *Book) Depth(maxLevels int) Depth {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return Depth{
		Pair:           b.pair,
		Bids:           snapshotSide(b.bids, maxLevels),
		Asks:           snapshotSide(b.asks, maxLevels),
		LastUpdateTime: b.lastUpdate,
	}
}

func snapshotSide(m *pricemap.Map[*Level], maxLevels int) []DepthLevel {
	if maxLevels <= 0 {
		return nil
	}
	out := make([]DepthLevel, 0, maxLevels)
	running := decimal.Zero
	m.IterForward(func(e pricemap.Entry[*Level]) bool {
		running = running.Add(e.Value.Amount())
		ids := make([]string, 0, e.Value.Len())
		for _, o := range e.Value.orders {
			ids = append(ids, o.ID)
		}
		out = append(out, DepthLevel{
			Price:    e.Price,
			Amount:   e.Value.Amount(),
			Total:    running,
			OrderIDs: ids,
		})
		return len(out) < maxLevels
	})
	return out
}
