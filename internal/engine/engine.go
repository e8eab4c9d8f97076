// Package engine implements the matching engine: per-pair admission,
// market and limit execution, fee attribution, cancellation, and the
// read views spec.md §4.5 describes. It is the generalization of the
// teacher's internal/engine package (Engine, OrderBook, PlaceOrder/Trade)
// from a fixed AssetType enumeration and float64 prices to spec.md's
// open pair namespace and exact decimal arithmetic.
package engine

import (
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"fenrir/internal/book"
	"fenrir/internal/common"
	"fenrir/internal/decimal"
	"fenrir/internal/eventbus"
	"fenrir/internal/recycler"
)

// Engine is the top-level matching engine. One Engine serves every pair it
// is asked about; per-pair state lives in its registry (spec.md §4.5:
// "Holds a map from pair to order book, created lazily on first use").
//
// Per spec.md §5, "exactly one submit or cancel is in progress for a given
// pair at any moment" — callers are free to submit concurrently from any
// number of goroutines, for any mix of pairs, without sharding them
// themselves: Submit and Cancel each hold registry's per-pair lock
// (registry.pairLock) across their entire admission/matching/resting
// sequence, so two submissions for the same pair always run one after the
// other, and submissions for different pairs run fully in parallel.
type Engine struct {
	cfg Config
	log zerolog.Logger
	bus *eventbus.Bus

	reg    *registry
	rate   *rateWindow
	orders *recycler.Recycler[*common.Order]

	admitted atomic.Int64
	trades   atomic.Int64
}

// New constructs an Engine. log may be the zero zerolog.Logger (writes
// nowhere). New does not accept an event bus from the caller: it always
// creates the engine's own, and handlers are registered on it through Bus().
func New(cfg Config, log zerolog.Logger) *Engine {
	if cfg.MaxOrdersPerSecond <= 0 {
		cfg.MaxOrdersPerSecond = DefaultMaxOrdersPerSecond
	}
	e := &Engine{
		cfg:  cfg,
		log:  log,
		bus:  eventbus.New(log),
		reg:  newRegistry(),
		rate: newRateWindow(cfg.MaxOrdersPerSecond),
	}
	if cfg.RecyclerCapacity > 0 {
		e.orders = recycler.New(cfg.RecyclerCapacity, func() *common.Order { return &common.Order{} })
	}
	return e
}

// Bus returns the engine's event bus, for handler registration
// (spec.md §6: "Event bus registration: on(event_kind, handler)").
func (e *Engine) Bus() *eventbus.Bus { return e.bus }

// NewOrder acquires an order record, drawing from the recycler if one is
// configured. Callers that build common.Order literals directly don't need
// this; it exists so high-rate submitters can opt into recycling.
func (e *Engine) NewOrder() *common.Order {
	if e.orders != nil {
		return e.orders.Acquire()
	}
	return &common.Order{}
}

// Release returns order to the recycler once it is terminal and the caller
// holds no further reference to it (spec.md §4.7). A no-op if recycling is
// disabled.
func (e *Engine) Release(order *common.Order) {
	if e.orders != nil && order.IsTerminal() {
		e.orders.Release(order)
	}
}

func (e *Engine) nowMs() int64 { return time.Now().UnixMilli() }

// Submit admits, matches, and (for limit orders with remainder) rests
// order. It never returns an error: every rejection is surfaced as
// order.Status == Cancelled plus an order-update event (spec.md §4.5.1,
// §7).
func (e *Engine) Submit(order *common.Order) {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	if order.Timestamp == 0 {
		order.Timestamp = e.nowMs()
	}

	lock := e.reg.pairLock(order.Pair)
	lock.Lock()
	defer lock.Unlock()

	if err := e.admit(order); err != nil {
		order.Status = common.Cancelled
		e.log.Warn().Err(err).Str("order_id", order.ID).Str("pair", order.Pair).Msg("order rejected at admission")
		e.bus.PublishOrderUpdate(*order)
		return
	}
	e.admitted.Add(1)
	order.Status = common.Pending

	b := e.reg.getOrCreate(order.Pair)
	switch order.Type {
	case common.MarketOrder:
		e.matchMarket(b, order)
	case common.LimitOrder:
		e.matchLimit(b, order)
	}
}

// admit applies spec.md §4.5.1's admission checks in order.
func (e *Engine) admit(order *common.Order) error {
	if !e.rate.admit(e.nowMs()) {
		return ErrRateLimited
	}
	if !order.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if order.Type == common.LimitOrder && !order.Price.IsPositive() {
		return ErrInvalidLimitPrice
	}
	return nil
}

// Cancel removes order_id from pair's book, marks it Cancelled, and emits
// order-cancelled. Returns whether a resting order was found (spec.md
// §4.5.5, §7: UnknownOrder emits nothing and returns false).
func (e *Engine) Cancel(orderID, pair string) bool {
	lock := e.reg.pairLock(pair)
	lock.Lock()
	defer lock.Unlock()

	b, ok := e.reg.get(pair)
	if !ok {
		return false
	}
	order, ok := b.Remove(orderID)
	if !ok {
		return false
	}
	order.Status = common.Cancelled
	e.bus.PublishOrderCancelled(*order)
	return true
}

// MarketDepth returns a snapshot of pair's book, creating the book (empty)
// if this is the first time pair has been mentioned (spec.md §4.5.7).
func (e *Engine) MarketDepth(pair string, maxLevels int) book.Depth {
	return e.reg.getOrCreate(pair).Depth(maxLevels)
}

// OrderBookStats returns pair's aggregate stats view, creating the book if
// absent.
func (e *Engine) OrderBookStats(pair string) book.Stats {
	return e.reg.getOrCreate(pair).Stats()
}

// SupportedPairs lists every pair with a book (spec.md §4.5.7).
func (e *Engine) SupportedPairs() []string {
	return e.reg.pairs()
}

// Stats returns engine-wide totals (spec.md §4.5.7).
func (e *Engine) Stats() Stats {
	s := Stats{
		OrdersAdmitted: e.admitted.Load(),
		TradesEmitted:  e.trades.Load(),
		RecentRate:     e.rate.Recent(),
	}
	if e.cfg.CollectMemoryStats {
		s.HeapAllocBytes, s.HasMemoryStats = readHeapAlloc(), true
	}
	return s
}

func (e *Engine) feeRates() (maker, taker decimal.Decimal) {
	return e.cfg.MakerFeeRate, e.cfg.TakerFeeRate
}
