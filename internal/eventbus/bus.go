// Package eventbus implements the typed, synchronous publish/subscribe
// channel the matching engine uses to announce trades, order updates, and
// cancellations (spec.md §4.6).
//
// spec.md's own design notes call out the source's "event emitter with
// dynamic listeners" as needing re-architecture: "reframed as a typed event
// bus with named kinds; implementations should use closed sum types or
// trait/interface-based dispatch, not stringly-typed signaling." This
// package does that with a closed Kind enum and per-kind handler slices,
// rather than accepting string event names. Delivery is synchronous and
// serialized with the emitting engine step, matching spec.md §5's ordering
// guarantee: a subscriber observes events in exactly the order the engine
// produced them.
package eventbus

import (
	"github.com/rs/zerolog"

	"fenrir/internal/common"
)

// Kind identifies one of the three event shapes the engine emits.
type Kind int

const (
	KindTrade Kind = iota
	KindOrderUpdate
	KindOrderCancelled
)

func (k Kind) String() string {
	switch k {
	case KindTrade:
		return "trade"
	case KindOrderUpdate:
		return "order-update"
	case KindOrderCancelled:
		return "order-cancelled"
	default:
		return "unknown"
	}
}

// TradeHandler receives an emitted trade.
type TradeHandler func(common.Trade)

// OrderHandler receives an order-update or order-cancelled event.
type OrderHandler func(common.Order)

// Bus is a typed, in-process, synchronous publish/subscribe channel. The
// zero value is not usable; construct with New.
//
// Bus does no locking. The On* registration calls are not safe to run
// concurrently with each other or with a Publish, so handlers are
// registered before publishing starts. Publish calls only read the handler
// slices and may run concurrently; per spec.md §5 the matching engine
// publishes for a pair only from the goroutine currently processing it.
type Bus struct {
	log zerolog.Logger

	trades  []TradeHandler
	updates []OrderHandler
	cancels []OrderHandler
}

// New builds a Bus that logs handler panics/errors through log instead of
// letting them escape into the engine (spec.md §4.6: "Handlers that
// panic/fail are logged and do not affect engine state.").
func New(log zerolog.Logger) *Bus {
	return &Bus{log: log}
}

// OnTrade registers a handler invoked for every emitted trade.
func (b *Bus) OnTrade(h TradeHandler) {
	b.trades = append(b.trades, h)
}

// OnOrderUpdate registers a handler invoked for every order-update
// (admission rejection, partial fill, full fill, or resting placement).
func (b *Bus) OnOrderUpdate(h OrderHandler) {
	b.updates = append(b.updates, h)
}

// OnOrderCancelled registers a handler invoked when cancel() removes a
// resting order.
func (b *Bus) OnOrderCancelled(h OrderHandler) {
	b.cancels = append(b.cancels, h)
}

// PublishTrade delivers trade to every trade handler, in registration order.
func (b *Bus) PublishTrade(trade common.Trade) {
	for _, h := range b.trades {
		b.guard(KindTrade, func() { h(trade) })
	}
}

// PublishOrderUpdate delivers order to every order-update handler.
func (b *Bus) PublishOrderUpdate(order common.Order) {
	for _, h := range b.updates {
		b.guard(KindOrderUpdate, func() { h(order) })
	}
}

// PublishOrderCancelled delivers order to every order-cancelled handler.
func (b *Bus) PublishOrderCancelled(order common.Order) {
	for _, h := range b.cancels {
		b.guard(KindOrderCancelled, func() { h(order) })
	}
}

// guard runs fn, recovering a panicking handler and logging it rather than
// letting it unwind into the matching loop.
func (b *Bus) guard(kind Kind, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error().
				Str("event", kind.String()).
				Interface("panic", r).
				Msg("event bus handler panicked")
		}
	}()
	fn()
}
