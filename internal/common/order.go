// Package common holds the domain types shared across the matching engine,
// its order book, and its transport collaborators — the Order and Trade
// records, and the small enums that classify them. It is adapted from the
// teacher's internal/common package of the same name, generalized from a
// single-asset-type/ticker split to spec.md's single "pair" symbol and from
// float64/uint64 quantities to exact decimal.Decimal.
package common

import (
	"fmt"

	"fenrir/internal/decimal"
)

// Side is the direction of an order.
type Side int

const (
	Buy Side = iota
	Sell
)

func (s Side) String() string {
	if s == Sell {
		return "sell"
	}
	return "buy"
}

// OrderType distinguishes market orders (execute immediately, never rest)
// from limit orders (rest on the book once any crossing remainder is
// matched).
type OrderType int

const (
	LimitOrder OrderType = iota
	MarketOrder
)

func (t OrderType) String() string {
	if t == MarketOrder {
		return "market"
	}
	return "limit"
}

// Status is an order's position in the state machine described by
// spec.md §4.5.6.
type Status int

const (
	// Pending is admitted but not yet touched by matching.
	Pending Status = iota
	// Partial has 0 < filled_amount < amount.
	Partial
	// Filled has filled_amount == amount. Terminal.
	Filled
	// Cancelled is terminal and never rests.
	Cancelled
)

func (s Status) String() string {
	switch s {
	case Pending:
		return "pending"
	case Partial:
		return "partial"
	case Filled:
		return "filled"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Order is owned by the engine from submission until it reaches a terminal
// status. Every field mirrors spec.md §3's data model for "Order".
type Order struct {
	ID            string          // opaque unique identifier
	Pair          string          // interned symbol, e.g. BTC-USDT
	Side          Side            // buy | sell
	Type          OrderType       // market | limit
	Price         decimal.Decimal // > 0 for limit, ignored for market
	Amount        decimal.Decimal // total quantity in base units, > 0
	FilledAmount  decimal.Decimal // monotonically non-decreasing, 0 <= filled <= amount
	Status        Status
	Timestamp     int64 // creation time, ms epoch; not read by matching (order within a price level is queue append order)
	UserID        string
}

// Remaining returns amount - filled_amount.
func (o *Order) Remaining() decimal.Decimal {
	return o.Amount.Sub(o.FilledAmount)
}

// IsBuy reports whether the order is on the buy side.
func (o *Order) IsBuy() bool { return o.Side == Buy }

// IsTerminal reports whether the order can never be touched by matching
// again (spec.md §3 invariant: terminal orders are never in any queue/index).
func (o *Order) IsTerminal() bool {
	return o.Status == Filled || o.Status == Cancelled
}

// Reset clears every field, letting a recycled *Order be reused for an
// unrelated submission (internal/recycler.Order).
func (o *Order) Reset() {
	*o = Order{}
}

func (o Order) String() string {
	return fmt.Sprintf(
		"Order{ID: %s, Pair: %s, Side: %s, Type: %s, Price: %s, Amount: %s, Filled: %s, Status: %s, Owner: %s}",
		o.ID, o.Pair, o.Side, o.Type, o.Price, o.Amount, o.FilledAmount, o.Status, o.UserID,
	)
}
