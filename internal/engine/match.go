package engine

import (
	"github.com/google/uuid"

	"fenrir/internal/book"
	"fenrir/internal/common"
	"fenrir/internal/decimal"
)

// counterLevel returns the best level on the side opposite isBuy: asks for
// an incoming buy, bids for an incoming sell.
func counterLevel(b *book.Book, isBuy bool) (*book.Level, decimal.Decimal, bool) {
	if isBuy {
		return b.BestAsk()
	}
	return b.BestBid()
}

// matchMarket implements spec.md §4.5.2. Market orders never rest: the
// final status is Filled, Partial, or Cancelled (no liquidity at all).
func (e *Engine) matchMarket(b *book.Book, order *common.Order) {
	isBuy := order.IsBuy()

	for order.Remaining().IsPositive() {
		level, price, ok := counterLevel(b, isBuy)
		if !ok {
			break
		}
		maker, ok := level.Head()
		if !ok {
			break
		}
		fill := decimal.Min(order.Remaining(), maker.Remaining())
		if fill.IsZero() {
			// Defensive: a level head with zero residual should never occur
			// (book invariants keep heads positive), but evict it proactively
			// rather than looping forever — spec.md §9 treats this as
			// equivalent to stopping.
			b.Remove(maker.ID)
			continue
		}
		e.settleFill(b, order, maker, price, fill)
	}

	switch {
	case order.FilledAmount.Equal(order.Amount):
		order.Status = common.Filled
	case order.FilledAmount.IsPositive():
		order.Status = common.Partial
	default:
		order.Status = common.Cancelled
	}
	e.bus.PublishOrderUpdate(*order)
}

// matchLimit implements spec.md §4.5.3, including the price gate: a buy
// only crosses at ask <= limit price, a sell only at bid >= limit price.
// Execution is always at the maker's price.
func (e *Engine) matchLimit(b *book.Book, order *common.Order) {
	isBuy := order.IsBuy()

	for order.Remaining().IsPositive() {
		level, price, ok := counterLevel(b, isBuy)
		if !ok {
			break
		}
		if isBuy && price.GreaterThan(order.Price) {
			break
		}
		if !isBuy && price.LessThan(order.Price) {
			break
		}
		maker, ok := level.Head()
		if !ok {
			break
		}
		fill := decimal.Min(order.Remaining(), maker.Remaining())
		if fill.IsZero() {
			b.Remove(maker.ID)
			continue
		}
		e.settleFill(b, order, maker, price, fill)
	}

	if order.FilledAmount.Equal(order.Amount) {
		order.Status = common.Filled
	} else {
		if order.FilledAmount.IsPositive() {
			order.Status = common.Partial
		}
		if err := b.AddResting(order); err != nil {
			e.log.Error().Err(err).Str("order_id", order.ID).Str("pair", order.Pair).
				Msg("failed to rest order after matching")
			order.Status = common.Cancelled
		}
	}
	e.bus.PublishOrderUpdate(*order)
}

// settleFill executes one fill between the incoming taker and the resting
// maker at price, for amount fill. Per spec.md §4.5.4, the trade is emitted
// after the maker's book state is updated and before the loop continues;
// order-updates for both parties follow.
func (e *Engine) settleFill(b *book.Book, taker, maker *common.Order, price, fill decimal.Decimal) {
	taker.FilledAmount = taker.FilledAmount.Add(fill)
	b.ApplyFill(maker.ID, fill)

	trade := e.createTrade(b.Pair(), price, fill, taker, maker)
	e.bus.PublishTrade(trade)
	e.trades.Add(1)

	e.bus.PublishOrderUpdate(*taker)
	e.bus.PublishOrderUpdate(*maker)
}

// createTrade builds the trade record for one maker/taker fill, per
// spec.md §4.5.4: price is the maker's, taker_side is the incoming order's
// side, and fees are charged on volume at each side's configured rate.
func (e *Engine) createTrade(pair string, price, amount decimal.Decimal, taker, maker *common.Order) common.Trade {
	volume := price.Mul(amount)
	makerRate, takerRate := e.feeRates()

	buyID, sellID := maker.ID, taker.ID
	if taker.IsBuy() {
		buyID, sellID = taker.ID, maker.ID
	}

	return common.Trade{
		ID:          uuid.New().String(),
		Pair:        pair,
		Price:       price,
		Amount:      amount,
		Volume:      volume,
		Timestamp:   e.nowMs(),
		TakerSide:   taker.Side,
		BuyOrderID:  buyID,
		SellOrderID: sellID,
		MakerFee:    volume.Mul(makerRate),
		TakerFee:    volume.Mul(takerRate),
	}
}
