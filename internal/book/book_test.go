package book

import (
	"testing"

	"fenrir/internal/common"
	"fenrir/internal/decimal"
)

func limitOrder(id string, side common.Side, price, amount string) *common.Order {
	return &common.Order{
		ID:     id,
		Pair:   "BTC-USDT",
		Side:   side,
		Type:   common.LimitOrder,
		Price:  decimal.MustParse(price),
		Amount: decimal.MustParse(amount),
		Status: common.Pending,
	}
}

func TestAddRestingAndBestPrices(t *testing.T) {
	b := New("BTC-USDT")

	if err := b.AddResting(limitOrder("bid1", common.Buy, "99", "1")); err != nil {
		t.Fatalf("AddResting: %v", err)
	}
	if err := b.AddResting(limitOrder("ask1", common.Sell, "100", "1")); err != nil {
		t.Fatalf("AddResting: %v", err)
	}

	_, bidPrice, ok := b.BestBid()
	if !ok || bidPrice.String() != "99" {
		t.Fatalf("BestBid = %v, %v", bidPrice, ok)
	}
	_, askPrice, ok := b.BestAsk()
	if !ok || askPrice.String() != "100" {
		t.Fatalf("BestAsk = %v, %v", askPrice, ok)
	}

	spread, ok := b.Spread()
	if !ok || spread.String() != "1" {
		t.Fatalf("Spread = %v, %v", spread, ok)
	}
}

func TestAddRestingRejectsDuplicateID(t *testing.T) {
	b := New("BTC-USDT")
	o := limitOrder("dup", common.Buy, "99", "1")
	if err := b.AddResting(o); err != nil {
		t.Fatalf("first AddResting: %v", err)
	}
	if err := b.AddResting(limitOrder("dup", common.Buy, "98", "1")); err != ErrDuplicateID {
		t.Fatalf("second AddResting err = %v, want ErrDuplicateID", err)
	}
}

func TestAddRestingRejectsMarketOrZero(t *testing.T) {
	b := New("BTC-USDT")
	market := limitOrder("m1", common.Buy, "99", "1")
	market.Type = common.MarketOrder
	if err := b.AddResting(market); err != ErrNotRestable {
		t.Errorf("market order err = %v, want ErrNotRestable", err)
	}

	zero := limitOrder("z1", common.Buy, "99", "1")
	zero.FilledAmount = zero.Amount
	if err := b.AddResting(zero); err != ErrNotRestable {
		t.Errorf("zero-remaining order err = %v, want ErrNotRestable", err)
	}
}

func TestRemoveDropsEmptyLevelAndIndex(t *testing.T) {
	b := New("BTC-USDT")
	b.AddResting(limitOrder("a", common.Buy, "99", "1"))

	removed, ok := b.Remove("a")
	if !ok || removed.ID != "a" {
		t.Fatalf("Remove = %+v, %v", removed, ok)
	}
	if _, _, ok := b.BestBid(); ok {
		t.Error("BestBid should be absent after removing the only bid")
	}
	if b.OrderCount() != 0 {
		t.Errorf("OrderCount = %d, want 0", b.OrderCount())
	}

	if _, ok := b.Remove("a"); ok {
		t.Error("Remove on already-removed id should report false (idempotence)")
	}
}

func TestApplyFillPartialThenComplete(t *testing.T) {
	b := New("BTC-USDT")
	b.AddResting(limitOrder("maker", common.Sell, "100", "1"))

	if !b.ApplyFill("maker", decimal.MustParse("0.4")) {
		t.Fatal("ApplyFill should find maker")
	}
	if got := b.Volume(common.Sell).String(); got != "0.6" {
		t.Errorf("ask volume = %s, want 0.6", got)
	}
	if b.OrderCount() != 1 {
		t.Errorf("OrderCount = %d, want 1 (still resting, partial)", b.OrderCount())
	}

	if !b.ApplyFill("maker", decimal.MustParse("0.6")) {
		t.Fatal("ApplyFill should find maker")
	}
	if b.OrderCount() != 0 {
		t.Errorf("OrderCount = %d, want 0 (fully filled, removed)", b.OrderCount())
	}
	if _, _, ok := b.BestAsk(); ok {
		t.Error("BestAsk should be absent once the only ask is fully filled")
	}
}

func TestDepthMonotoneCumulativeTotal(t *testing.T) {
	b := New("BTC-USDT")
	b.AddResting(limitOrder("a1", common.Sell, "100", "0.5"))
	b.AddResting(limitOrder("a2", common.Sell, "101", "1.0"))
	b.AddResting(limitOrder("a3", common.Sell, "102", "1.5"))

	depth := b.Depth(10)
	if len(depth.Asks) != 3 {
		t.Fatalf("len(Asks) = %d, want 3", len(depth.Asks))
	}
	if depth.Asks[0].Total.String() != depth.Asks[0].Amount.String() {
		t.Errorf("total[0] = %s, want amount[0] = %s", depth.Asks[0].Total, depth.Asks[0].Amount)
	}
	prev := decimal.Zero
	for i, lvl := range depth.Asks {
		if lvl.Total.LessThan(prev) {
			t.Errorf("Asks[%d].Total = %s is less than previous %s", i, lvl.Total, prev)
		}
		prev = lvl.Total
	}
	if depth.Asks[2].Total.String() != "3" {
		t.Errorf("cumulative total = %s, want 3", depth.Asks[2].Total)
	}
}

func TestDepthRespectsMaxLevels(t *testing.T) {
	b := New("BTC-USDT")
	b.AddResting(limitOrder("a1", common.Sell, "100", "1"))
	b.AddResting(limitOrder("a2", common.Sell, "101", "1"))

	depth := b.Depth(1)
	if len(depth.Asks) != 1 {
		t.Fatalf("len(Asks) = %d, want 1", len(depth.Asks))
	}
	if depth.Asks[0].Price.String() != "100" {
		t.Errorf("Asks[0].Price = %s, want 100 (best first)", depth.Asks[0].Price)
	}
}

func TestRoundTripAddRemoveRestoresBook(t *testing.T) {
	b := New("BTC-USDT")
	b.AddResting(limitOrder("x", common.Buy, "99", "1"))
	before := b.Depth(10)

	second := limitOrder("y", common.Buy, "98", "1")
	b.AddResting(second)
	b.Remove("y")

	after := b.Depth(10)
	if len(before.Bids) != len(after.Bids) {
		t.Fatalf("bid levels differ: %d vs %d", len(before.Bids), len(after.Bids))
	}
	for i := range before.Bids {
		if before.Bids[i].Price.String() != after.Bids[i].Price.String() {
			t.Errorf("level %d price drifted: %s vs %s", i, before.Bids[i].Price, after.Bids[i].Price)
		}
	}
}
