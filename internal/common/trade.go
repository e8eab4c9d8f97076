package common

import (
	"fmt"

	"fenrir/internal/decimal"
)

// Trade is immutable once emitted. Fields mirror spec.md §3's "Trade":
// it records which side took liquidity, the maker/taker fee split, and the
// exact volume struck.
type Trade struct {
	ID          string
	Pair        string
	Price       decimal.Decimal
	Amount      decimal.Decimal
	Volume      decimal.Decimal // price * amount, in quote units
	Timestamp   int64           // ms epoch
	TakerSide   Side
	BuyOrderID  string
	SellOrderID string
	MakerFee    decimal.Decimal // volume * maker_fee_rate
	TakerFee    decimal.Decimal // volume * taker_fee_rate
}

func (t Trade) String() string {
	return fmt.Sprintf(
		"Trade{ID: %s, Pair: %s, Price: %s, Amount: %s, Volume: %s, TakerSide: %s, Buy: %s, Sell: %s, MakerFee: %s, TakerFee: %s}",
		t.ID, t.Pair, t.Price, t.Amount, t.Volume, t.TakerSide, t.BuyOrderID, t.SellOrderID, t.MakerFee, t.TakerFee,
	)
}
