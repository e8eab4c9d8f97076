package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fenrir/internal/book"
	"fenrir/internal/common"
	"fenrir/internal/decimal"
)

func TestNewOrderRoundTrip(t *testing.T) {
	msg := NewOrderMessage{
		Pair:   "BTC-USDT",
		Side:   common.Sell,
		Type:   common.LimitOrder,
		Price:  "101.50",
		Amount: "2.25",
		UserID: "trader-7",
	}
	raw, err := EncodeNewOrder(msg)
	require.NoError(t, err)

	typ, decoded, err := ParseRequest(raw)
	require.NoError(t, err)
	assert.Equal(t, NewOrder, typ)

	got := decoded.(NewOrderMessage)
	assert.Equal(t, msg, got)

	order, err := got.ToOrder()
	require.NoError(t, err)
	assert.True(t, order.Price.Equal(decimal.MustParse("101.50")))
	assert.True(t, order.Amount.Equal(decimal.MustParse("2.25")))
}

func TestCancelOrderRoundTrip(t *testing.T) {
	msg := CancelOrderMessage{Pair: "BTC-USDT", OrderID: "ord-123"}
	raw, err := EncodeCancelOrder(msg)
	require.NoError(t, err)

	typ, decoded, err := ParseRequest(raw)
	require.NoError(t, err)
	assert.Equal(t, CancelOrder, typ)
	assert.Equal(t, msg, decoded.(CancelOrderMessage))
}

func TestDepthRequestRoundTrip(t *testing.T) {
	msg := DepthRequestMessage{Pair: "ETH-USDT", MaxLevels: 10}
	raw, err := EncodeDepthRequest(msg)
	require.NoError(t, err)

	typ, decoded, err := ParseRequest(raw)
	require.NoError(t, err)
	assert.Equal(t, DepthRequest, typ)
	assert.Equal(t, msg, decoded.(DepthRequestMessage))
}

func TestOrderReportRoundTrip(t *testing.T) {
	o := common.Order{
		ID:           "ord-1",
		Pair:         "BTC-USDT",
		Side:         common.Buy,
		Status:       common.Partial,
		Amount:       decimal.MustParse("5"),
		FilledAmount: decimal.MustParse("2"),
		Timestamp:    1234567,
	}
	raw, err := EncodeOrderReport(o)
	require.NoError(t, err)
	assert.Equal(t, byte(OrderReport), raw[0])

	got, err := DecodeOrderReport(raw[1:])
	require.NoError(t, err)
	assert.Equal(t, o.ID, got.ID)
	assert.Equal(t, o.Status, got.Status)
	assert.True(t, got.Amount.Equal(o.Amount))
	assert.True(t, got.FilledAmount.Equal(o.FilledAmount))
	assert.Equal(t, o.Timestamp, got.Timestamp)
}

func TestTradeReportRoundTrip(t *testing.T) {
	tr := common.Trade{
		ID:          "trade-1",
		Pair:        "BTC-USDT",
		Price:       decimal.MustParse("100"),
		Amount:      decimal.MustParse("1"),
		Volume:      decimal.MustParse("100"),
		Timestamp:   999,
		TakerSide:   common.Buy,
		BuyOrderID:  "buy-1",
		SellOrderID: "sell-1",
		MakerFee:    decimal.MustParse("0.1"),
		TakerFee:    decimal.MustParse("0.2"),
	}
	raw, err := EncodeTradeReport(tr)
	require.NoError(t, err)

	got, err := DecodeTradeReport(raw[1:])
	require.NoError(t, err)
	assert.Equal(t, tr.ID, got.ID)
	assert.True(t, got.Price.Equal(tr.Price))
	assert.True(t, got.MakerFee.Equal(tr.MakerFee))
	assert.Equal(t, tr.BuyOrderID, got.BuyOrderID)
	assert.Equal(t, tr.SellOrderID, got.SellOrderID)
}

func TestDepthReportRoundTrip(t *testing.T) {
	d := book.Depth{
		Pair: "BTC-USDT",
		Bids: []book.DepthLevel{
			{Price: decimal.MustParse("100"), Amount: decimal.MustParse("1"), Total: decimal.MustParse("1")},
		},
		Asks:           []book.DepthLevel{},
		LastUpdateTime: 42,
	}
	raw, err := EncodeDepthReport(d)
	require.NoError(t, err)
	assert.Equal(t, byte(DepthReport), raw[0])

	got, err := DecodeDepthReport(raw[1:])
	require.NoError(t, err)
	assert.Equal(t, d.Pair, got.Pair)
	assert.Equal(t, d.LastUpdateTime, got.LastUpdateTime)
	require.Len(t, got.Bids, 1)
	assert.True(t, got.Bids[0].Price.Equal(d.Bids[0].Price))
	assert.True(t, got.Bids[0].Amount.Equal(d.Bids[0].Amount))
	assert.True(t, got.Bids[0].Total.Equal(d.Bids[0].Total))
	assert.Empty(t, got.Asks)
}

func TestErrorReportRoundTrip(t *testing.T) {
	raw, err := EncodeErrorReport("rate limited")
	require.NoError(t, err)
	assert.Equal(t, byte(ErrorReport), raw[0])

	msg, err := DecodeErrorReport(raw[1:])
	require.NoError(t, err)
	assert.Equal(t, "rate limited", msg)
}
