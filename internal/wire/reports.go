package wire

import (
	"encoding/binary"

	"fenrir/internal/book"
	"fenrir/internal/common"
	"fenrir/internal/decimal"
)

// parseDecimalField parses a decimal.Decimal off the wire, treating an
// empty string as zero (a market order's Price field, for instance).
func parseDecimalField(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.Parse(s)
}

// putUint64 writes a fixed-width big-endian uint64 at buf[off:] and returns
// the offset just past it, matching the teacher's Report.Serialize use of
// encoding/binary for fixed fields.
func putUint64(buf []byte, off int, v uint64) int {
	binary.BigEndian.PutUint64(buf[off:off+8], v)
	return off + 8
}

func readUint64(buf []byte) (uint64, int) {
	return binary.BigEndian.Uint64(buf[:8]), 8
}

// appendString writes ErrFieldTooLong-checked length-prefixed bytes into a
// growable buffer, returning the new slice.
func appendString(buf []byte, s string) ([]byte, error) {
	if len(s) > 255 {
		return nil, ErrFieldTooLong
	}
	buf = append(buf, byte(len(s)))
	return append(buf, s...), nil
}

// EncodeOrderReport serializes an order-update/order-cancelled event for
// delivery to the owning client (spec.md §6: "clients ... receive
// execution reports for their own orders").
func EncodeOrderReport(o common.Order) ([]byte, error) {
	buf := make([]byte, 0, 64)
	buf = append(buf, byte(OrderReport))

	var err error
	if buf, err = appendString(buf, o.ID); err != nil {
		return nil, err
	}
	if buf, err = appendString(buf, o.Pair); err != nil {
		return nil, err
	}
	buf = append(buf, byte(o.Side), byte(o.Status))
	if buf, err = appendString(buf, o.FilledAmount.String()); err != nil {
		return nil, err
	}
	if buf, err = appendString(buf, o.Amount.String()); err != nil {
		return nil, err
	}
	tsBuf := make([]byte, 8)
	binary.BigEndian.PutUint64(tsBuf, uint64(o.Timestamp))
	buf = append(buf, tsBuf...)
	return buf, nil
}

// DecodeOrderReport parses an OrderReport body (header already stripped).
func DecodeOrderReport(body []byte) (common.Order, error) {
	var o common.Order
	var n int
	var err error

	if o.ID, n, err = readString(body); err != nil {
		return o, err
	}
	body = body[n:]
	if o.Pair, n, err = readString(body); err != nil {
		return o, err
	}
	body = body[n:]
	if len(body) < 2 {
		return o, ErrMessageTooShort
	}
	o.Side = common.Side(body[0])
	o.Status = common.Status(body[1])
	body = body[2:]

	var filled, amount string
	if filled, n, err = readString(body); err != nil {
		return o, err
	}
	body = body[n:]
	if amount, n, err = readString(body); err != nil {
		return o, err
	}
	body = body[n:]
	if len(body) < 8 {
		return o, ErrMessageTooShort
	}
	ts, _ := readUint64(body)
	o.Timestamp = int64(ts)

	if o.FilledAmount, err = parseDecimalField(filled); err != nil {
		return o, err
	}
	if o.Amount, err = parseDecimalField(amount); err != nil {
		return o, err
	}
	return o, nil
}

// EncodeTradeReport serializes a trade for delivery to both counterparties.
func EncodeTradeReport(tr common.Trade) ([]byte, error) {
	buf := make([]byte, 0, 96)
	buf = append(buf, byte(TradeReport))

	var err error
	for _, s := range []string{tr.ID, tr.Pair, tr.Price.String(), tr.Amount.String(), tr.Volume.String()} {
		if buf, err = appendString(buf, s); err != nil {
			return nil, err
		}
	}
	buf = append(buf, byte(tr.TakerSide))
	for _, s := range []string{tr.BuyOrderID, tr.SellOrderID, tr.MakerFee.String(), tr.TakerFee.String()} {
		if buf, err = appendString(buf, s); err != nil {
			return nil, err
		}
	}
	tsBuf := make([]byte, 8)
	binary.BigEndian.PutUint64(tsBuf, uint64(tr.Timestamp))
	buf = append(buf, tsBuf...)
	return buf, nil
}

// DecodeTradeReport parses a TradeReport body (header already stripped).
func DecodeTradeReport(body []byte) (common.Trade, error) {
	var tr common.Trade
	fields := make([]string, 0, 5)
	for i := 0; i < 5; i++ {
		s, n, err := readString(body)
		if err != nil {
			return tr, err
		}
		fields = append(fields, s)
		body = body[n:]
	}
	if len(body) < 1 {
		return tr, ErrMessageTooShort
	}
	takerSide := common.Side(body[0])
	body = body[1:]

	rest := make([]string, 0, 4)
	for i := 0; i < 4; i++ {
		s, n, err := readString(body)
		if err != nil {
			return tr, err
		}
		rest = append(rest, s)
		body = body[n:]
	}
	if len(body) < 8 {
		return tr, ErrMessageTooShort
	}
	ts, _ := readUint64(body)

	var err error
	tr.ID, tr.Pair = fields[0], fields[1]
	if tr.Price, err = parseDecimalField(fields[2]); err != nil {
		return tr, err
	}
	if tr.Amount, err = parseDecimalField(fields[3]); err != nil {
		return tr, err
	}
	if tr.Volume, err = parseDecimalField(fields[4]); err != nil {
		return tr, err
	}
	tr.TakerSide = takerSide
	tr.BuyOrderID, tr.SellOrderID = rest[0], rest[1]
	if tr.MakerFee, err = parseDecimalField(rest[2]); err != nil {
		return tr, err
	}
	if tr.TakerFee, err = parseDecimalField(rest[3]); err != nil {
		return tr, err
	}
	tr.Timestamp = int64(ts)
	return tr, nil
}

// EncodeErrorReport serializes a rejection reason for delivery back to the
// submitting client (spec.md §7: every rejection is reported, never silent).
func EncodeErrorReport(message string) ([]byte, error) {
	buf := []byte{byte(ErrorReport)}
	return appendString(buf, message)
}

// DecodeErrorReport parses an ErrorReport body.
func DecodeErrorReport(body []byte) (string, error) {
	s, _, err := readString(body)
	return s, err
}

// EncodeDepthReport serializes a depth snapshot, capping each side at 255
// rows since the row count is a single byte on the wire — callers request
// at most that many via DepthRequestMessage.MaxLevels anyway.
func EncodeDepthReport(d book.Depth) ([]byte, error) {
	buf := []byte{byte(DepthReport)}
	var err error
	if buf, err = appendString(buf, d.Pair); err != nil {
		return nil, err
	}

	buf, err = appendDepthSide(buf, d.Bids)
	if err != nil {
		return nil, err
	}
	buf, err = appendDepthSide(buf, d.Asks)
	if err != nil {
		return nil, err
	}

	tsBuf := make([]byte, 8)
	binary.BigEndian.PutUint64(tsBuf, uint64(d.LastUpdateTime))
	return append(buf, tsBuf...), nil
}

// DecodeDepthReport parses a DepthReport body (header already stripped).
func DecodeDepthReport(body []byte) (book.Depth, error) {
	var d book.Depth
	var n int
	var err error

	if d.Pair, n, err = readString(body); err != nil {
		return d, err
	}
	body = body[n:]

	if d.Bids, body, err = readDepthSide(body); err != nil {
		return d, err
	}
	if d.Asks, body, err = readDepthSide(body); err != nil {
		return d, err
	}
	if len(body) < 8 {
		return d, ErrMessageTooShort
	}
	ts, _ := readUint64(body)
	d.LastUpdateTime = int64(ts)
	return d, nil
}

func readDepthSide(body []byte) ([]book.DepthLevel, []byte, error) {
	if len(body) < 1 {
		return nil, nil, ErrMessageTooShort
	}
	count := int(body[0])
	body = body[1:]
	levels := make([]book.DepthLevel, 0, count)
	for i := 0; i < count; i++ {
		var lvl book.DepthLevel
		var priceStr, amountStr, totalStr string
		var n int
		var err error

		if priceStr, n, err = readString(body); err != nil {
			return nil, nil, err
		}
		body = body[n:]
		if amountStr, n, err = readString(body); err != nil {
			return nil, nil, err
		}
		body = body[n:]
		if totalStr, n, err = readString(body); err != nil {
			return nil, nil, err
		}
		body = body[n:]

		if lvl.Price, err = parseDecimalField(priceStr); err != nil {
			return nil, nil, err
		}
		if lvl.Amount, err = parseDecimalField(amountStr); err != nil {
			return nil, nil, err
		}
		if lvl.Total, err = parseDecimalField(totalStr); err != nil {
			return nil, nil, err
		}
		levels = append(levels, lvl)
	}
	return levels, body, nil
}

func appendDepthSide(buf []byte, levels []book.DepthLevel) ([]byte, error) {
	if len(levels) > 255 {
		levels = levels[:255]
	}
	buf = append(buf, byte(len(levels)))
	var err error
	for _, lvl := range levels {
		if buf, err = appendString(buf, lvl.Price.String()); err != nil {
			return nil, err
		}
		if buf, err = appendString(buf, lvl.Amount.String()); err != nil {
			return nil, err
		}
		if buf, err = appendString(buf, lvl.Total.String()); err != nil {
			return nil, err
		}
	}
	return buf, nil
}
