// Package wire implements the binary protocol spec.md §6 describes for
// submitting orders, cancelling them, and reading back depth over a
// connection. It is adapted from the teacher's internal/net package: the
// same big-endian, length-prefixed framing style, generalized from a fixed
// AssetType/Ticker/float64-price layout to spec.md's open pair namespace and
// exact decimal.Decimal, carried on the wire as length-prefixed decimal
// strings rather than math.Float64bits (spec.md §4.1: "no binary floating
// point anywhere in the arithmetic path", which the teacher's wire format
// violated even though its matching engine did not).
package wire

import (
	"errors"

	"fenrir/internal/common"
	"fenrir/internal/decimal"
)

var (
	ErrInvalidMessageType = errors.New("wire: invalid message type")
	ErrMessageTooShort    = errors.New("wire: message too short")
	ErrFieldTooLong       = errors.New("wire: field exceeds 255 bytes")
)

// MessageType identifies the shape of a client-to-server request.
type MessageType uint8

const (
	Heartbeat MessageType = iota
	NewOrder
	CancelOrder
	DepthRequest
)

// ReportType identifies the shape of a server-to-client response.
type ReportType uint8

const (
	OrderReport ReportType = iota
	TradeReport
	ErrorReport
	DepthReport
)

// headerLen is the 1-byte message-type tag every frame begins with.
const headerLen = 1

// putString writes a 1-byte length prefix followed by s's bytes, and
// returns the number of bytes consumed. s must be <= 255 bytes.
func putString(buf []byte, s string) (int, error) {
	if len(s) > 255 {
		return 0, ErrFieldTooLong
	}
	buf[0] = byte(len(s))
	n := copy(buf[1:], s)
	return 1 + n, nil
}

// readString reads a length-prefixed string starting at buf[0], returning
// the string and the number of bytes consumed.
func readString(buf []byte) (string, int, error) {
	if len(buf) < 1 {
		return "", 0, ErrMessageTooShort
	}
	n := int(buf[0])
	if len(buf) < 1+n {
		return "", 0, ErrMessageTooShort
	}
	return string(buf[1 : 1+n]), 1 + n, nil
}

// NewOrderMessage is the wire shape of a new-order request (spec.md §6's
// submit_order), built and parsed with length-prefixed strings for Pair,
// Price, Amount, and UserID so arbitrary-precision decimals survive the
// wire intact.
type NewOrderMessage struct {
	Pair   string
	Side   common.Side
	Type   common.OrderType
	Price  string // decimal.Decimal.String(); empty for market orders
	Amount string
	UserID string
}

// EncodeNewOrder serializes m, header included.
func EncodeNewOrder(m NewOrderMessage) ([]byte, error) {
	buf := make([]byte, 1+1+1+1+len(m.Pair)+1+len(m.Price)+1+len(m.Amount)+1+len(m.UserID))
	buf[0] = byte(NewOrder)
	off := headerLen
	buf[off] = byte(m.Side)
	off++
	buf[off] = byte(m.Type)
	off++

	n, err := putString(buf[off:], m.Pair)
	if err != nil {
		return nil, err
	}
	off += n

	n, err = putString(buf[off:], m.Price)
	if err != nil {
		return nil, err
	}
	off += n

	n, err = putString(buf[off:], m.Amount)
	if err != nil {
		return nil, err
	}
	off += n

	n, err = putString(buf[off:], m.UserID)
	if err != nil {
		return nil, err
	}
	off += n

	return buf[:off], nil
}

// DecodeNewOrder parses a NewOrderMessage body (header already stripped).
func DecodeNewOrder(body []byte) (NewOrderMessage, error) {
	if len(body) < 2 {
		return NewOrderMessage{}, ErrMessageTooShort
	}
	m := NewOrderMessage{
		Side: common.Side(body[0]),
		Type: common.OrderType(body[1]),
	}
	rest := body[2:]

	var n int
	var err error
	if m.Pair, n, err = readString(rest); err != nil {
		return NewOrderMessage{}, err
	}
	rest = rest[n:]
	if m.Price, n, err = readString(rest); err != nil {
		return NewOrderMessage{}, err
	}
	rest = rest[n:]
	if m.Amount, n, err = readString(rest); err != nil {
		return NewOrderMessage{}, err
	}
	rest = rest[n:]
	if m.UserID, _, err = readString(rest); err != nil {
		return NewOrderMessage{}, err
	}
	return m, nil
}

// ToOrder converts m into a common.Order, parsing its decimal fields.
// Market orders carry an empty Price, which parses to decimal.Zero (the
// engine never reads Price for a market order).
func (m NewOrderMessage) ToOrder() (*common.Order, error) {
	amount, err := decimal.Parse(m.Amount)
	if err != nil {
		return nil, err
	}
	price := decimal.Zero
	if m.Type == common.LimitOrder {
		price, err = decimal.Parse(m.Price)
		if err != nil {
			return nil, err
		}
	}
	return &common.Order{
		Pair:   m.Pair,
		Side:   m.Side,
		Type:   m.Type,
		Price:  price,
		Amount: amount,
		UserID: m.UserID,
	}, nil
}

// CancelOrderMessage is the wire shape of a cancel request.
type CancelOrderMessage struct {
	Pair    string
	OrderID string
}

func EncodeCancelOrder(m CancelOrderMessage) ([]byte, error) {
	buf := make([]byte, 1+1+len(m.Pair)+1+len(m.OrderID))
	buf[0] = byte(CancelOrder)
	off := headerLen

	n, err := putString(buf[off:], m.Pair)
	if err != nil {
		return nil, err
	}
	off += n

	n, err = putString(buf[off:], m.OrderID)
	if err != nil {
		return nil, err
	}
	off += n

	return buf[:off], nil
}

func DecodeCancelOrder(body []byte) (CancelOrderMessage, error) {
	var m CancelOrderMessage
	var n int
	var err error
	if m.Pair, n, err = readString(body); err != nil {
		return CancelOrderMessage{}, err
	}
	if m.OrderID, _, err = readString(body[n:]); err != nil {
		return CancelOrderMessage{}, err
	}
	return m, nil
}

// DepthRequestMessage asks for a market depth snapshot on Pair, up to
// MaxLevels rows per side.
type DepthRequestMessage struct {
	Pair      string
	MaxLevels uint8
}

func EncodeDepthRequest(m DepthRequestMessage) ([]byte, error) {
	buf := make([]byte, 1+1+len(m.Pair)+1)
	buf[0] = byte(DepthRequest)
	off := headerLen

	n, err := putString(buf[off:], m.Pair)
	if err != nil {
		return nil, err
	}
	off += n

	buf[off] = m.MaxLevels
	off++
	return buf[:off], nil
}

func DecodeDepthRequest(body []byte) (DepthRequestMessage, error) {
	pair, n, err := readString(body)
	if err != nil {
		return DepthRequestMessage{}, err
	}
	rest := body[n:]
	if len(rest) < 1 {
		return DepthRequestMessage{}, ErrMessageTooShort
	}
	return DepthRequestMessage{Pair: pair, MaxLevels: rest[0]}, nil
}

// ParseRequest reads the 1-byte type tag off raw and dispatches to the
// matching decoder, returning the tag and the decoded message as an `any`.
func ParseRequest(raw []byte) (MessageType, any, error) {
	if len(raw) < headerLen {
		return 0, nil, ErrMessageTooShort
	}
	typ := MessageType(raw[0])
	body := raw[headerLen:]
	switch typ {
	case Heartbeat:
		return typ, struct{}{}, nil
	case NewOrder:
		m, err := DecodeNewOrder(body)
		return typ, m, err
	case CancelOrder:
		m, err := DecodeCancelOrder(body)
		return typ, m, err
	case DepthRequest:
		m, err := DecodeDepthRequest(body)
		return typ, m, err
	default:
		return typ, nil, ErrInvalidMessageType
	}
}

// EncodeHeartbeat returns the single-byte heartbeat frame.
func EncodeHeartbeat() []byte { return []byte{byte(Heartbeat)} }
