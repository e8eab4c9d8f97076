// Command client is a small CLI exercising internal/wire against a running
// server. Adapted from the teacher's cmd/client/client.go, generalized from
// a fixed AssetType/ticker/float64-price layout to spec.md's open pair
// namespace and decimal strings, and fixed to decode the length-prefixed
// report framing internal/wire actually writes rather than the teacher's
// client, which assumed fixed-width fields matching a server it didn't
// agree with (hence LogBook/fenrirNet.LogBook referencing a constant the
// server-side messages.go never defined).
package main

import (
	"flag"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"fenrir/internal/common"
	"fenrir/internal/wire"
)

func main() {
	serverAddr := flag.String("server", "127.0.0.1:9001", "address of the exchange server")
	owner := flag.String("owner", "", "owner user id (required)")
	action := flag.String("action", "place", "action: place | cancel | depth")

	pair := flag.String("pair", "BTC-USDT", "trading pair")
	sideStr := flag.String("side", "buy", "order side: buy | sell")
	typeStr := flag.String("type", "limit", "order type: limit | market")
	price := flag.String("price", "100", "limit price (decimal string, ignored for market orders)")
	amount := flag.String("amount", "1", "order amount (decimal string)")

	orderID := flag.String("order-id", "", "order id to cancel")
	maxLevels := flag.Int("max-levels", 10, "max depth rows per side for the depth action")

	flag.Parse()

	if *owner == "" && *action != "depth" {
		fmt.Println("Error: -owner is required.")
		flag.Usage()
		os.Exit(1)
	}

	conn, err := net.Dial("tcp", *serverAddr)
	if err != nil {
		fmt.Printf("failed to connect to %s: %v\n", *serverAddr, err)
		os.Exit(1)
	}
	defer conn.Close()
	fmt.Printf("connected to %s as %q\n", *serverAddr, *owner)

	go readReports(conn)

	switch strings.ToLower(*action) {
	case "place":
		side := common.Buy
		if strings.ToLower(*sideStr) == "sell" {
			side = common.Sell
		}
		orderType := common.LimitOrder
		priceField := *price
		if strings.ToLower(*typeStr) == "market" {
			orderType = common.MarketOrder
			priceField = ""
		}
		raw, err := wire.EncodeNewOrder(wire.NewOrderMessage{
			Pair:   *pair,
			Side:   side,
			Type:   orderType,
			Price:  priceField,
			Amount: *amount,
			UserID: *owner,
		})
		if err != nil {
			fmt.Printf("failed to encode order: %v\n", err)
			os.Exit(1)
		}
		if _, err := conn.Write(raw); err != nil {
			fmt.Printf("failed to send order: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("-> sent %s %s order: %s %s @ %s\n", strings.ToUpper(*sideStr), strings.ToUpper(*typeStr), *pair, *amount, *price)

	case "cancel":
		if *orderID == "" {
			fmt.Println("Error: -order-id is required for cancel")
			os.Exit(1)
		}
		raw, err := wire.EncodeCancelOrder(wire.CancelOrderMessage{Pair: *pair, OrderID: *orderID})
		if err != nil {
			fmt.Printf("failed to encode cancel: %v\n", err)
			os.Exit(1)
		}
		if _, err := conn.Write(raw); err != nil {
			fmt.Printf("failed to send cancel: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("-> sent cancel for order %s\n", *orderID)

	case "depth":
		raw, err := wire.EncodeDepthRequest(wire.DepthRequestMessage{Pair: *pair, MaxLevels: uint8(*maxLevels)})
		if err != nil {
			fmt.Printf("failed to encode depth request: %v\n", err)
			os.Exit(1)
		}
		if _, err := conn.Write(raw); err != nil {
			fmt.Printf("failed to send depth request: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("-> requested depth for %s\n", *pair)

	default:
		fmt.Printf("unknown action: %s\n", *action)
		os.Exit(1)
	}

	fmt.Println("listening for reports... (press Ctrl+C to exit)")
	time.Sleep(2 * time.Second)
}

// readReports drains conn and prints whatever report frames arrive.
func readReports(conn net.Conn) {
	buf := make([]byte, 8*1024)
	for {
		n, err := conn.Read(buf)
		if err != nil {
			fmt.Printf("connection closed: %v\n", err)
			return
		}
		printReport(buf[:n])
	}
}

func printReport(raw []byte) {
	if len(raw) == 0 {
		return
	}
	switch wire.ReportType(raw[0]) {
	case wire.OrderReport:
		o, err := wire.DecodeOrderReport(raw[1:])
		if err != nil {
			fmt.Printf("[malformed order report] %v\n", err)
			return
		}
		fmt.Printf("[ORDER] id=%s pair=%s status=%s filled=%s/%s\n",
			o.ID, o.Pair, o.Status, o.FilledAmount, o.Amount)

	case wire.TradeReport:
		tr, err := wire.DecodeTradeReport(raw[1:])
		if err != nil {
			fmt.Printf("[malformed trade report] %v\n", err)
			return
		}
		fmt.Printf("[TRADE] pair=%s price=%s amount=%s buy=%s sell=%s\n",
			tr.Pair, tr.Price, tr.Amount, tr.BuyOrderID, tr.SellOrderID)

	case wire.ErrorReport:
		msg, err := wire.DecodeErrorReport(raw[1:])
		if err != nil {
			fmt.Printf("[malformed error report] %v\n", err)
			return
		}
		fmt.Printf("[ERROR] %s\n", msg)

	case wire.DepthReport:
		d, err := wire.DecodeDepthReport(raw[1:])
		if err != nil {
			fmt.Printf("[malformed depth report] %v\n", err)
			return
		}
		fmt.Printf("[DEPTH] pair=%s bids=%d asks=%d updated=%d\n", d.Pair, len(d.Bids), len(d.Asks), d.LastUpdateTime)
		for _, lvl := range d.Bids {
			fmt.Printf("  bid %s x %s (total %s)\n", lvl.Price, lvl.Amount, lvl.Total)
		}
		for _, lvl := range d.Asks {
			fmt.Printf("  ask %s x %s (total %s)\n", lvl.Price, lvl.Amount, lvl.Total)
		}

	default:
		if len(raw) == 1 && wire.MessageType(raw[0]) == wire.Heartbeat {
			fmt.Println("[HEARTBEAT]")
			return
		}
		fmt.Printf("[unknown report type %d]\n", raw[0])
	}
}
