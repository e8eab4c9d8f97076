package wire

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	tomb "gopkg.in/tomb.v2"

	"fenrir/internal/common"
	"fenrir/internal/engine"
	"fenrir/internal/workerpool"
)

const (
	maxRecvSize     = 4 * 1024
	defaultWorkers  = 10
	connReadTimeout = 5 * time.Second
)

var ErrImproperConversion = errors.New("wire: task was not a net.Conn")

// Server is the TCP front door spec.md §6 describes: it accepts
// connections, parses requests into engine.Submit/Cancel/MarketDepth calls,
// and pushes execution reports and trades back to the owning client.
//
// Grounded on the teacher's internal/net.Server and internal/worker.go
// WorkerPool, generalized from a single fixed AssetType and a
// clientSessions map keyed by local address (a bug in the teacher: every
// connection shares the listener's local address, so the map could only
// ever hold one live session) to a map keyed by the order-submitting
// client's user id, which is what trade/report routing actually needs.
//
// The worker pool below is sharded by connection, not by pair: two workers
// can call eng.Submit for the same pair at the same instant. That's safe
// because engine.Engine itself serializes Submit/Cancel per pair (see
// engine.Engine's doc comment) — the pool does not need to know about pairs
// at all.
type Server struct {
	address string
	port    int
	eng     *engine.Engine
	pool    *workerpool.Pool
	log     zerolog.Logger
	cancel  context.CancelFunc

	mu       sync.Mutex
	sessions map[string]net.Conn // userID -> connection
	owners   map[string]string   // orderID -> userID, while the order is live
}

// New builds a Server fronting eng. It subscribes to eng's event bus
// immediately so reports can flow to clients the moment Run starts
// accepting connections.
func New(address string, port int, eng *engine.Engine, log zerolog.Logger) *Server {
	s := &Server{
		address:  address,
		port:     port,
		eng:      eng,
		log:      log,
		sessions: make(map[string]net.Conn),
		owners:   make(map[string]string),
	}
	s.pool = workerpool.New(defaultWorkers, 0, log)

	eng.Bus().OnOrderUpdate(s.handleOrderEvent)
	eng.Bus().OnOrderCancelled(s.handleOrderEvent)
	eng.Bus().OnTrade(s.handleTrade)
	return s
}

// Shutdown cancels the Server's context, unwinding Run.
func (s *Server) Shutdown() {
	s.log.Info().Msg("server shutting down")
	if s.cancel != nil {
		s.cancel()
	}
}

// Run listens on address:port and serves connections until ctx is
// cancelled or Shutdown is called. It blocks until the listener stops.
func (s *Server) Run(ctx context.Context) error {
	defer s.Shutdown()

	ctx, s.cancel = context.WithCancel(ctx)
	t, ctx := tomb.WithContext(ctx)

	var lc net.ListenConfig
	listener, err := lc.Listen(ctx, "tcp", fmt.Sprintf("%s:%d", s.address, s.port))
	if err != nil {
		s.log.Error().Err(err).Msg("unable to start listener")
		return err
	}
	defer func() {
		if err := listener.Close(); err != nil {
			s.log.Error().Err(err).Msg("unable to close listener")
		}
	}()

	t.Go(func() error {
		s.pool.Run(t, s.handleConnection)
		return nil
	})

	s.log.Info().Str("addr", listener.Addr().String()).Msg("server listening")

	for {
		select {
		case <-t.Dying():
			return t.Err()
		default:
			conn, err := listener.Accept()
			if err != nil {
				select {
				case <-t.Dying():
					return t.Err()
				default:
					s.log.Error().Err(err).Msg("error accepting client")
					continue
				}
			}
			s.log.Info().Str("addr", conn.RemoteAddr().String()).Msg("client connected")
			s.pool.AddTask(conn)
		}
	}
}

// handleConnection reads and handles a single request off conn, then
// re-enqueues conn so another worker can read its next request. A read
// error ends the connection; a request that fails to parse or apply is
// answered with an ErrorReport and the connection stays open. Neither ends
// the worker (matching the teacher's handleConnection, which treats
// per-client I/O errors as non-fatal to the pool).
func (s *Server) handleConnection(t *tomb.Tomb, task any) error {
	conn, ok := task.(net.Conn)
	if !ok {
		return ErrImproperConversion
	}

	if err := conn.SetDeadline(time.Now().Add(connReadTimeout)); err != nil {
		s.log.Error().Err(err).Str("addr", conn.RemoteAddr().String()).Msg("failed setting read deadline")
		s.closeConn(conn)
		return nil
	}

	select {
	case <-t.Dying():
		s.closeConn(conn)
		return nil
	default:
	}

	buf := make([]byte, maxRecvSize)
	n, err := conn.Read(buf)
	if err != nil {
		s.log.Debug().Err(err).Str("addr", conn.RemoteAddr().String()).Msg("connection closed")
		s.closeConn(conn)
		return nil
	}

	if err := s.dispatch(conn, buf[:n]); err != nil {
		s.log.Error().Err(err).Str("addr", conn.RemoteAddr().String()).Msg("error handling request")
		if raw, encErr := EncodeErrorReport(err.Error()); encErr == nil {
			_, _ = conn.Write(raw)
		}
	}

	s.pool.AddTask(conn)
	return nil
}

func (s *Server) closeConn(conn net.Conn) {
	if err := conn.Close(); err != nil {
		s.log.Error().Err(err).Msg("error closing connection")
	}
}

// dispatch parses raw into a request and applies it against the engine,
// writing any immediate reply (heartbeat echo, depth snapshot) straight
// back to conn. Async reports (order updates, trades) flow separately
// through handleOrderEvent/handleTrade.
func (s *Server) dispatch(conn net.Conn, raw []byte) error {
	typ, msg, err := ParseRequest(raw)
	if err != nil {
		return err
	}

	switch typ {
	case Heartbeat:
		_, err := conn.Write(EncodeHeartbeat())
		return err

	case NewOrder:
		m := msg.(NewOrderMessage)
		order, err := m.ToOrder()
		if err != nil {
			return err
		}
		// Assign the id up front (Submit leaves a caller-supplied id alone)
		// so handleTrade can resolve this order's owner even on the very
		// first fill, which lands before Submit's own order-update events.
		order.ID = uuid.New().String()
		s.registerSession(order.UserID, conn)
		s.registerOwner(order.ID, order.UserID)
		s.eng.Submit(order)
		return nil

	case CancelOrder:
		m := msg.(CancelOrderMessage)
		s.eng.Cancel(m.OrderID, m.Pair)
		return nil

	case DepthRequest:
		m := msg.(DepthRequestMessage)
		depth := s.eng.MarketDepth(m.Pair, int(m.MaxLevels))
		raw, err := EncodeDepthReport(depth)
		if err != nil {
			return err
		}
		_, err = conn.Write(raw)
		return err

	default:
		return ErrInvalidMessageType
	}
}

func (s *Server) registerSession(userID string, conn net.Conn) {
	if userID == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[userID] = conn
}

func (s *Server) registerOwner(orderID, userID string) {
	if userID == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.owners[orderID] = userID
}

func (s *Server) sessionFor(userID string) (net.Conn, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	conn, ok := s.sessions[userID]
	return conn, ok
}

func (s *Server) ownerOf(orderID string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	userID, ok := s.owners[orderID]
	return userID, ok
}

// handleOrderEvent serves both OnOrderUpdate and OnOrderCancelled: it keeps
// the orderID->userID map current (needed to route trades, which carry
// order ids but not user ids) and pushes an OrderReport to the owner's
// session if one is known.
func (s *Server) handleOrderEvent(o common.Order) {
	if o.UserID == "" {
		return
	}
	s.mu.Lock()
	if o.IsTerminal() {
		delete(s.owners, o.ID)
	} else {
		s.owners[o.ID] = o.UserID
	}
	s.mu.Unlock()

	conn, ok := s.sessionFor(o.UserID)
	if !ok {
		return
	}
	raw, err := EncodeOrderReport(o)
	if err != nil {
		s.log.Error().Err(err).Str("order_id", o.ID).Msg("failed to encode order report")
		return
	}
	if _, err := conn.Write(raw); err != nil {
		s.log.Error().Err(err).Str("order_id", o.ID).Msg("failed to deliver order report")
	}
}

// handleTrade pushes a TradeReport to whichever counterparty sessions are
// known, looking up each side's owner through the orderID->userID map
// handleOrderEvent maintains.
func (s *Server) handleTrade(tr common.Trade) {
	raw, err := EncodeTradeReport(tr)
	if err != nil {
		s.log.Error().Err(err).Str("trade_id", tr.ID).Msg("failed to encode trade report")
		return
	}
	for _, orderID := range []string{tr.BuyOrderID, tr.SellOrderID} {
		userID, ok := s.ownerOf(orderID)
		if !ok {
			continue
		}
		conn, ok := s.sessionFor(userID)
		if !ok {
			continue
		}
		if _, err := conn.Write(raw); err != nil {
			s.log.Error().Err(err).Str("trade_id", tr.ID).Str("order_id", orderID).Msg("failed to deliver trade report")
		}
	}
}
