package stream

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/rickgao/market-replay/internal/model"
	"github.com/rickgao/market-replay/internal/replay"
)

// Envelope is the JSON frame sent to subscribers.
type Envelope struct {
	Seq    int64        `json:"seq"`
	Kind   string       `json:"kind"`
	Record model.Record `json:"record"`
}

// Config holds stream server settings.
type Config struct {
	Addr         string        // Listen address (default: ":8080")
	Path         string        // WebSocket endpoint path (default: "/ws")
	Speed        float64       // Market-time multiplier; 0 disables pacing
	QueueSize    int           // Per-client outbound queue capacity
	WriteTimeout time.Duration // Per-frame write deadline
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Addr:         ":8080",
		Path:         "/ws",
		Speed:        0,
		QueueSize:    1024,
		WriteTimeout: 10 * time.Second,
	}
}

// Server replays an engine's sequence to WebSocket clients in a loop:
// each exhausted pass restarts from the top of the calendar.
type Server struct {
	cfg      Config
	engine   *replay.Engine
	logger   *slog.Logger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[uuid.UUID]*client

	httpSrv *http.Server
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

type client struct {
	id   uuid.UUID
	conn *websocket.Conn
	out  *outQueue
}

// NewServer creates a stream server for the given engine. The server
// becomes the engine's sole consumer once started.
func NewServer(cfg Config, engine *replay.Engine, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		cfg:     cfg,
		engine:  engine,
		logger:  logger,
		clients: make(map[uuid.UUID]*client),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
	}
}

// Start begins serving and broadcasting.
func (s *Server) Start(ctx context.Context) error {
	s.ctx, s.cancel = context.WithCancel(ctx)

	mux := http.NewServeMux()
	mux.HandleFunc(s.cfg.Path, s.handleWS)
	s.httpSrv = &http.Server{Addr: s.cfg.Addr, Handler: mux}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("stream server listen failed", "error", err)
			s.cancel()
		}
	}()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.broadcastLoop()
	}()

	s.logger.Info("stream server started",
		"addr", s.cfg.Addr,
		"path", s.cfg.Path,
		"speed", s.cfg.Speed,
	)
	return nil
}

// Stop gracefully shuts down the server and disconnects all clients.
func (s *Server) Stop(ctx context.Context) error {
	if s.cancel != nil {
		s.cancel()
	}
	if s.httpSrv != nil {
		if err := s.httpSrv.Shutdown(ctx); err != nil {
			s.logger.Warn("stream server shutdown", "error", err)
		}
	}

	s.mu.Lock()
	for _, c := range s.clients {
		c.out.close()
		c.conn.Close()
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("stream server stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Clients returns the number of connected subscribers.
func (s *Server) Clients() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

// handleWS upgrades a connection and registers the client.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err, "remote", r.RemoteAddr)
		return
	}

	c := &client{
		id:   uuid.New(),
		conn: conn,
		out:  newOutQueue(s.cfg.QueueSize),
	}

	s.mu.Lock()
	s.clients[c.id] = c
	s.mu.Unlock()

	s.logger.Info("client connected", "session", c.id, "remote", r.RemoteAddr)

	s.wg.Add(2)
	go func() {
		defer s.wg.Done()
		s.writeLoop(c)
	}()
	go func() {
		defer s.wg.Done()
		s.readLoop(c)
	}()
}

// broadcastLoop drives the engine and fans records out to all clients.
func (s *Server) broadcastLoop() {
	var seq int64
	var prevTime int64

	for {
		if s.ctx.Err() != nil {
			return
		}

		// Idle until someone is listening; the engine keeps its place.
		if s.Clients() == 0 {
			if s.sleep(100 * time.Millisecond) {
				return
			}
			continue
		}

		rec, err := s.engine.Next(s.ctx)
		if err != nil {
			if errors.Is(err, replay.ErrExhausted) {
				// Engine already reset itself; start the next pass.
				prevTime = 0
				if s.sleep(time.Second) {
					return
				}
				continue
			}
			if s.ctx.Err() != nil {
				return
			}
			s.logger.Error("replay pull failed", "error", err)
			if s.sleep(time.Second) {
				return
			}
			continue
		}

		if s.cfg.Speed > 0 && prevTime > 0 && rec.MarketTime() > prevTime {
			gap := time.Duration(rec.MarketTime()-prevTime) * time.Microsecond
			if s.sleep(time.Duration(float64(gap) / s.cfg.Speed)) {
				return
			}
		}
		prevTime = rec.MarketTime()

		seq++
		env := Envelope{Seq: seq, Kind: kindOf(rec), Record: rec}

		s.mu.Lock()
		for _, c := range s.clients {
			c.out.push(env)
		}
		s.mu.Unlock()
	}
}

// writeLoop drains a client's queue onto its connection.
func (s *Server) writeLoop(c *client) {
	for {
		env, ok := c.out.next()
		if !ok {
			return
		}

		c.conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
		if err := c.conn.WriteJSON(env); err != nil {
			s.logger.Info("client write failed", "session", c.id, "error", err)
			s.drop(c)
			return
		}
	}
}

// readLoop discards inbound frames and detects disconnects.
func (s *Server) readLoop(c *client) {
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			s.drop(c)
			return
		}
	}
}

// drop removes a client and releases its resources. Safe to call twice.
func (s *Server) drop(c *client) {
	s.mu.Lock()
	_, present := s.clients[c.id]
	delete(s.clients, c.id)
	s.mu.Unlock()

	if present {
		stats := c.out.stats()
		s.logger.Info("client disconnected",
			"session", c.id,
			"sent", stats.Sent,
			"dropped", stats.Dropped,
		)
	}

	c.out.close()
	c.conn.Close()
}

// sleep waits for d or until shutdown; reports whether to stop.
func (s *Server) sleep(d time.Duration) bool {
	if d <= 0 {
		return s.ctx.Err() != nil
	}
	select {
	case <-s.ctx.Done():
		return true
	case <-time.After(d):
		return false
	}
}

func kindOf(rec model.Record) string {
	switch rec.(type) {
	case model.Trade, *model.Trade:
		return string(model.KindTrade)
	case model.Tick, *model.Tick:
		return string(model.KindTick)
	case model.OrderBook, *model.OrderBook:
		return string(model.KindOrderBook)
	default:
		return "record"
	}
}
