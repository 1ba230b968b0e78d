package signal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/zen/components"
	"github.com/pthm-cable/zen/config"
)

// ErrMalformedMessage is returned for bridge messages that carry no usable reading.
var ErrMalformedMessage = errors.New("malformed signal message")

// Message is one reading sent by a gesture tracker over the bridge.
// A tracker sends either a ready-made openness or the two fingertip
// landmarks (thumb tip and index tip) and lets the bridge normalize them.
type Message struct {
	Detected *bool       `json:"detected,omitempty"`
	Openness *float64    `json:"openness,omitempty"`
	Thumb    *[3]float64 `json:"thumb,omitempty"`
	Index    *[3]float64 `json:"index,omitempty"`
}

// Signal converts the message into a reading.
func (m Message) Signal(pinch PinchRange) (components.Signal, error) {
	if m.Detected != nil && !*m.Detected {
		return components.NeutralSignal(), nil
	}

	switch {
	case m.Openness != nil:
		o := *m.Openness
		if math.IsNaN(o) {
			return components.Signal{}, fmt.Errorf("%w: openness is NaN", ErrMalformedMessage)
		}
		o = math.Max(0, math.Min(1, o))
		return components.Signal{Detected: true, Openness: float32(o)}, nil
	case m.Thumb != nil && m.Index != nil:
		thumb := r3.Vec{X: m.Thumb[0], Y: m.Thumb[1], Z: m.Thumb[2]}
		index := r3.Vec{X: m.Index[0], Y: m.Index[1], Z: m.Index[2]}
		return components.Signal{Detected: true, Openness: pinch.Openness(thumb, index)}, nil
	}
	return components.Signal{}, fmt.Errorf("%w: need openness or thumb and index", ErrMalformedMessage)
}

// Server accepts tracker connections over WebSocket and publishes their
// readings into a Cell. When several trackers are connected the most recent
// message wins.
type Server struct {
	cell     *Cell
	pinch    PinchRange
	addr     string
	path     string
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}

	listening atomic.Bool
}

// NewServer creates a bridge that writes into cell.
func NewServer(cell *Cell, cfg config.SignalConfig) *Server {
	path := cfg.Path
	if path == "" {
		path = "/signal"
	}
	return &Server{
		cell:  cell,
		pinch: PinchRangeFromConfig(cfg),
		addr:  cfg.ListenAddr,
		path:  path,
		upgrader: websocket.Upgrader{
			// Trackers typically run from a local page on another origin
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[*websocket.Conn]struct{}),
	}
}

// Handler returns an http.Handler serving the bridge endpoint.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(s.path, s.handleWS)
	return mux
}

// Clients returns the number of connected trackers.
func (s *Server) Clients() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

// Listening reports whether Run has bound its address.
func (s *Server) Listening() bool {
	return s.listening.Load()
}

// Run listens on the configured address until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.addr, err)
	}

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		s.closeClients()
	}()

	s.listening.Store(true)
	defer s.listening.Store(false)
	slog.Info("signal bridge listening", "addr", ln.Addr().String(), "path", s.path)

	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serving signal bridge: %w", err)
	}
	return nil
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Debug("signal upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}

	s.mu.Lock()
	s.clients[conn] = struct{}{}
	s.mu.Unlock()
	slog.Info("tracker connected", "remote", r.RemoteAddr)

	defer func() {
		s.mu.Lock()
		delete(s.clients, conn)
		remaining := len(s.clients)
		s.mu.Unlock()
		conn.Close()

		// The last tracker leaving means nobody can see a hand
		if remaining == 0 {
			s.cell.Store(components.NeutralSignal())
		}
		slog.Info("tracker disconnected", "remote", r.RemoteAddr)
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			slog.Debug("ignoring signal message", "remote", r.RemoteAddr, "error", err)
			continue
		}
		sig, err := msg.Signal(s.pinch)
		if err != nil {
			slog.Debug("ignoring signal message", "remote", r.RemoteAddr, "error", err)
			continue
		}
		s.cell.Store(sig)
	}
}

func (s *Server) closeClients() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for conn := range s.clients {
		conn.Close()
	}
}
