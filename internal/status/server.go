// Package status serves the live state of a run over HTTP: JSON endpoints
// for the latest snapshot, the trade log and the final metrics, and a
// websocket stream of snapshots and trades.
package status

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-tracker/internal/logger"
	"github.com/rxtech-lab/argo-tracker/internal/simulation/engine"
	"github.com/rxtech-lab/argo-tracker/internal/types"
	"github.com/rxtech-lab/argo-tracker/pkg/errors"
	"go.uber.org/zap"
)

// Message is the websocket envelope.
type Message struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

const (
	MessageTypeSnapshot = "snapshot"
	MessageTypeTrade    = "trade"
)

type errorResponse struct {
	Error string `json:"error"`
}

type Server struct {
	addr     string
	log      *logger.Logger
	hub      *Hub
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	latest  optional.Option[types.PortfolioSnapshot]
	trades  []types.Trade
	metrics optional.Option[types.Metrics]

	httpServer *http.Server
	listener   net.Listener
}

func NewServer(addr string, log *logger.Logger) *Server {
	return &Server{
		addr: addr,
		log:  log,
		hub:  NewHub(log),
		upgrader: websocket.Upgrader{ //nolint:exhaustruct // defaults for buffers and subprotocols
			CheckOrigin: func(_ *http.Request) bool { return true },
		},
		mu:         sync.RWMutex{},
		latest:     optional.None[types.PortfolioSnapshot](),
		trades:     []types.Trade{},
		metrics:    optional.None[types.Metrics](),
		httpServer: nil,
		listener:   nil,
	}
}

// Router returns the HTTP handler.
func (s *Server) Router() http.Handler {
	router := mux.NewRouter()

	api := router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/snapshot", s.handleSnapshot).Methods(http.MethodGet)
	api.HandleFunc("/trades", s.handleTrades).Methods(http.MethodGet)
	api.HandleFunc("/metrics", s.handleMetrics).Methods(http.MethodGet)

	router.HandleFunc("/ws", s.handleWebSocket)

	return router
}

// Start listens on the configured address and serves in the background.
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeStatusServerFailure, err, "failed to listen on %s", s.addr)
	}

	s.listener = listener
	s.httpServer = &http.Server{ //nolint:exhaustruct // defaults for the remaining settings
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Warn("Status server stopped", zap.Error(err))
		}
	}()

	s.log.Info("Status server listening", zap.String("addr", listener.Addr().String()))

	return nil
}

// Addr is the bound address once Start succeeded.
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.addr
	}

	return s.listener.Addr().String()
}

// Shutdown disconnects websocket clients and stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.hub.Close()

	if s.httpServer == nil {
		return nil
	}

	return s.httpServer.Shutdown(ctx)
}

// PublishSnapshot records snapshot as the latest and streams it.
func (s *Server) PublishSnapshot(snapshot types.PortfolioSnapshot) {
	s.mu.Lock()
	s.latest = optional.Some(snapshot)
	s.mu.Unlock()

	s.broadcast(MessageTypeSnapshot, snapshot)
}

// PublishTrade appends trade to the log and streams it.
func (s *Server) PublishTrade(trade types.Trade) {
	s.mu.Lock()
	s.trades = append(s.trades, trade)
	s.mu.Unlock()

	s.broadcast(MessageTypeTrade, trade)
}

// PublishResult makes the final metrics available.
func (s *Server) PublishResult(result engine.Result) {
	s.mu.Lock()
	s.metrics = optional.Some(result.Metrics)
	s.mu.Unlock()
}

// Callbacks wraps next so every snapshot, trade and the final result are
// published before next sees them.
func (s *Server) Callbacks(next engine.Callbacks) engine.Callbacks {
	out := next

	onSnapshot := engine.OnSnapshotCallback(func(snapshot types.PortfolioSnapshot) error {
		s.PublishSnapshot(snapshot)

		if next.OnSnapshot != nil {
			return (*next.OnSnapshot)(snapshot)
		}

		return nil
	})
	onTrade := engine.OnTradeCallback(func(trade types.Trade) error {
		s.PublishTrade(trade)

		if next.OnTrade != nil {
			return (*next.OnTrade)(trade)
		}

		return nil
	})
	onStop := engine.OnEngineStopCallback(func(err error, result engine.Result) {
		s.PublishResult(result)

		if next.OnEngineStop != nil {
			(*next.OnEngineStop)(err, result)
		}
	})

	out.OnSnapshot = &onSnapshot
	out.OnTrade = &onTrade
	out.OnEngineStop = &onStop

	return out
}

func (s *Server) broadcast(kind string, data any) {
	msg, err := json.Marshal(Message{Type: kind, Data: data})
	if err != nil {
		s.log.Warn("Failed to encode status message", zap.String("type", kind), zap.Error(err))

		return
	}

	s.hub.Broadcast(msg)
}

func (s *Server) handleSnapshot(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	latest := s.latest
	s.mu.RUnlock()

	if latest.IsNone() {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "no snapshot yet"})

		return
	}

	writeJSON(w, http.StatusOK, latest.Unwrap())
}

func (s *Server) handleTrades(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	trades := slices.Clone(s.trades)
	s.mu.RUnlock()

	writeJSON(w, http.StatusOK, trades)
}

func (s *Server) handleMetrics(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	m := s.metrics
	s.mu.RUnlock()

	if m.IsNone() {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "run still in progress"})

		return
	}

	writeJSON(w, http.StatusOK, m.Unwrap().Entries())
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Debug("Websocket upgrade failed", zap.Error(err))

		return
	}

	var first []byte

	s.mu.RLock()
	latest := s.latest
	s.mu.RUnlock()

	if latest.IsSome() {
		first, err = json.Marshal(Message{Type: MessageTypeSnapshot, Data: latest.Unwrap()})
		if err != nil {
			first = nil
		}
	}

	s.hub.Register(conn, first)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
