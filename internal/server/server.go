package server

import (
	"context"
	"fmt"
	rand "math/rand/v2"
	"net/http"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/gorilla/websocket"

	"github.com/lox/bigtwo/internal/gameid"
)

// Server owns the listener, the connection registry and the lobby. Each
// upgraded websocket gets a fresh opaque player id for its lifetime;
// registry entries disappear on disconnect.
type Server struct {
	cfg      *Config
	upgrader websocket.Upgrader
	logger   *log.Logger
	clock    quartz.Clock
	ids      *gameid.Generator
	lobby    *Lobby

	mu          sync.RWMutex
	connections map[*Connection]bool
	playerIDs   map[string]bool

	register   chan *Connection
	unregister chan *Connection
	httpSrv    *http.Server
	ctx        context.Context
	cancel     context.CancelFunc
}

// New creates a server with its lobby. rng seeds every room's shuffles;
// the clock drives liveness pings.
func New(cfg *Config, logger *log.Logger, rng *rand.Rand, clock quartz.Clock) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	ids := gameid.NewGenerator(nil)

	return &Server{
		cfg: cfg,
		upgrader: websocket.Upgrader{
			CheckOrigin:     func(r *http.Request) bool { return true },
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		logger:      logger.WithPrefix("server"),
		clock:       clock,
		ids:         ids,
		lobby:       NewLobby(logger, rng, ids),
		connections: make(map[*Connection]bool),
		playerIDs:   make(map[string]bool),
		register:    make(chan *Connection),
		unregister:  make(chan *Connection),
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Lobby exposes the session router, mainly for tests.
func (s *Server) Lobby() *Lobby {
	return s.lobby
}

// Start runs the listener until Shutdown or a listen error.
func (s *Server) Start() error {
	go s.run()

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)
	s.httpSrv = &http.Server{Addr: s.cfg.ListenAddr(), Handler: mux}

	s.logger.Info("Starting WebSocket server", "addr", s.cfg.ListenAddr())
	return s.httpSrv.ListenAndServe()
}

// Shutdown stops the listener and closes every live connection.
func (s *Server) Shutdown(ctx context.Context) error {
	s.cancel()

	s.mu.Lock()
	for conn := range s.connections {
		_ = conn.Close()
	}
	s.mu.Unlock()

	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}

// run handles connection lifecycle
func (s *Server) run() {
	for {
		select {
		case conn := <-s.register:
			s.mu.Lock()
			s.connections[conn] = true
			s.playerIDs[conn.ID()] = true
			total := len(s.connections)
			s.mu.Unlock()
			s.logger.Info("Client connected", "player", conn.ID(), "total", total)

		case conn := <-s.unregister:
			s.mu.Lock()
			_, known := s.connections[conn]
			if known {
				delete(s.connections, conn)
				delete(s.playerIDs, conn.ID())
				_ = conn.Close()
			}
			total := len(s.connections)
			s.mu.Unlock()
			if known {
				// Disconnect is a leave; the lobby tears the room down
				// if its round had started.
				s.lobby.Leave(conn)
				s.logger.Info("Client disconnected", "player", conn.ID(), "total", total)
			}

		case <-s.ctx.Done():
			return
		}
	}
}

// handleWebSocket handles WebSocket upgrade requests
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("Failed to upgrade connection", "error", err)
		return
	}

	client := NewConnection(conn, s.newPlayerID(), s.lobby, s.logger, s.clock, s.cfg.PingPeriod())
	s.register <- client
	client.Start()

	go func() {
		<-client.ctx.Done()
		s.unregister <- client
	}()
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "OK")
}

// newPlayerID generates a player id unique among live connections.
func (s *Server) newPlayerID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for {
		id := s.ids.Generate()
		if !s.playerIDs[id] {
			return id
		}
	}
}
