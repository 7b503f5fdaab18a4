package server

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Maximum message size allowed from peer
	maxMessageSize = 4096

	// Outbound buffer; a client that can't drain this is closed
	sendBufferSize = 64
)

// ErrConnectionClosed reports a send on a closed connection.
var ErrConnectionClosed = websocket.ErrCloseSent

// Connection wraps one client websocket. Each connection gets an opaque
// player id at upgrade time that identifies the player for its lifetime.
type Connection struct {
	conn      *websocket.Conn
	send      chan any
	playerID  string
	lobby     *Lobby
	logger    *log.Logger
	clock     quartz.Clock
	pingEvery time.Duration
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
}

// NewConnection creates a connection wrapper for an upgraded websocket.
func NewConnection(conn *websocket.Conn, playerID string, lobby *Lobby, logger *log.Logger, clock quartz.Clock, pingEvery time.Duration) *Connection {
	ctx, cancel := context.WithCancel(context.Background())

	return &Connection{
		conn:      conn,
		send:      make(chan any, sendBufferSize),
		playerID:  playerID,
		lobby:     lobby,
		logger:    logger.WithPrefix("conn").With("player", playerID),
		clock:     clock,
		pingEvery: pingEvery,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// ID returns the opaque player id bound to this connection.
func (c *Connection) ID() string {
	return c.playerID
}

// Start begins handling the connection
func (c *Connection) Start() {
	go c.writePump()
	go c.readPump()
}

// Close closes the connection
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.cancel()
		close(c.send)
		err = c.conn.Close()
	})
	return err
}

// Send queues a message for the client. A full buffer closes the
// connection rather than blocking a room's fan-out.
func (c *Connection) Send(msg any) error {
	defer func() {
		if r := recover(); r != nil {
			// Channel was closed during shutdown
			c.logger.Debug("Send on closed connection", "error", r)
		}
	}()

	select {
	case c.send <- msg:
		return nil
	case <-c.ctx.Done():
		return c.ctx.Err()
	default:
		c.logger.Warn("Connection send buffer full, closing connection")
		_ = c.Close()
		return ErrConnectionClosed
	}
}

// readPump handles incoming messages from the client. Malformed payloads
// are logged and ignored; the connection stays open. Transport errors end
// the loop and take the disconnect path.
func (c *Connection) readPump() {
	defer func() { _ = c.Close() }()

	pongWait := 2 * c.pingEvery
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(c.clock.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(c.clock.Now().Add(pongWait))
		return nil
	})

	for {
		select {
		case <-c.ctx.Done():
			return
		default:
		}

		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				c.logger.Error("WebSocket error", "error", err)
			}
			return
		}

		var req Request
		if err := json.Unmarshal(data, &req); err != nil {
			c.logger.Error("Malformed message", "error", err)
			continue
		}
		c.handleRequest(req)
	}
}

// writePump handles outgoing messages and the periodic liveness ping.
func (c *Connection) writePump() {
	ticker := c.clock.NewTicker(c.pingEvery)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(c.clock.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(msg); err != nil {
				c.logger.Error("Failed to write message", "error", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(c.clock.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.ctx.Done():
			return
		}
	}
}

// handleRequest routes an inbound envelope to the lobby. Unrecognized
// types are a protocol error: logged, ignored, connection kept.
func (c *Connection) handleRequest(req Request) {
	c.logger.Debug("Received message", "type", req.Type)

	switch req.Type {
	case TypeCreateGame:
		c.lobby.CreateGame(c)
	case TypeJoinGame:
		c.lobby.JoinGame(c, req.GameID)
	case TypeStartGame:
		c.lobby.StartGame(c)
	case TypePlayTurn:
		c.lobby.PlayTurn(c, req.Cards)
	case TypePassTurn:
		c.lobby.PassTurn(c)
	case TypeLeaveGame:
		c.lobby.Leave(c)
	default:
		c.logger.Error("Unrecognized message type", "type", req.Type)
	}
}
