// Package transport adapts the handler's message contract to a WebSocket
// wire, reusing the teacher's gorilla/websocket connection pattern
// (server/websocket.go's Client/readPump/writePump) generalized from one
// netrek galaxy to many independent multi-game sessions: the transport
// owns wire framing and connection lifecycle only, every message's
// semantics live in handler.Handler.
package transport

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/lab1702/minigames-server/internal/handler"
	"github.com/lab1702/minigames-server/internal/ids"
	"github.com/lab1702/minigames-server/internal/wire"
)

const (
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
	writeWait  = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin:       isValidOrigin,
	EnableCompression: true,
}

// isValidOrigin allows same-origin and localhost connections, matching the
// teacher's permissive development-friendly policy (server/websocket.go).
func isValidOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	originURL, err := url.Parse(origin)
	if err != nil {
		return false
	}
	if r.Host == originURL.Host {
		return true
	}
	return strings.HasPrefix(originURL.Host, "localhost:") ||
		strings.HasPrefix(originURL.Host, "127.0.0.1:") ||
		originURL.Host == "localhost" ||
		originURL.Host == "127.0.0.1"
}

// Server upgrades incoming HTTP requests to WebSocket connections and wires
// each one to the shared handler.Handler.
type Server struct {
	log zerolog.Logger
	h   *handler.Handler
}

// NewServer builds a transport Server over h.
func NewServer(log zerolog.Logger, h *handler.Handler) *Server {
	return &Server{log: log, h: h}
}

// ServeHTTP upgrades the connection, mints a fresh ClientId, and spawns the
// per-connection reader/writer goroutine pair.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := ids.NewClientId()
	outbox, err := s.h.Connect(client)
	if err != nil {
		s.log.Warn().Err(err).Str("client_id", string(client)).Msg("connect rejected")
		conn.Close()
		return
	}

	c := &conn_{id: client, conn: conn, h: s.h, log: s.log}
	go c.writePump(outbox)
	go c.readPump()
}

// conn_ holds one live connection's wire-framing state. Named with a
// trailing underscore to avoid colliding with the gorilla websocket.Conn
// field of the same conceptual role.
type conn_ struct {
	id   ids.ClientId
	conn *websocket.Conn
	h    *handler.Handler
	log  zerolog.Logger
}

// readPump decodes inbound frames and hands each to the handler, until the
// connection errors or closes (spec.md 4.8: "Disconnect or stream-end").
func (c *conn_) readPump() {
	defer func() {
		c.h.Disconnect(c.id)
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var msg wire.ClientMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.log.Debug().Err(err).Str("client_id", string(c.id)).Msg("websocket read error")
			}
			return
		}
		c.handle(msg)
	}
}

// handle recovers from any panic in the handler so one malformed or
// mishandled message never tears down the connection (spec.md 4.8's
// handler is expected to be total; this is the transport's own backstop,
// mirroring the teacher's handleMessage panic recovery).
func (c *conn_) handle(msg wire.ClientMessage) {
	defer func() {
		if r := recover(); r != nil {
			c.log.Error().Interface("panic", r).Str("client_id", string(c.id)).Str("type", msg.Type).Msg("recovered panic handling message")
		}
	}()
	c.h.Handle(c.id, msg)
}

// writePump drains outbox to the socket and keeps the connection alive with
// periodic pings, mirroring the teacher's writePump.
func (c *conn_) writePump(outbox <-chan wire.ServerMessage) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-outbox:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
