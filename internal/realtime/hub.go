package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/pingline/pingline/internal/auth"
	"github.com/pingline/pingline/internal/config"
	"github.com/pingline/pingline/internal/deliver"
	"github.com/pingline/pingline/internal/presence"
)

// ErrConnGone is returned by Send when the target connection has
// already been removed from the hub.
var ErrConnGone = errors.New("connection gone")

// Hub owns all live WebSocket connections, the presence registry, and
// the delivery router. It implements deliver.Sender.
type Hub struct {
	cfg      config.RealtimeConfig
	upgrader websocket.Upgrader
	registry *presence.Registry
	router   *deliver.Router
	logger   *slog.Logger

	mu    sync.RWMutex
	conns map[string]*conn
}

// HubStats is a point-in-time snapshot for the health endpoint.
type HubStats struct {
	Connections int `json:"connections"`
	OnlineUsers int `json:"online_users"`
}

// NewHub creates a hub on top of an externally owned presence
// registry.
func NewHub(cfg config.RealtimeConfig, registry *presence.Registry, logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}

	h := &Hub{
		cfg: cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				// The session token is the access control; the
				// deployment fronts this with a reverse proxy.
				return true
			},
		},
		registry: registry,
		logger:   logger.With("component", "realtime"),
		conns:    make(map[string]*conn),
	}
	h.router = deliver.NewRouter(registry, h, h.logger)
	return h
}

// Handler returns the WebSocket endpoint. It must run behind the auth
// middleware: the upgrade is refused without an authenticated user.
func (h *Hub) Handler() http.Handler {
	return http.HandlerFunc(h.serveWS)
}

// Stats returns current connection statistics.
func (h *Hub) Stats() HubStats {
	h.mu.RLock()
	connected := len(h.conns)
	h.mu.RUnlock()

	return HubStats{
		Connections: connected,
		OnlineUsers: h.registry.Len(),
	}
}

// Send implements deliver.Sender: it forwards a delivery event to one
// live connection as a receiveMessage frame.
func (h *Hub) Send(connID string, event deliver.Event) error {
	h.mu.RLock()
	c, ok := h.conns[connID]
	h.mu.RUnlock()
	if !ok {
		return ErrConnGone
	}

	data, err := newEnvelope(EventReceiveMessage, event)
	if err != nil {
		return err
	}
	return c.write(data)
}

// Shutdown closes every live connection. Each read loop observes the
// close, detaches its presence entry, and exits.
func (h *Hub) Shutdown(ctx context.Context) {
	h.mu.RLock()
	conns := make([]*conn, 0, len(h.conns))
	for _, c := range h.conns {
		conns = append(conns, c)
	}
	h.mu.RUnlock()

	for _, c := range conns {
		c.close()
	}
	h.logger.Info("realtime hub shut down", "connections_closed", len(conns))
}

// serveWS upgrades the request and runs the connection lifecycle.
func (h *Hub) serveWS(w http.ResponseWriter, r *http.Request) {
	authedID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	c := newConn(uuid.NewString(), ws, h.cfg.WriteTimeout)

	h.mu.Lock()
	h.conns[c.id] = c
	h.mu.Unlock()

	h.logger.Info("client connected", "conn", c.id, "user", authedID)

	go c.heartbeatLoop(h.cfg.PingInterval)

	h.readLoop(c, authedID)

	// Detach is terminal for this connection: remove it before the
	// roster broadcast so no route can pick it up again.
	h.mu.Lock()
	delete(h.conns, c.id)
	h.mu.Unlock()

	h.registry.Detach(c.id)
	c.close()
	h.broadcastRoster()

	h.logger.Info("client disconnected", "conn", c.id, "user", authedID)
}

// readLoop consumes frames until the client disconnects. Malformed
// frames are ignored; they never terminate the connection or the
// process.
func (h *Hub) readLoop(c *conn, authedID uuid.UUID) {
	c.ws.SetReadLimit(h.cfg.MaxMessageBytes)
	c.ws.SetReadDeadline(time.Now().Add(h.cfg.PongTimeout))
	c.ws.SetPongHandler(func(string) error {
		c.ws.SetReadDeadline(time.Now().Add(h.cfg.PongTimeout))
		return nil
	})

	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			return
		}

		var env Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			h.logger.Debug("ignoring malformed frame", "conn", c.id, "error", err)
			continue
		}

		h.handleEvent(c, authedID, env)
	}
}

// handleEvent dispatches one client event. Handlers run to completion;
// the only cross-component call is the registry, which never blocks.
func (h *Hub) handleEvent(c *conn, authedID uuid.UUID, env Envelope) {
	switch env.Event {
	case EventAddUser:
		var declared string
		if err := json.Unmarshal(env.Data, &declared); err != nil {
			h.logger.Debug("ignoring malformed addUser", "conn", c.id, "error", err)
			return
		}
		// The declared identity must match the session that opened
		// the connection; a mismatch is never registered.
		if declared != authedID.String() {
			h.logger.Warn("addUser identity mismatch, ignoring",
				"conn", c.id,
				"declared", declared,
				"authenticated", authedID,
			)
			return
		}
		h.registry.Attach(declared, c.id)
		h.broadcastRoster()

	case EventSendMessage:
		var msg SendMessagePayload
		if err := json.Unmarshal(env.Data, &msg); err != nil {
			h.logger.Debug("ignoring malformed sendMessage", "conn", c.id, "error", err)
			return
		}
		if msg.SenderID != authedID.String() {
			h.logger.Warn("sendMessage sender mismatch, ignoring",
				"conn", c.id,
				"declared", msg.SenderID,
				"authenticated", authedID,
			)
			return
		}
		if msg.ReceiverID == "" || msg.Message == "" {
			h.logger.Debug("ignoring incomplete sendMessage", "conn", c.id)
			return
		}
		h.router.Route(msg.SenderID, msg.ReceiverID, msg.Message)

	default:
		h.logger.Debug("ignoring unknown event", "conn", c.id, "event", env.Event)
	}
}

// broadcastRoster pushes the full presence snapshot to every live
// connection. Snapshots are idempotent, so out-of-order delivery
// across connections is harmless. Per-connection write failures are
// swallowed; the failing connection's own read loop cleans it up.
func (h *Hub) broadcastRoster() {
	data, err := newEnvelope(EventOnlineUsers, h.registry.Roster())
	if err != nil {
		h.logger.Error("marshal roster", "error", err)
		return
	}

	h.mu.RLock()
	conns := make([]*conn, 0, len(h.conns))
	for _, c := range h.conns {
		conns = append(conns, c)
	}
	h.mu.RUnlock()

	for _, c := range conns {
		if err := c.write(data); err != nil {
			h.logger.Debug("roster broadcast failed", "conn", c.id, "error", err)
		}
	}
}
