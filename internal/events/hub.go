package events

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"alphaDash/internal/services"
)

const (
	writeWait  = 20 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
)

// socket is one browser tab; writes to it are serialized by mu.
type socket struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

// Hub keeps the live sockets of every session and pushes events to them.
// A session may hold several sockets at once.
type Hub struct {
	logger   services.Logger
	upgrader websocket.Upgrader

	mu    sync.RWMutex
	conns map[string]map[*websocket.Conn]*socket
}

// NewHub accepts upgrades from the given origins. An empty list, or a request
// without an Origin header, is always accepted.
func NewHub(allowedOrigins []string, logger services.Logger) *Hub {
	h := &Hub{
		logger: logger,
		conns:  make(map[string]map[*websocket.Conn]*socket),
	}
	h.upgrader = websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" || len(allowedOrigins) == 0 {
				return true
			}
			for _, o := range allowedOrigins {
				if o == "*" || strings.EqualFold(o, origin) {
					return true
				}
			}
			return false
		},
	}
	return h
}

// ServeWS upgrades the request and registers the socket under sessionID.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, sessionID string) {
	if sessionID == "" {
		http.Error(w, "missing session", http.StatusUnauthorized)
		return
	}
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.errorf("ws upgrade failed for session %s: %v", sessionID, err)
		return
	}

	s := &socket{conn: conn}
	h.mu.Lock()
	set, ok := h.conns[sessionID]
	if !ok {
		set = make(map[*websocket.Conn]*socket)
		h.conns[sessionID] = set
	}
	set[conn] = s
	h.mu.Unlock()

	h.infof("ws session %s connected (%s)", sessionID, r.RemoteAddr)

	go h.pingLoop(sessionID, s)
	go h.readLoop(sessionID, s)
}

// Publish writes event to every socket of the session. A logout event also
// closes them.
func (h *Hub) Publish(sessionID string, event services.Event) {
	data, err := json.Marshal(event)
	if err != nil {
		h.errorf("ws marshal %s failed: %v", event.Type, err)
		return
	}
	for _, s := range h.sockets(sessionID) {
		h.safeWrite(sessionID, s, func(c *websocket.Conn) error {
			return c.WriteMessage(websocket.TextMessage, data)
		})
	}
	if event.Type == services.EventLoggedOut {
		h.CloseSession(sessionID)
	}
}

// CloseSession drops every socket of the session.
func (h *Hub) CloseSession(sessionID string) {
	for _, s := range h.sockets(sessionID) {
		s.mu.Lock()
		_ = s.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "logged out"),
			time.Now().Add(time.Second))
		s.mu.Unlock()
		h.closeConn(sessionID, s.conn)
	}
}

// Count reports how many sockets the session has open.
func (h *Hub) Count(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns[sessionID])
}

func (h *Hub) sockets(sessionID string) []*socket {
	h.mu.RLock()
	defer h.mu.RUnlock()
	set := h.conns[sessionID]
	out := make([]*socket, 0, len(set))
	for _, s := range set {
		out = append(out, s)
	}
	return out
}

func (h *Hub) alive(sessionID string, conn *websocket.Conn) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.conns[sessionID][conn]
	return ok
}

func (h *Hub) pingLoop(sessionID string, s *socket) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for range ticker.C {
		if !h.alive(sessionID, s.conn) {
			return
		}
		h.safeWrite(sessionID, s, func(c *websocket.Conn) error {
			return c.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
		})
	}
}

// readLoop keeps the read deadline fresh and answers text "ping" frames.
// Clients send nothing else.
func (h *Hub) readLoop(sessionID string, s *socket) {
	conn := s.conn
	defer h.closeConn(sessionID, conn)

	conn.SetReadLimit(16 << 10)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		mt, message, err := conn.ReadMessage()
		if err != nil {
			return
		}
		conn.SetReadDeadline(time.Now().Add(pongWait))
		if mt == websocket.TextMessage && strings.EqualFold(strings.TrimSpace(string(message)), "ping") {
			h.safeWrite(sessionID, s, func(c *websocket.Conn) error {
				return c.WriteMessage(websocket.TextMessage, []byte("pong"))
			})
		}
	}
}

func (h *Hub) closeConn(sessionID string, conn *websocket.Conn) {
	_ = conn.Close()
	h.mu.Lock()
	if set, ok := h.conns[sessionID]; ok {
		if _, ok := set[conn]; ok {
			delete(set, conn)
			h.infof("ws session %s disconnected", sessionID)
		}
		if len(set) == 0 {
			delete(h.conns, sessionID)
		}
	}
	h.mu.Unlock()
}

func (h *Hub) safeWrite(sessionID string, s *socket, fn func(*websocket.Conn) error) {
	s.mu.Lock()
	s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	err := fn(s.conn)
	s.mu.Unlock()
	if err != nil {
		h.errorf("ws session %s write failed: %v", sessionID, err)
		h.closeConn(sessionID, s.conn)
	}
}

func (h *Hub) infof(format string, args ...interface{}) {
	if h.logger != nil {
		h.logger.Infof(format, args...)
	}
}

func (h *Hub) errorf(format string, args ...interface{}) {
	if h.logger != nil {
		h.logger.Errorf(format, args...)
	}
}
