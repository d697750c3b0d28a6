package server

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/chemwatch/chemwatch/internal/domain"
)

// Hub pushes alert lifecycle events to dashboard WebSocket clients so
// they stop polling GET /api/alerts.
type Hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients: map[*websocket.Conn]struct{}{},
	}
}

type wsEvent struct {
	Type    string        `json:"type"`
	Alert   *domain.Alert `json:"alert,omitempty"`
	AlertID int           `json:"alertID,omitempty"`
}

func (h *Hub) AlertCreated(alert domain.Alert) {
	h.broadcast(wsEvent{Type: "alert_created", Alert: &alert})
}

func (h *Hub) AlertResolved(id int) {
	h.broadcast(wsEvent{Type: "alert_resolved", AlertID: id})
}

func (h *Hub) broadcast(ev wsEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		if err := conn.WriteJSON(ev); err != nil {
			logrus.Errorf("error writing to ws conn %v", err)
			conn.Close()
			delete(h.clients, conn)
		}
	}
}

func (h *Hub) handleWS(w http.ResponseWriter, r *http.Request) {
	wsID := r.Header.Get("Sec-Websocket-Key")
	if wsID != "" {
		logrus.Infof("Received new WS conn = %s", wsID)
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:  512,
		WriteBufferSize: 512,
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logrus.Errorf("error establish ws conn %v", err)
		return
	}

	h.mu.Lock()
	h.clients[conn] = struct{}{}
	h.mu.Unlock()

	// Reads are drained only to notice the close.
	go func(conn *websocket.Conn) {
		defer func() {
			h.mu.Lock()
			delete(h.clients, conn)
			h.mu.Unlock()
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}(conn)
}

func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}
