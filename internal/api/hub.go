package api

import (
	"net/http"
	"sync"

	"lighttimer/internal/scheduler"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// connWrapper wraps a WebSocket connection with its write mutex.
type connWrapper struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
}

// Hub fans decision events out to connected WebSocket clients. It implements
// scheduler.Sink.
type Hub struct {
	logger  *zap.Logger
	connsMu sync.Mutex
	conns   []*connWrapper
}

// NewHub creates an empty hub.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{logger: logger.Named("events")}
}

// Publish sends the event to every connected client, dropping connections
// whose writes fail.
func (h *Hub) Publish(ev scheduler.Event) {
	h.connsMu.Lock()
	defer h.connsMu.Unlock()

	alive := h.conns[:0]
	for _, cw := range h.conns {
		cw.writeMu.Lock()
		err := cw.conn.WriteJSON(ev)
		cw.writeMu.Unlock()
		if err != nil {
			h.logger.Debug("Dropping event client", zap.Error(err))
			cw.conn.Close()
			continue
		}
		alive = append(alive, cw)
	}
	h.conns = alive
}

// handleEvents upgrades the request and registers the client. The connection
// stays open until the client goes away or the server stops.
func (h *Hub) handleEvents(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}

	cw := &connWrapper{conn: conn}
	h.connsMu.Lock()
	h.conns = append(h.conns, cw)
	h.connsMu.Unlock()

	h.logger.Info("Event client connected", zap.String("remote_addr", r.RemoteAddr))

	// Reads are only used to detect the client closing.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				h.remove(cw)
				return
			}
		}
	}()
}

func (h *Hub) remove(cw *connWrapper) {
	h.connsMu.Lock()
	defer h.connsMu.Unlock()

	for i, c := range h.conns {
		if c == cw {
			h.conns = append(h.conns[:i], h.conns[i+1:]...)
			break
		}
	}
	cw.conn.Close()
}

// closeAll disconnects every client.
func (h *Hub) closeAll() {
	h.connsMu.Lock()
	defer h.connsMu.Unlock()

	for _, cw := range h.conns {
		cw.conn.Close()
	}
	h.conns = nil
}
