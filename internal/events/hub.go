// Package events broadcasts payment notifications to WebSocket subscribers.
// Delivery is fire-and-forget, at most once; the creation and listing paths
// do not trigger broadcasts themselves, callers wire the Notify hooks.
package events

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"payment-dashboard/internal/models"
)

// Event is the wire envelope for a broadcast.
type Event struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// subscriber is the slice of a websocket connection the hub needs. Tests
// substitute fakes.
type subscriber interface {
	WriteJSON(v any) error
	Close() error
}

type Hub struct {
	logger   zerolog.Logger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[subscriber]struct{}
}

func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Browser clients connect from the dashboard origins; CORS is
			// enforced at the HTTP layer, not here.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[subscriber]struct{}),
	}
}

// HandleWS upgrades the request and keeps the connection subscribed until the
// client disconnects.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	h.register(conn)
	h.logger.Info().Str("remote_addr", conn.RemoteAddr().String()).Msg("Client connected")

	go func() {
		defer func() {
			h.unregister(conn)
			conn.Close()
			h.logger.Info().Str("remote_addr", conn.RemoteAddr().String()).Msg("Client disconnected")
		}()
		for {
			// Inbound messages are ignored; the read loop only detects closure.
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (h *Hub) register(c subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = struct{}{}
}

func (h *Hub) unregister(c subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, c)
}

// ClientCount reports the number of connected subscribers.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// NotifyNewPayment broadcasts a newPayment event to all subscribers.
func (h *Hub) NotifyNewPayment(payment *models.Payment) {
	h.broadcast("newPayment", payment)
}

// NotifyPaymentUpdate broadcasts a paymentUpdate event to all subscribers.
func (h *Hub) NotifyPaymentUpdate(payment *models.Payment) {
	h.broadcast("paymentUpdate", payment)
}

func (h *Hub) broadcast(event string, data any) {
	h.mu.Lock()
	defer h.mu.Unlock()

	msg := Event{Event: event, Data: data}
	for c := range h.clients {
		if err := c.WriteJSON(msg); err != nil {
			// A failed write means the client is gone; drop it.
			h.logger.Warn().Err(err).Str("event", event).Msg("Dropping unresponsive subscriber")
			delete(h.clients, c)
			c.Close()
		}
	}
}
