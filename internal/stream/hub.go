// Package stream pushes executed trips to WebSocket subscribers in
// real time. The hub fans one broadcast channel out to every connected
// client; slow clients are dropped rather than allowed to block the
// rest.
package stream

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"rail-freight-lab/internal/domain"
	"rail-freight-lab/internal/observability"
)

// clientSendBuffer is the per-client outbound queue; a client whose
// buffer fills up is disconnected.
const clientSendBuffer = 256

// Message is the JSON envelope for all stream traffic.
type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// client represents one connected subscriber.
type client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// Hub maintains the set of active clients and broadcasts messages to
// them. Run must be started in its own goroutine before serving
// connections.
type Hub struct {
	clients    map[*client]bool
	broadcast  chan []byte
	register   chan *client
	unregister chan *client
	logger     *log.Logger
}

// NewHub creates a new Hub instance.
func NewHub(logger *log.Logger) *Hub {
	return &Hub{
		clients:    make(map[*client]bool),
		broadcast:  make(chan []byte, 64),
		register:   make(chan *client),
		unregister: make(chan *client),
		logger:     logger,
	}
}

// Run is the hub event loop. It blocks until ctx is cancelled, then
// closes every client connection.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				close(c.send)
				delete(h.clients, c)
			}
			observability.DefaultMetrics.StreamClients.Set(0)
			return

		case c := <-h.register:
			h.clients[c] = true
			observability.DefaultMetrics.StreamClients.Set(float64(len(h.clients)))

		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
			observability.DefaultMetrics.StreamClients.Set(float64(len(h.clients)))

		case message := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.send <- message:
					observability.DefaultMetrics.StreamMessagesSent.Inc()
				default:
					// Full buffer means a stalled client
					close(c.send)
					delete(h.clients, c)
					observability.DefaultMetrics.StreamMessagesDropped.Inc()
				}
			}
			observability.DefaultMetrics.StreamClients.Set(float64(len(h.clients)))
		}
	}
}

// BroadcastTrip pushes one executed trip to all subscribers.
func (h *Hub) BroadcastTrip(record *domain.TripRecord) {
	h.publish("trip_executed", record)
}

// BroadcastReportReady announces a freshly generated report.
func (h *Hub) BroadcastReportReady(generatedAt int64) {
	h.publish("report_ready", map[string]int64{"generated_at": generatedAt})
}

func (h *Hub) publish(msgType string, payload interface{}) {
	data, err := json.Marshal(Message{Type: msgType, Payload: payload})
	if err != nil {
		h.logger.Printf("stream: marshal %s: %v", msgType, err)
		return
	}

	select {
	case h.broadcast <- data:
	default:
		// Hub loop is saturated; drop rather than block the runner
		observability.DefaultMetrics.StreamMessagesDropped.Inc()
	}
}

// upgrader configures the WebSocket handshake. Origins are not checked;
// the server is expected to sit behind a trusted proxy.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// ServeWS upgrades an HTTP request to a WebSocket subscription.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Printf("stream: upgrade: %v", err)
		return
	}

	c := &client{hub: h, conn: conn, send: make(chan []byte, clientSendBuffer)}
	h.register <- c

	go c.writePump()
	go c.readPump()
}

// readPump discards inbound messages and detects disconnects.
func (c *client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Printf("stream: read: %v", err)
			}
			return
		}
	}
}

// writePump pumps messages from the hub to the connection. The loop
// exits when the hub closes the send channel.
func (c *client) writePump() {
	defer c.conn.Close()

	for message := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
}
