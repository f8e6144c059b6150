package hub

import (
	"context"
	"encoding/json"
	"sync"

	"go.uber.org/zap"
)

// Envelope wraps every message sent to subscribers with its event type.
type Envelope struct {
	Event   string      `json:"event"`
	Payload interface{} `json:"payload"`
}

// Hub maintains the set of connected websocket clients and fans published
// events out to all of them.
type Hub struct {
	logger *zap.Logger

	clients   map[*Client]bool
	clientsMu sync.RWMutex

	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
}

// New creates a hub. Run must be called before clients are registered.
func New(logger *zap.Logger) *Hub {
	return &Hub{
		logger:     logger,
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run drives the hub's main loop until the context is cancelled.
func (h *Hub) Run(ctx context.Context) {
	h.logger.Info("Hub started")

	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return
		case c := <-h.register:
			h.addClient(c)
		case c := <-h.unregister:
			h.removeClient(c)
		case msg := <-h.broadcast:
			h.fanOut(msg)
		}
	}
}

// Register adds a client to the hub.
func (h *Hub) Register(c *Client) {
	h.register <- c
}

// Unregister removes a client from the hub.
func (h *Hub) Unregister(c *Client) {
	h.unregister <- c
}

// Publish serializes an event and queues it for broadcast. Implements the
// poller's Publisher interface. Messages are dropped when the broadcast
// buffer is full rather than blocking the publisher.
func (h *Hub) Publish(event string, payload interface{}) {
	msg, err := json.Marshal(Envelope{Event: event, Payload: payload})
	if err != nil {
		h.logger.Error("Failed to encode event", zap.String("event", event), zap.Error(err))
		return
	}

	select {
	case h.broadcast <- msg:
	default:
		h.logger.Warn("Broadcast buffer full, dropping message", zap.String("event", event))
	}
}

// ClientCount reports the number of connected clients.
func (h *Hub) ClientCount() int {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	return len(h.clients)
}

func (h *Hub) addClient(c *Client) {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()

	h.clients[c] = true
	h.logger.Info("Client connected", zap.String("client_id", c.ID), zap.Int("total", len(h.clients)))
}

func (h *Hub) removeClient(c *Client) {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()

	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
		h.logger.Info("Client disconnected", zap.String("client_id", c.ID), zap.Int("total", len(h.clients)))
	}
}

// fanOut delivers a message to every client, dropping it for clients whose
// send buffer is full so one slow consumer cannot stall the rest.
func (h *Hub) fanOut(msg []byte) {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()

	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			h.logger.Warn("Client send buffer full, dropping message", zap.String("client_id", c.ID))
		}
	}
}

func (h *Hub) shutdown() {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()

	for c := range h.clients {
		close(c.send)
		delete(h.clients, c)
	}
	h.logger.Info("Hub stopped")
}
