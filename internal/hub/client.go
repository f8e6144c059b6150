package hub

import (
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	// Inbound frames are only used for liveness; anything large is abuse.
	maxMessageSize = 512
)

// Client is one websocket subscriber.
type Client struct {
	ID     string
	hub    *Hub
	conn   *websocket.Conn
	logger *zap.Logger
	send   chan []byte
}

// NewClient wraps an upgraded connection and starts its read and write pumps.
func NewClient(h *Hub, conn *websocket.Conn, logger *zap.Logger) *Client {
	c := &Client{
		ID:     uuid.NewString(),
		hub:    h,
		conn:   conn,
		logger: logger,
		send:   make(chan []byte, 64),
	}

	h.Register(c)
	go c.writePump()
	go c.readPump()

	return c
}

// readPump drains inbound frames to keep pong handling alive and unregisters
// the client when the connection drops.
func (c *Client) readPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn("Unexpected close", zap.String("client_id", c.ID), zap.Error(err))
			}
			return
		}
	}
}

// writePump forwards queued messages and pings the peer on a fixed period.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the channel.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
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
