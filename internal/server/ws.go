package server

import (
	"net/http"

	"prediction-sizer-go/internal/hub"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Cross-origin policy is enforced by the CORS middleware for the REST
	// surface; the stream carries only this service's own public outputs.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// handleQuoteStream upgrades the connection and registers it with the hub.
func (s *Server) handleQuoteStream(w http.ResponseWriter, r *http.Request) {
	if s.hub == nil {
		s.respondError(w, http.StatusServiceUnavailable, "live stream is not enabled")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("Websocket upgrade failed", zap.Error(err))
		return
	}

	client := hub.NewClient(s.hub, conn, s.logger)
	s.logger.Debug("Quote stream subscriber attached", zap.String("client_id", client.ID))
}
