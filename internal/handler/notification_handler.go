package handler

import (
	"askvantage/internal/hub"
	"askvantage/internal/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"
)

// NotificationHandler exposes the hub's fan-out over a websocket. Each
// connection is one subscriber; events a listener misses while disconnected
// are not replayed — clients reconcile through GET /api/questions.
type NotificationHandler struct {
	hub *hub.Hub
}

// NewNotificationHandler creates a new NotificationHandler instance
func NewNotificationHandler(h *hub.Hub) *NotificationHandler {
	return &NotificationHandler{hub: h}
}

// Upgrade rejects plain HTTP requests on the websocket route.
func (h *NotificationHandler) Upgrade() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	}
}

// Stream attaches the connection to the hub and pumps broadcast events to it
// until the client disconnects.
func (h *NotificationHandler) Stream() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		sub := h.hub.Subscribe()
		defer h.hub.Unsubscribe(sub)

		log := logger.Get()
		log.Info("Notification listener connected", zap.String("remote", conn.RemoteAddr().String()))
		defer log.Info("Notification listener disconnected", zap.String("remote", conn.RemoteAddr().String()))

		// Drain reads so we notice the client closing the connection.
		disconnected := make(chan struct{})
		go func() {
			defer close(disconnected)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		for {
			select {
			case event, ok := <-sub.Events():
				if !ok {
					return
				}
				if err := conn.WriteJSON(event); err != nil {
					log.Warn("Failed to push event to listener", zap.Error(err))
					return
				}
			case <-disconnected:
				return
			}
		}
	})
}
