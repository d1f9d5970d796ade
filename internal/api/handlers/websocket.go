package handlers

import (
	"log/slog"
	"net/http"

	"wall-service/internal/websocket"
	"wall-service/pkg/events"

	"github.com/gin-gonic/gin"
	gorillaws "github.com/gorilla/websocket"
)

type WSHandler struct {
	hub        *websocket.Hub
	upgrader   *gorillaws.Upgrader
	sendBuffer int
}

func NewWSHandler(hub *websocket.Hub, allowedOrigins []string, sendBuffer int) *WSHandler {
	return &WSHandler{
		hub:        hub,
		upgrader:   websocket.NewUpgrader(allowedOrigins),
		sendBuffer: sendBuffer,
	}
}

// HandleWebSocket godoc
// @Summary WebSocket connection
// @Description Join the notification wall. Without userId the channel belongs to the anonymous user.
// @Tags websocket
// @Param userId query string false "User ID for WebSocket connection"
// @Success 101 "Switching Protocols - WebSocket connection established"
// @Router /ws [get]
func (h *WSHandler) HandleWebSocket(c *gin.Context) {
	userID := c.Query("userId")
	if userID == "" {
		userID = events.AnonymousUser
	}

	slog.Debug("WebSocket connection request", "userID", userID, "remote", c.ClientIP())
	websocket.ServeWS(h.hub, h.upgrader, h.sendBuffer, c.Writer, c.Request, userID)
}

// Health godoc
// @Summary Health check
// @Description Liveness and hub counters
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *WSHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"hub":    h.hub.Metrics(),
	})
}
