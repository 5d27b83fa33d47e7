package ws

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"socialhub/internal/pkg/jwt"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true }, // Allow all origins (configure in prod)
}

// Handler upgrades HTTP connections and joins clients to their room.
type Handler struct {
	hub        *Hub
	jwtService *jwt.Service
}

func NewHandler(hub *Hub, jwtService *jwt.Service) *Handler {
	return &Handler{hub: hub, jwtService: jwtService}
}

// HandleWebSocket serves GET /ws?token=ACCESS_TOKEN. Authentication goes
// through the query string because browsers cannot set headers on WebSocket
// upgrades. A valid token joins the connection to the owner's room.
func (h *Handler) HandleWebSocket(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Token is required. Use ?token=YOUR_ACCESS_TOKEN"})
		return
	}

	claims, err := h.jwtService.ParseAccessToken(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Msg("websocket upgrade failed")
		return
	}

	log.Info().Int64("user_id", claims.UserID).Msg("websocket connected")
	h.hub.ServeWS(conn, claims.UserID)
	log.Info().Int64("user_id", claims.UserID).Msg("websocket disconnected")
}
