package chat

import "github.com/gin-gonic/gin"

// RegisterRoutes wires all messaging routes under the authenticated group
func (h *Handler) RegisterRoutes(protected *gin.RouterGroup) {
	users := protected.Group("/users")
	{
		users.POST("/messages/send", h.Send)
		users.GET("/messages/last/:friendId", h.Last)
		users.GET("/messages/:friendId", h.History)
		users.GET("/unread-counts", h.UnreadCounts)
		users.POST("/reset-unread", h.ResetUnread)
	}
}
