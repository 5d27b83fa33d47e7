package friend

import "github.com/gin-gonic/gin"

// RegisterRoutes wires all friend routes under the authenticated group
func (h *Handler) RegisterRoutes(protected *gin.RouterGroup) {
	users := protected.Group("/users")
	{
		users.POST("/send-friend-request", h.SendRequest)
		users.POST("/respond-friend-request", h.Respond)
		users.GET("/friend-requests", h.ListPending)
		users.POST("/add-friend", h.AddFriend)
		users.POST("/remove-friend", h.RemoveFriend)
		users.GET("/friends", h.ListFriends)
		users.GET("/search-users", h.Search)
	}
}
