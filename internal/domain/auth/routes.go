package auth

import "github.com/gin-gonic/gin"

// RegisterPublicRoutes wires the endpoints that need no session. The resend
// endpoint takes an extra per-IP rate limiter on top of the service-level
// cooldown.
func (h *Handler) RegisterPublicRoutes(v1 *gin.RouterGroup, resendLimiter gin.HandlerFunc) {
	users := v1.Group("/users")
	{
		users.POST("/register", h.Register)
		users.POST("/verify-code", h.VerifyCode)
		users.POST("/resend-code", resendLimiter, h.ResendCode)
		users.POST("/login", h.Login)
		users.POST("/refresh-token", h.Refresh)
		users.POST("/forgot-password", h.ForgotPassword)
		users.POST("/reset-password", h.ResetPassword)
		users.GET("/all", h.GetAllUsers)
	}
}

func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup) {
	users := protected.Group("/users")
	{
		users.POST("/logout", h.Logout)
		users.POST("/change-password", h.ChangePassword)
		users.GET("/me", h.GetMe)
		users.PATCH("/update-account", h.UpdateAccount)
	}
}
