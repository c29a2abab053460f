package auth

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/ta28nov/leave-system/internal/middleware"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rdb *redis.Client) {
	auth := r.Group("/auth")
	{
		auth.POST("/register", middleware.RateLimitByIP(0.1, 3), handler.Register)
		auth.POST("/login", middleware.RateLimitByIP(0.08, 5), handler.Login)
		auth.POST("/logout", middleware.AuthMiddleware(rdb), handler.Logout)
		auth.POST("/refresh", handler.Refresh)
		auth.GET("/me", middleware.AuthMiddleware(rdb), middleware.RateLimitByUser(2, 5), handler.Me)
	}
}
