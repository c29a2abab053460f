package leaveapplication

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/ta28nov/leave-system/internal/domain"
	"github.com/ta28nov/leave-system/internal/middleware"
)

// RegisterRoutes memasang seluruh route leave application di bawah auth.
// Approve/reject dibatasi manager (admin lolos lewat bypass), delete
// admin-only; pembatasan halus per-record tetap di service lewat matrix.
func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rdb *redis.Client) {
	leaves := r.Group("/leave-applications")
	leaves.Use(middleware.AuthMiddleware(rdb))
	{
		leaves.POST("", middleware.Idempotency(rdb), handler.Create)
		leaves.GET("", handler.GetList)
		leaves.GET("/:id", handler.GetDetail)
		leaves.PUT("/:id", handler.Update)
		leaves.DELETE("/:id", middleware.RequireRole(domain.RoleAdmin), handler.Delete)

		leaves.POST("/:id/approve", middleware.RequireRole(domain.RoleManager), handler.Approve)
		leaves.POST("/:id/reject", middleware.RequireRole(domain.RoleManager), handler.Reject)
		leaves.POST("/:id/cancel", handler.Cancel)
	}
}
