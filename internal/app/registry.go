package app

import (
	"database/sql"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ta28nov/leave-system/internal/auth"
	"github.com/ta28nov/leave-system/internal/leaveapplication"
	"github.com/ta28nov/leave-system/internal/middleware"
	"github.com/ta28nov/leave-system/internal/user"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	// --- Repositories ---
	userRepo := user.NewRepository(gormDB)
	leaveRepo := leaveapplication.NewRepository(gormDB)

	// --- Services ---
	authService := auth.NewService(userRepo, rdb)
	leaveService := leaveapplication.NewService(db, leaveRepo)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService)
	leaveHandler := leaveapplication.NewHandler(leaveService, rdb)

	// --- Routes Registration ---
	router.Use(middleware.RequestID(), middleware.ContextLogger(zap.L()))

	api := router.Group("/api")
	{
		auth.RegisterRoutes(api, authHandler, rdb)
		leaveapplication.RegisterRoutes(api, leaveHandler, rdb)
	}

	return nil
}
