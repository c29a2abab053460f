package app

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/ta28nov/leave-system/internal/leaveapplication"
	"github.com/ta28nov/leave-system/internal/shared/connection"
	"github.com/ta28nov/leave-system/internal/user"
)

// BuildApp menyiapkan infrastruktur (postgres, redis), migrasi skema,
// seeding opsional, lalu mendaftarkan modul + route.
func BuildApp(router *gin.Engine) error {
	// 1. Setup Infrastructure
	gormDB, err := connection.ConnectGORMWithRetry(
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
		5,
	)
	if err != nil {
		return err
	}
	log.Println("✅ Database connection established")

	db, err := gormDB.DB()
	if err != nil {
		return err
	}

	redisClient, err := connection.ConnectRedisWithRetry(os.Getenv("REDIS_ADDR"), 5)
	if err != nil {
		return err
	}
	log.Println("✅ Redis connection established")

	// 2. Schema migration
	if err := gormDB.AutoMigrate(
		&user.User{},
		&leaveapplication.LeaveApplication{},
	); err != nil {
		return err
	}

	// 3. Seeding akun demo, hanya bila diminta lewat env
	if os.Getenv("SEED_ON_BOOT") == "true" {
		if err := seedUsers(gormDB); err != nil {
			return err
		}
		log.Println("✅ Demo users seeded")
	}

	// 4. Register Modules & Routes
	return registerModules(router, db, gormDB, redisClient)
}
