// file: internals/route/base_routes.go
package routes

import (
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	databases "el3adra_backend/internals/databases"
	"el3adra_backend/internals/features/roster/service"
)

func BaseRoutes(app *fiber.App, db *gorm.DB, co *service.WriteCoalescer) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("El3adra attendance backend up 🚀")
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		sqlDB, err := databases.DB.DB()
		dbStatus := "Connected"
		serverStatus := "OK"
		httpStatus := fiber.StatusOK

		if err != nil || sqlDB.Ping() != nil {
			dbStatus = "Database connection error"
			serverStatus = "DOWN"
			httpStatus = fiber.StatusServiceUnavailable
		}

		uptime := time.Since(startTime).Seconds()

		return c.Status(httpStatus).JSON(fiber.Map{
			"status":         serverStatus,
			"database":       dbStatus,
			"server_time":    time.Now().Format(time.RFC3339),
			"uptime_seconds": int(uptime),
			"pending_writes": co.PendingCount(), // debounced edits not yet flushed
			"environment":    os.Getenv("RAILWAY_ENVIRONMENT"),
		})
	})
}
