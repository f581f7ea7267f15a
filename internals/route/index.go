// file: internals/route/index.go
package routes

import (
	"log"
	"time"

	rosterRoute "el3adra_backend/internals/features/roster/route"
	"el3adra_backend/internals/features/roster/service"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

var startTime time.Time

func SetupRoutes(app *fiber.App, db *gorm.DB, co *service.WriteCoalescer) {
	startTime = time.Now()

	log.Println("[INFO] Setting up BaseRoutes...")
	BaseRoutes(app, db, co)

	log.Println("[INFO] Setting up RosterRoutes...")
	api := app.Group("/api")
	rosterRoute.RosterRoutes(api, db, co)
}
