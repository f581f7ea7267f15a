package middlewares

import (
	"github.com/gofiber/fiber/v2"

	loggerMiddleware "el3adra_backend/internals/middlewares/logger"
)

// SetupMiddlewares applies the base chain: recovery first so the
// request logger still sees panicking requests.
func SetupMiddlewares(app *fiber.App) {
	app.Use(RecoveryMiddleware())
	app.Use(loggerMiddleware.LoggerMiddleware())
	app.Use(CorsMiddleware())
	app.Use(GlobalRateLimiter())
}
