package middleware

import (
	"phonexchange_backend/models"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

type Options struct {
	// CORSOrigins is a comma-separated allow-list, "*" for any origin.
	CORSOrigins string
	// AccessLog toggles the per-request log line.
	AccessLog bool
}

// SetupMiddleware configures all application middleware
func SetupMiddleware(app *fiber.App, opts Options) {
	// Request ID middleware - adds unique ID to each request
	app.Use(requestid.New())

	if opts.AccessLog {
		app.Use(logger.New(logger.Config{
			Format:     "[${time}] ${status} - ${method} ${path} - ${ip} - ${latency} - ${locals:requestid}\n",
			TimeFormat: "2006-01-02 15:04:05",
			TimeZone:   "UTC",
		}))
	}

	app.Use(Metrics())

	// Recover middleware - recovers from panics
	app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
	}))

	// Security middleware
	app.Use(helmet.New(helmet.Config{
		XSSProtection:      "1; mode=block",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "DENY",
		HSTSMaxAge:         31536000,
	}))

	// CORS: any method, echo requested headers. Credentials only make sense
	// with an explicit allow-list.
	origins := opts.CORSOrigins
	if origins == "" {
		origins = "*"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,HEAD,OPTIONS",
		AllowCredentials: origins != "*",
		ExposeHeaders:    "X-Request-ID",
		MaxAge:           86400, // 24 hours
	}))
}

// SetupNotFound answers every unmatched route. Register it last.
func SetupNotFound(app *fiber.App) {
	app.Use(func(c *fiber.Ctx) error {
		response := models.ErrorResponse("Not Found", models.ErrorDetail{
			Code:    "NOT_FOUND",
			Message: "The requested resource was not found",
		})
		return c.Status(fiber.StatusNotFound).JSON(response)
	})
}
