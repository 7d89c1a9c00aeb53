package routes

import (
	"context"
	"time"

	"phonexchange_backend/handlers"
	"phonexchange_backend/internal/ws"
	"phonexchange_backend/middleware"
	"phonexchange_backend/models"
	"phonexchange_backend/services"
	"phonexchange_backend/storage"
	"phonexchange_backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Dependencies is everything the HTTP surface needs. Store and Log are
// required; a nil Hub disables the live lead feed.
type Dependencies struct {
	Store     storage.Store
	Log       utils.Logger
	Hub       *ws.Hub
	Notifiers []services.LeadNotifier

	JWTSecret   string
	CORSOrigins string
	AccessLog   bool
}

// NewApp builds the Fiber application with middleware and every route.
func NewApp(deps Dependencies) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "PhoneXchange Backend",
		ServerHeader: "PhoneXchange Backend Server/1.0",
		ErrorHandler: handlers.ErrorHandler(deps.Log),
	})

	middleware.SetupMiddleware(app, middleware.Options{
		CORSOrigins: deps.CORSOrigins,
		AccessLog:   deps.AccessLog,
	})

	Setup(app, deps)

	middleware.SetupNotFound(app)
	return app
}

// Setup registers the routes on app.
func Setup(app *fiber.App, deps Dependencies) {
	notifiers := deps.Notifiers
	if deps.Hub != nil {
		notifiers = append([]services.LeadNotifier{deps.Hub}, notifiers...)
	}

	quoteService := services.NewQuoteService(deps.Store, deps.Log)
	leadService := services.NewLeadService(deps.Store, deps.Log, notifiers...)

	catalogHandler := handlers.NewCatalogHandler(deps.Store)
	quoteHandler := handlers.NewQuoteHandler(quoteService)
	listingHandler := handlers.NewListingHandler(deps.Store)
	leadHandler := handlers.NewLeadHandler(leadService)
	adminHandler := handlers.NewAdminHandler(leadService, deps.Hub)

	// Health Check Endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := deps.Store.Ping(ctx); err != nil {
			deps.Log.WithError(err).Warn("health check failed", nil)
			return c.Status(fiber.StatusServiceUnavailable).JSON(
				models.ErrorResponse("Store unreachable", nil))
		}
		return c.JSON(models.SuccessResponse("API is healthy", nil))
	})

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api")

	api.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "PhoneXchange Patna API"})
	})

	api.Get("/brands", catalogHandler.GetBrands)
	api.Get("/models/:brand_id", catalogHandler.GetModels)
	api.Get("/questions", catalogHandler.GetQuestions)

	api.Post("/calculate-price", quoteHandler.CalculatePrice)

	api.Get("/phones-for-sale", listingHandler.GetPhonesForSale)
	api.Get("/phones-for-sale/:id", listingHandler.GetPhoneForSale)

	api.Post("/submit-lead", leadHandler.SubmitLead)

	admin := api.Group("/admin", utils.AdminAuth(deps.JWTSecret))
	admin.Get("/leads", adminHandler.GetLeads)
	if deps.Hub != nil {
		admin.Get("/leads/feed", adminHandler.WebSocketUpgradeMiddleware, adminHandler.LeadFeed())
	}
}
