package routes

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/bloodbank-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/bloodbank-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/bloodbank-backend/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	accountHandler *handlers.AccountHandler,
	requestHandler *handlers.RequestHandler,
	inventoryHandler *handlers.InventoryHandler,
	donationHandler *handlers.DonationHandler,
	directoryHandler *handlers.DirectoryHandler,
	reportHandler *handlers.ReportHandler,
	healthHandler *handlers.HealthHandler,
) {
	app.Get("/", healthHandler.Home)

	api := app.Group("/api")
	if cfg.RateLimitPerMinute > 0 {
		api.Use(rateLimit(cfg.RateLimitPerMinute))
	}
	api.Use(middleware.RequestTimeout(cfg.RequestTimeout))
	api.Use(middleware.Identify(cfg))

	api.Get("/health", healthHandler.Check)

	// Accounts; stricter limit on credential endpoints
	credentials := func(c *fiber.Ctx) error { return c.Next() }
	if cfg.RateLimitPerMinute > 0 {
		credentials = rateLimit(10)
	}
	api.Post("/login", credentials, accountHandler.Login)
	api.Post("/register", credentials, accountHandler.Register)
	api.Get("/hospitals", accountHandler.ListHospitals)

	// Blood requests
	api.Post("/request", requestHandler.Create)
	api.Get("/request", requestHandler.List)
	api.Get("/request/:id", requestHandler.Get)
	api.Put("/request/:id", requestHandler.UpdateStatus)

	// Inventory and donations
	api.Get("/inventory", inventoryHandler.List)
	api.Post("/donation", donationHandler.Record)

	// Profiles
	api.Get("/user/:id", directoryHandler.GetProfile)
	api.Put("/user/:id", directoryHandler.UpdateProfile)

	// Donor records
	api.Post("/donors", directoryHandler.CreateDonor)
	api.Get("/donors", directoryHandler.ListDonors)
	api.Get("/donors/user/:user_id", directoryHandler.GetDonorByUserID)
	api.Get("/donors/:id", directoryHandler.GetDonorByID)
	api.Put("/donors/:id", directoryHandler.UpdateDonor)
	api.Delete("/donors/:id", directoryHandler.DeleteDonor)

	// Admin
	admin := api.Group("/admin", middleware.AdminRequired(cfg))
	admin.Get("/export", reportHandler.Export)
}

func rateLimit(perMinute int) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:               perMinute,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "Too many requests"})
		},
	})
}
