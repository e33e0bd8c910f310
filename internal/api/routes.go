package api

import (
	"github.com/cyberpulse/pulse/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// SetupRoutes configures all the routes for the application
func SetupRoutes(app *fiber.App, handlers *Handlers) {
	// Middleware
	app.Use(recover.New())
	app.Use(middleware.RequestLogger())

	// API group with versioning
	api := app.Group("/api/v1")

	// Health check endpoint
	api.Get("/health", handlers.HealthCheck)

	// Omni-search across local cache, GitHub, Reddit and the glossary
	api.Get("/search", handlers.OmniSearch)

	// News endpoints
	news := api.Group("/news")
	{
		news.Get("", handlers.GetNewsFeed)
		news.Get("/search", handlers.SearchNews)
		news.Get("/saved", handlers.GetSavedNews)
		news.Get("/tags", handlers.GetNewsByTags)
		news.Post("/refresh", handlers.RefreshNews)
		news.Get("/:id", handlers.GetNewsByID)
		news.Post("/:id/save", handlers.ToggleSaveNews)
		news.Post("/:id/read", handlers.MarkNewsRead)
	}

	// Breach endpoints
	breaches := api.Group("/breaches")
	{
		breaches.Get("", handlers.GetBreaches)
		breaches.Get("/recent", handlers.GetRecentBreaches)
		breaches.Get("/search", handlers.SearchBreaches)
		breaches.Get("/check", handlers.CheckPwned)
		breaches.Get("/:name", handlers.GetBreachByName)
	}

	// CVE endpoints
	cves := api.Group("/cves")
	{
		cves.Get("", handlers.GetCVEs)
		cves.Get("/search", handlers.SearchCVEs)
		cves.Get("/critical", handlers.GetCriticalCVEs)
		cves.Get("/product/:product", handlers.GetCVEsByProduct)
		cves.Get("/:id", handlers.GetCVEByID)
	}

	// Event endpoints
	events := api.Group("/events")
	{
		events.Get("", handlers.GetEvents)
		events.Get("/reminders", handlers.GetEventReminders)
		events.Get("/month", handlers.GetEventsForMonth)
		events.Get("/type/:type", handlers.GetEventsByType)
		events.Delete("/past", handlers.CleanupPastEvents)
		events.Post("/:id/reminder", handlers.ToggleEventReminder)
		events.Post("/:id/register", handlers.ToggleEventRegistration)
	}

	// 404 Handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Endpoint not found",
		})
	})
}
