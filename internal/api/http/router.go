package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/evertongirao-cloud/sistema-manutencao-sesc-guara/internal/api/http/handlers"
	"github.com/evertongirao-cloud/sistema-manutencao-sesc-guara/internal/auth"
	"github.com/evertongirao-cloud/sistema-manutencao-sesc-guara/internal/storage"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Tickets        *handlers.TicketsHandler
	Technicians    *handlers.TechniciansHandler
	Ratings        *handlers.RatingsHandler
	Settings       *handlers.SettingsHandler
	AuthMiddleware *auth.AuthMiddleware
	// UploadsDir serves locally stored photos when set.
	UploadsDir string
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/metrics", cfg.Health.Metrics)

	if cfg.UploadsDir != "" {
		app.Static(storage.LocalURLPrefix, cfg.UploadsDir, fiber.Static{Browse: false})
	}

	staffOnly := []fiber.Handler{cfg.AuthMiddleware.Handle, auth.RequireStaff()}
	guarded := func(h fiber.Handler) []fiber.Handler {
		return append(append([]fiber.Handler{}, staffOnly...), h)
	}

	api := app.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Get("/me", guarded(cfg.Auth.Me)...)

	tickets := api.Group("/tickets")
	tickets.Post("/", cfg.Tickets.CreateTicket)
	tickets.Get("/", cfg.Tickets.ListTickets)
	tickets.Get("/stats", cfg.Tickets.Stats)
	tickets.Get("/number/:number", cfg.Tickets.GetTicketByNumber)
	tickets.Get("/:id", cfg.Tickets.GetTicket)
	tickets.Get("/:id/history", cfg.Tickets.History)
	tickets.Get("/:id/rating", cfg.Ratings.GetByTicket)
	tickets.Post("/:id/rating", cfg.Ratings.Create)
	tickets.Patch("/:id/status", guarded(cfg.Tickets.UpdateStatus)...)
	tickets.Patch("/:id/technician", guarded(cfg.Tickets.AssignTechnician)...)
	tickets.Post("/:id/notes", guarded(cfg.Tickets.AppendNote)...)
	tickets.Patch("/:id/estimated-completion", guarded(cfg.Tickets.SetEstimatedCompletion)...)
	tickets.Delete("/:id", guarded(cfg.Tickets.DeleteTicket)...)

	technicians := api.Group("/technicians")
	technicians.Get("/", cfg.Technicians.List)
	technicians.Post("/", guarded(cfg.Technicians.Create)...)
	technicians.Patch("/:id", guarded(cfg.Technicians.Update)...)
	technicians.Delete("/:id", guarded(cfg.Technicians.Deactivate)...)

	ratings := api.Group("/ratings")
	ratings.Get("/", guarded(cfg.Ratings.List)...)
	ratings.Get("/stats", cfg.Ratings.Stats)

	settings := api.Group("/settings", staffOnly...)
	settings.Get("/", cfg.Settings.List)
	settings.Post("/test-email", cfg.Settings.TestEmail)
	settings.Get("/:key", cfg.Settings.Get)
	settings.Put("/:key", cfg.Settings.Set)
}
