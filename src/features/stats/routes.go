package stats

import (
	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes registers the stats routes. It must run before the song routes so
// that /api/songs/stats is not captured by /api/songs/:id.
func RegisterRoutes(app *fiber.App, service *Service) {
	handler := NewHandler(service)
	app.Get("/api/songs/stats", handler.GetStats)
}
