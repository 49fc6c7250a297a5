package ui

import (
	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes registers the routes for the UI feature.
func RegisterRoutes(app *fiber.App, handler *Handler) {
	ui := app.Group("/ui")
	ui.Get("/", func(c *fiber.Ctx) error {
		return c.Redirect("/ui/stats")
	})
	ui.Get("/stats", handler.RenderStats)
}
