package config

import (
	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes registers the read-only config endpoint.
func RegisterRoutes(app *fiber.App, configManager *Manager) {
	app.Get("/api/config", func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.SendString(configManager.GetJSON())
	})
}
