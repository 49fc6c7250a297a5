package songs

import (
	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes registers the routes for the songs feature.
func RegisterRoutes(app *fiber.App, service *Service) {
	handler := NewHandler(service)

	songs := app.Group("/api/songs")
	songs.Post("/", handler.CreateSong)
	songs.Get("/", handler.GetSongs)
	songs.Get("/:id", handler.GetSong)
	songs.Put("/:id", handler.UpdateSong)
	songs.Delete("/:id", handler.DeleteSong)
}
