package importing

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
)

// Handler is the handler for the importing feature.
type Handler struct {
	service *Service
}

// NewHandler creates a new handler for the importing feature.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// ScanDirectory is the handler for triggering an import scan.
func (h *Handler) ScanDirectory(c *fiber.Ctx) error {
	summary, err := h.service.ScanDirectory(c.UserContext())
	if err != nil {
		slog.Error("Error scanning import directory", "error", err)
		return err
	}
	return c.JSON(summary)
}
