package ui

import (
	"log/slog"

	"github.com/contre95/songbase/src/features/stats"
	"github.com/gofiber/fiber/v2"
)

// Handler is the handler for the UI feature.
type Handler struct {
	statsService *stats.Service
}

// NewHandler creates a new handler for the UI feature.
func NewHandler(statsService *stats.Service) *Handler {
	return &Handler{statsService: statsService}
}

// RenderStats renders the statistics dashboard.
func (h *Handler) RenderStats(c *fiber.Ctx) error {
	slog.Debug("RenderStats handler called")
	report, err := h.statsService.GetReport(c.UserContext())
	if err != nil {
		return err
	}
	return c.Render("stats", fiber.Map{
		"Title":  "Catalog statistics",
		"Report": report,
	})
}
