package songs

import (
	"log/slog"
	"time"

	"github.com/contre95/songbase/src/music"
	"github.com/gofiber/fiber/v2"
)

// Handler is the handler for the songs feature.
type Handler struct {
	service *Service
}

// NewHandler creates a new handler for the songs feature.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// SongResponse is the JSON shape of a song. The id is exposed twice for older clients.
type SongResponse struct {
	MongoID   string    `json:"_id"`
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Artist    string    `json:"artist"`
	Album     string    `json:"album"`
	Genre     string    `json:"genre"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toResponse(s *music.Song) SongResponse {
	return SongResponse{
		MongoID:   s.ID,
		ID:        s.ID,
		Title:     s.Title,
		Artist:    s.Artist,
		Album:     s.Album,
		Genre:     s.Genre,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

// parsePayload decodes the request body. An empty body decodes to an empty payload so
// that validation reports every missing field.
func parsePayload(c *fiber.Ctx) (music.SongPayload, error) {
	var payload music.SongPayload
	if len(c.Body()) == 0 {
		return payload, nil
	}
	if err := c.BodyParser(&payload); err != nil {
		slog.Debug("Failed to parse song payload", "error", err)
		return payload, music.NewValidationError("Invalid request body")
	}
	return payload, nil
}

// CreateSong is the handler for creating a song.
func (h *Handler) CreateSong(c *fiber.Ctx) error {
	slog.Debug("CreateSong handler called")
	payload, err := parsePayload(c)
	if err != nil {
		return err
	}
	song, err := h.service.CreateSong(c.UserContext(), payload)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(toResponse(song))
}

// GetSongs is the handler for listing songs.
func (h *Handler) GetSongs(c *fiber.Ctx) error {
	slog.Debug("GetSongs handler called")
	songs, err := h.service.ListSongs(c.UserContext(), c.Query("genre"), c.Query("artist"), c.Query("search"), c.Query("sort"))
	if err != nil {
		return err
	}
	out := make([]SongResponse, len(songs))
	for i, s := range songs {
		out[i] = toResponse(s)
	}
	return c.Status(fiber.StatusOK).JSON(out)
}

// GetSong is the handler for getting a single song.
func (h *Handler) GetSong(c *fiber.Ctx) error {
	slog.Debug("GetSong handler called")
	song, err := h.service.GetSong(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(toResponse(song))
}

// UpdateSong is the handler for updating a song.
func (h *Handler) UpdateSong(c *fiber.Ctx) error {
	slog.Debug("UpdateSong handler called")
	payload, err := parsePayload(c)
	if err != nil {
		return err
	}
	song, err := h.service.UpdateSong(c.UserContext(), c.Params("id"), payload)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(toResponse(song))
}

// DeleteSong is the handler for deleting a song.
func (h *Handler) DeleteSong(c *fiber.Ctx) error {
	slog.Debug("DeleteSong handler called")
	if err := h.service.DeleteSong(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
