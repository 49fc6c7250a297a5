package hosting

import (
	"errors"
	"log/slog"

	"github.com/contre95/songbase/src/music"
	"github.com/gofiber/fiber/v2"
)

// ErrorResponse is the body of every failed API request.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// statusFor maps an error returned by a handler to an HTTP status and a client message.
func statusFor(err error) (int, string) {
	var fe *fiber.Error
	switch {
	case music.IsValidation(err):
		var verr *music.ValidationError
		errors.As(err, &verr)
		return fiber.StatusBadRequest, verr.Error()
	case errors.Is(err, music.ErrInvalidSongID):
		return fiber.StatusBadRequest, music.ErrInvalidSongID.Error()
	case errors.Is(err, music.ErrSongNotFound):
		return fiber.StatusNotFound, music.ErrSongNotFound.Error()
	case errors.As(err, &fe):
		return fe.Code, fe.Message
	default:
		return fiber.StatusInternalServerError, "Server Error"
	}
}

// ErrorHandler renders handler errors as JSON. The raw error is only exposed in development.
func ErrorHandler(development bool) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status, message := statusFor(err)
		if status >= fiber.StatusInternalServerError {
			slog.Error("Internal Server Error", "path", c.Path(), "error", err)
		}
		resp := ErrorResponse{Success: false, Message: message}
		if development {
			resp.Error = err.Error()
		}
		return c.Status(status).JSON(resp)
	}
}

// NotFoundHandler answers every request that matched no route.
func NotFoundHandler(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"message": "Route " + c.OriginalURL() + " not found",
	})
}
