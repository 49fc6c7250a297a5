package music

import (
	"errors"
	"strings"
)

var (
	// ErrSongNotFound is returned when no song matches the requested id.
	ErrSongNotFound = errors.New("Song not found")
	// ErrInvalidSongID is returned when the id is not a well formed song identifier.
	ErrInvalidSongID = errors.New("Invalid song id")
)

// ValidationError reports user input that cannot be stored.
type ValidationError struct {
	Missing  []string // fields that are absent or blank
	Messages []string // any other constraint violation
}

func (e *ValidationError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "Missing or empty fields: "+strings.Join(e.Missing, ", "))
	}
	parts = append(parts, e.Messages...)
	if len(parts) == 0 {
		return "invalid input"
	}
	return strings.Join(parts, ", ")
}

// NewValidationError creates a ValidationError carrying a single message.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{Messages: []string{message}}
}

// IsValidation reports whether err is, or wraps, a *ValidationError.
func IsValidation(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}
