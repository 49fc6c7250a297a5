package music

import (
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gosimple/unidecode"
)

// Song is a single catalog entry.
type Song struct {
	ID        string
	Title     string
	Artist    string
	Album     string
	Genre     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SongPayload holds the user supplied fields of a song, used to create and update songs.
type SongPayload struct {
	Title  string `json:"title" yaml:"title" validate:"required,max=120"`
	Artist string `json:"artist" yaml:"artist" validate:"required,max=80"`
	Album  string `json:"album" yaml:"album" validate:"required,max=120"`
	Genre  string `json:"genre" yaml:"genre" validate:"required,max=50"`
}

// payloadFields fixes the order in which missing fields are reported.
var payloadFields = []string{"title", "artist", "album", "genre"}

var tooLongMessages = map[string]string{
	"title":  "Title too long",
	"artist": "Artist name too long",
	"album":  "Album name too long",
	"genre":  "Genre name too long",
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func payloadValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// Normalize trims surrounding whitespace from every field.
func (p *SongPayload) Normalize() {
	p.Title = strings.TrimSpace(p.Title)
	p.Artist = strings.TrimSpace(p.Artist)
	p.Album = strings.TrimSpace(p.Album)
	p.Genre = strings.TrimSpace(p.Genre)
}

// Validate normalizes the payload and checks it against the catalog constraints.
// It returns a *ValidationError describing every offending field.
func (p *SongPayload) Validate() error {
	p.Normalize()
	err := payloadValidator().Struct(p)
	if err == nil {
		return nil
	}
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	missing := map[string]bool{}
	tooLong := map[string]bool{}
	for _, fe := range fieldErrs {
		switch fe.Tag() {
		case "required":
			missing[fe.Field()] = true
		case "max":
			tooLong[fe.Field()] = true
		}
	}

	verr := &ValidationError{}
	for _, field := range payloadFields {
		if missing[field] {
			verr.Missing = append(verr.Missing, field)
		}
	}
	for _, field := range payloadFields {
		if tooLong[field] {
			verr.Messages = append(verr.Messages, tooLongMessages[field])
		}
	}
	return verr
}

// NewSong builds a song from a validated payload, stamping a fresh ID and creation time.
func NewSong(p SongPayload, now time.Time) *Song {
	return &Song{
		ID:        uuid.New().String(),
		Title:     p.Title,
		Artist:    p.Artist,
		Album:     p.Album,
		Genre:     p.Genre,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Apply overwrites the user supplied fields of the song with the payload.
func (s *Song) Apply(p SongPayload, now time.Time) {
	s.Title = p.Title
	s.Artist = p.Artist
	s.Album = p.Album
	s.Genre = p.Genre
	s.UpdatedAt = now
}

// SearchKey returns the folded text used for free text search over title, artist and album.
func (s *Song) SearchKey() string {
	return FoldSearch(s.Title + "\x1f" + s.Artist + "\x1f" + s.Album)
}

// FoldSearch lowercases and transliterates text to ASCII so that "Beyoncé" matches "beyonce".
func FoldSearch(text string) string {
	return strings.ToLower(unidecode.Unidecode(strings.TrimSpace(text)))
}

// ValidateSongID checks that the id is a song identifier in the canonical form NewSong
// assigns. Braced, URN and unhyphenated UUID spellings are rejected.
func ValidateSongID(id string) error {
	u, err := uuid.Parse(id)
	if err != nil || u.String() != id {
		return ErrInvalidSongID
	}
	return nil
}
