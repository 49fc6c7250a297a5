package songs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/contre95/songbase/src/music"
)

// Service is the domain service for the songs feature.
type Service struct {
	catalog music.Catalog
	now     func() time.Time
}

// NewService creates a new songs service.
func NewService(catalog music.Catalog) *Service {
	return &Service{
		catalog: catalog,
		now:     utcNow,
	}
}

// utcNow is the service clock. Timestamps are UTC so that they read back unchanged from the store.
func utcNow() time.Time {
	return time.Now().UTC()
}

// CreateSong validates the payload and stores a new song.
func (s *Service) CreateSong(ctx context.Context, payload music.SongPayload) (*music.Song, error) {
	slog.Debug("CreateSong service called", "title", payload.Title, "artist", payload.Artist)
	if err := payload.Validate(); err != nil {
		slog.Debug("CreateSong rejected payload", "error", err)
		return nil, err
	}
	song := music.NewSong(payload, s.now())
	if err := s.catalog.AddSong(ctx, song); err != nil {
		slog.Error("CreateSong failed", "title", song.Title, "error", err)
		return nil, err
	}
	slog.Debug("CreateSong completed", "id", song.ID)
	return song, nil
}

// CreateSongs validates every payload and stores the whole batch atomically. Nothing is
// stored when any payload is invalid or the store fails.
func (s *Service) CreateSongs(ctx context.Context, payloads []music.SongPayload) ([]*music.Song, error) {
	slog.Debug("CreateSongs service called", "count", len(payloads))
	for i := range payloads {
		if err := payloads[i].Validate(); err != nil {
			return nil, fmt.Errorf("entry %d: %w", i+1, err)
		}
	}
	if len(payloads) == 0 {
		return []*music.Song{}, nil
	}

	now := s.now()
	songs := make([]*music.Song, len(payloads))
	for i, p := range payloads {
		songs[i] = music.NewSong(p, now)
	}
	if err := s.catalog.AddSongs(ctx, songs); err != nil {
		slog.Error("CreateSongs failed", "count", len(songs), "error", err)
		return nil, err
	}
	slog.Debug("CreateSongs completed", "count", len(songs))
	return songs, nil
}

// ListSongs returns the songs matching the given filters.
func (s *Service) ListSongs(ctx context.Context, genre, artist, search, sort string) ([]*music.Song, error) {
	slog.Debug("ListSongs service called", "genre", genre, "artist", artist, "search", search, "sort", sort)
	order, err := music.ParseSortOrder(sort)
	if err != nil {
		return nil, err
	}
	songs, err := s.catalog.ListSongs(ctx, music.SongFilter{
		Genre:  genre,
		Artist: artist,
		Search: search,
		Sort:   order,
	})
	if err != nil {
		slog.Error("ListSongs failed", "error", err)
		return nil, err
	}
	slog.Debug("ListSongs completed", "count", len(songs))
	return songs, nil
}

// GetSong returns a single song.
func (s *Service) GetSong(ctx context.Context, id string) (*music.Song, error) {
	slog.Debug("GetSong service called", "id", id)
	if err := music.ValidateSongID(id); err != nil {
		return nil, err
	}
	song, err := s.catalog.GetSong(ctx, id)
	if err != nil {
		slog.Debug("GetSong failed", "id", id, "error", err)
		return nil, err
	}
	return song, nil
}

// UpdateSong replaces the user supplied fields of an existing song.
func (s *Service) UpdateSong(ctx context.Context, id string, payload music.SongPayload) (*music.Song, error) {
	slog.Debug("UpdateSong service called", "id", id)
	if err := music.ValidateSongID(id); err != nil {
		return nil, err
	}
	if err := payload.Validate(); err != nil {
		return nil, err
	}
	song, err := s.catalog.GetSong(ctx, id)
	if err != nil {
		slog.Debug("UpdateSong lookup failed", "id", id, "error", err)
		return nil, err
	}
	song.Apply(payload, s.now())
	if err := s.catalog.UpdateSong(ctx, song); err != nil {
		slog.Error("UpdateSong failed", "id", id, "error", err)
		return nil, err
	}
	slog.Debug("UpdateSong completed", "id", id)
	return song, nil
}

// DeleteSong removes a song from the catalog.
func (s *Service) DeleteSong(ctx context.Context, id string) error {
	slog.Debug("DeleteSong service called", "id", id)
	if err := music.ValidateSongID(id); err != nil {
		return err
	}
	if err := s.catalog.DeleteSong(ctx, id); err != nil {
		slog.Debug("DeleteSong failed", "id", id, "error", err)
		return err
	}
	slog.Debug("DeleteSong completed", "id", id)
	return nil
}
