package music

import (
	"context"
	"fmt"
)

// SortOrder names an ordering accepted when listing songs.
type SortOrder string

const (
	SortNewest SortOrder = "newest"
	SortOldest SortOrder = "oldest"
	SortTitle  SortOrder = "title"
	SortArtist SortOrder = "artist"
	SortAlbum  SortOrder = "album"
	SortGenre  SortOrder = "genre"
)

// ParseSortOrder maps a query value to a SortOrder. The empty string means SortNewest.
func ParseSortOrder(value string) (SortOrder, error) {
	switch SortOrder(value) {
	case "":
		return SortNewest, nil
	case SortNewest, SortOldest, SortTitle, SortArtist, SortAlbum, SortGenre:
		return SortOrder(value), nil
	}
	return "", NewValidationError(fmt.Sprintf("Unsupported sort: %s", value))
}

// SongFilter narrows a song listing. Zero values mean no restriction.
type SongFilter struct {
	Genre  string
	Artist string
	Search string
	Sort   SortOrder
}

// Catalog is the repository interface for the song catalog.
type Catalog interface {
	AddSong(ctx context.Context, song *Song) error
	// AddSongs stores a batch atomically: on error none of the songs are stored.
	AddSongs(ctx context.Context, songs []*Song) error
	GetSong(ctx context.Context, id string) (*Song, error)
	UpdateSong(ctx context.Context, song *Song) error
	DeleteSong(ctx context.Context, id string) error
	ListSongs(ctx context.Context, filter SongFilter) ([]*Song, error)
	CountSongs(ctx context.Context) (int, error)

	// FetchAll returns a fully materialized snapshot of every song in insertion order.
	FetchAll(ctx context.Context) ([]Song, error)
}
