// Package stats computes the catalog statistics report.
//
// Every facet is computed from the same snapshot handed to Compute. Orderings are
// deterministic: equal counts keep the order in which their key first appeared in the
// snapshot, and songs sharing a creation time keep their snapshot order.
package stats

import (
	"slices"
	"sort"
	"strings"

	"github.com/contre95/songbase/src/music"
)

const (
	latestSongsLimit = 5
	topGenresLimit   = 3
	top5GenresLimit  = 5
)

// Compute builds the full statistics report for the given snapshot.
// It never fails; an empty snapshot yields zero counts and empty lists.
func Compute(songs []music.Song) Report {
	totals := countDistinct(songs)
	perGenre := songsPerGenre(songs)
	perArtist := songsPerArtist(songs)

	return Report{
		TotalSongs:           totals.songs,
		TotalArtists:         totals.artists,
		TotalAlbums:          totals.albums,
		TotalGenres:          totals.genres,
		SongsPerGenre:        perGenre,
		SongsPerArtist:       perArtist,
		AlbumsPerArtist:      albumsPerArtist(songs),
		SongsPerAlbum:        songsPerAlbum(songs),
		LatestSongs:          latestSongs(songs, latestSongsLimit),
		TopGenres:            firstN(perGenre, topGenresLimit),
		Top5Genres:           firstN(perGenre, top5GenresLimit),
		MostProductiveArtist: mostProductiveArtist(perArtist),
		AverageSongsPerAlbum: averageSongsPerAlbum(totals.songs, totals.albums),
		ArtistAlbumSongTree:  artistAlbumSongTree(songs),
	}
}

type totals struct {
	songs, artists, albums, genres int
}

// countDistinct counts songs and the distinct artist, album and genre values in one scan.
func countDistinct(songs []music.Song) totals {
	artists := make(map[string]struct{})
	albums := make(map[string]struct{})
	genres := make(map[string]struct{})
	for _, s := range songs {
		artists[s.Artist] = struct{}{}
		albums[s.Album] = struct{}{}
		genres[s.Genre] = struct{}{}
	}
	return totals{
		songs:   len(songs),
		artists: len(artists),
		albums:  len(albums),
		genres:  len(genres),
	}
}

// keyCount is a grouping key with its running count.
type keyCount struct {
	key   string
	count int
}

// groupCount counts songs per key, returning groups in first-occurrence order sorted
// by count descending. The sort is stable so ties keep first-occurrence order.
func groupCount(songs []music.Song, key func(music.Song) string) []keyCount {
	index := make(map[string]int)
	groups := []keyCount{}
	for _, s := range songs {
		k := key(s)
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, keyCount{key: k})
		}
		groups[i].count++
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].count > groups[j].count
	})
	return groups
}

func songsPerGenre(songs []music.Song) []GenreCount {
	groups := groupCount(songs, func(s music.Song) string { return s.Genre })
	out := make([]GenreCount, len(groups))
	for i, g := range groups {
		out[i] = GenreCount{Genre: g.key, Count: g.count}
	}
	return out
}

func songsPerArtist(songs []music.Song) []ArtistCount {
	groups := groupCount(songs, func(s music.Song) string { return s.Artist })
	out := make([]ArtistCount, len(groups))
	for i, g := range groups {
		out[i] = ArtistCount{Artist: g.key, Count: g.count}
	}
	return out
}

func songsPerAlbum(songs []music.Song) []AlbumCount {
	groups := groupCount(songs, func(s music.Song) string { return s.Album })
	out := make([]AlbumCount, len(groups))
	for i, g := range groups {
		out[i] = AlbumCount{Album: g.key, Count: g.count}
	}
	return out
}

// albumsPerArtist counts the distinct albums of every artist.
func albumsPerArtist(songs []music.Song) []ArtistAlbumCount {
	order := []string{}
	albums := make(map[string]map[string]struct{})
	for _, s := range songs {
		set, ok := albums[s.Artist]
		if !ok {
			set = make(map[string]struct{})
			albums[s.Artist] = set
			order = append(order, s.Artist)
		}
		set[s.Album] = struct{}{}
	}

	out := make([]ArtistAlbumCount, len(order))
	for i, artist := range order {
		out[i] = ArtistAlbumCount{Artist: artist, AlbumCount: len(albums[artist])}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].AlbumCount > out[j].AlbumCount
	})
	return out
}

// latestSongs returns up to limit songs, most recently created first.
func latestSongs(songs []music.Song, limit int) []LatestSong {
	sorted := slices.Clone(songs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	sorted = firstN(sorted, limit)

	out := make([]LatestSong, len(sorted))
	for i, s := range sorted {
		out[i] = LatestSong{
			Title:     s.Title,
			Artist:    s.Artist,
			Album:     s.Album,
			Genre:     s.Genre,
			CreatedAt: s.CreatedAt,
		}
	}
	return out
}

// firstN returns a copy of at most the first n elements of items.
func firstN[T any](items []T, n int) []T {
	if len(items) < n {
		n = len(items)
	}
	return append(make([]T, 0, n), items[:n]...)
}

// mostProductiveArtist is the head of the already ranked artist list.
func mostProductiveArtist(perArtist []ArtistCount) *ProductiveArtist {
	if len(perArtist) == 0 {
		return nil
	}
	return &ProductiveArtist{Artist: perArtist[0].Artist, SongCount: perArtist[0].Count}
}

func averageSongsPerAlbum(totalSongs, totalAlbums int) float64 {
	if totalAlbums == 0 {
		return 0
	}
	return float64(totalSongs) / float64(totalAlbums)
}

// artistAlbumSongTree groups songs by (artist, album) and then by artist.
// Artists are sorted by name; albums keep first-occurrence order and songs keep scan order.
func artistAlbumSongTree(songs []music.Song) []ArtistNode {
	type albumKey struct{ artist, album string }

	artistIndex := make(map[string]int)
	albumIndex := make(map[albumKey]int)
	tree := []ArtistNode{}

	for _, s := range songs {
		ai, ok := artistIndex[s.Artist]
		if !ok {
			ai = len(tree)
			artistIndex[s.Artist] = ai
			tree = append(tree, ArtistNode{Artist: s.Artist, Albums: []AlbumNode{}})
		}
		artist := &tree[ai]

		key := albumKey{artist: s.Artist, album: s.Album}
		bi, ok := albumIndex[key]
		if !ok {
			bi = len(artist.Albums)
			albumIndex[key] = bi
			artist.Albums = append(artist.Albums, AlbumNode{Album: s.Album, Songs: []SongLeaf{}})
		}
		album := &artist.Albums[bi]
		album.Songs = append(album.Songs, SongLeaf{Title: s.Title, Genre: s.Genre, CreatedAt: s.CreatedAt})
	}

	sort.SliceStable(tree, func(i, j int) bool {
		return strings.Compare(tree[i].Artist, tree[j].Artist) < 0
	})
	return tree
}
