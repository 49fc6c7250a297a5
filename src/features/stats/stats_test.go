package stats

import (
	"encoding/json"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/contre95/songbase/src/music"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func song(title, artist, album, genre string, minute int) music.Song {
	return music.Song{
		ID:        fmt.Sprintf("%s-%s-%d", artist, title, minute),
		Title:     title,
		Artist:    artist,
		Album:     album,
		Genre:     genre,
		CreatedAt: base.Add(time.Duration(minute) * time.Minute),
	}
}

// catalog is a snapshot with repeated artists, albums shared across artists and ties.
func catalog() []music.Song {
	return []music.Song{
		song("Intro", "Zed", "First", "Rock", 1),
		song("Blue", "alpha", "Colors", "Jazz", 2),
		song("Red", "alpha", "Colors", "Jazz", 3),
		song("Green", "alpha", "Shades", "Pop", 4),
		song("Outro", "Zed", "Second", "Rock", 5),
		song("Hymn", "Beta", "First", "Folk", 6),
		song("Anthem", "Beta", "Live", "Pop", 7),
		song("Coda", "Zed", "Second", "Jazz", 8),
	}
}

func TestCompute_ConcreteScenario(t *testing.T) {
	songs := []music.Song{
		song("A", "X", "M1", "Pop", 1),
		song("B", "X", "M1", "Rock", 2),
		song("C", "Y", "M2", "Pop", 3),
	}

	r := Compute(songs)

	assert.Equal(t, 3, r.TotalSongs)
	assert.Equal(t, 2, r.TotalArtists)
	assert.Equal(t, 2, r.TotalAlbums)
	assert.Equal(t, 2, r.TotalGenres)
	assert.Equal(t, []GenreCount{{"Pop", 2}, {"Rock", 1}}, r.SongsPerGenre)
	assert.Equal(t, []ArtistCount{{"X", 2}, {"Y", 1}}, r.SongsPerArtist)
	assert.ElementsMatch(t, []ArtistAlbumCount{{"X", 1}, {"Y", 1}}, r.AlbumsPerArtist)
	assert.Equal(t, []AlbumCount{{"M1", 2}, {"M2", 1}}, r.SongsPerAlbum)
	assert.InDelta(t, 1.5, r.AverageSongsPerAlbum, 1e-9)
	require.NotNil(t, r.MostProductiveArtist)
	assert.Equal(t, ProductiveArtist{Artist: "X", SongCount: 2}, *r.MostProductiveArtist)

	require.Len(t, r.ArtistAlbumSongTree, 2)
	x, y := r.ArtistAlbumSongTree[0], r.ArtistAlbumSongTree[1]
	assert.Equal(t, "X", x.Artist)
	require.Len(t, x.Albums, 1)
	assert.Equal(t, "M1", x.Albums[0].Album)
	assert.Equal(t, []SongLeaf{
		{Title: "A", Genre: "Pop", CreatedAt: songs[0].CreatedAt},
		{Title: "B", Genre: "Rock", CreatedAt: songs[1].CreatedAt},
	}, x.Albums[0].Songs)
	assert.Equal(t, "Y", y.Artist)
	require.Len(t, y.Albums, 1)
	assert.Equal(t, "M2", y.Albums[0].Album)
	assert.Equal(t, []SongLeaf{{Title: "C", Genre: "Pop", CreatedAt: songs[2].CreatedAt}}, y.Albums[0].Songs)

	titles := []string{}
	for _, s := range r.LatestSongs {
		titles = append(titles, s.Title)
	}
	assert.Equal(t, []string{"C", "B", "A"}, titles)
}

func TestCompute_EmptySnapshot(t *testing.T) {
	for name, songs := range map[string][]music.Song{"nil": nil, "empty": {}} {
		t.Run(name, func(t *testing.T) {
			r := Compute(songs)

			assert.Zero(t, r.TotalSongs)
			assert.Zero(t, r.TotalArtists)
			assert.Zero(t, r.TotalAlbums)
			assert.Zero(t, r.TotalGenres)
			assert.Nil(t, r.MostProductiveArtist)
			assert.Equal(t, 0.0, r.AverageSongsPerAlbum)

			// Lists must serialize as [] rather than null.
			raw, err := json.Marshal(r)
			require.NoError(t, err)
			var decoded map[string]any
			require.NoError(t, json.Unmarshal(raw, &decoded))
			for _, field := range []string{
				"songsPerGenre", "songsPerArtist", "albumsPerArtist", "songsPerAlbum",
				"latestSongs", "topGenres", "top5Genres", "artistAlbumSongTree",
			} {
				assert.Equal(t, []any{}, decoded[field], field)
			}
			assert.Nil(t, decoded["mostProductiveArtist"])
		})
	}
}

func TestCompute_Cardinality(t *testing.T) {
	songs := catalog()
	r := Compute(songs)

	artists, albums, genres := map[string]bool{}, map[string]bool{}, map[string]bool{}
	for _, s := range songs {
		artists[s.Artist] = true
		albums[s.Album] = true
		genres[s.Genre] = true
	}
	assert.Equal(t, len(songs), r.TotalSongs)
	assert.Equal(t, len(artists), r.TotalArtists)
	assert.Equal(t, len(albums), r.TotalAlbums)
	assert.Equal(t, len(genres), r.TotalGenres)
}

func TestCompute_FacetSums(t *testing.T) {
	r := Compute(catalog())

	sum := 0
	for _, g := range r.SongsPerGenre {
		sum += g.Count
	}
	assert.Equal(t, r.TotalSongs, sum, "songsPerGenre")

	sum = 0
	for _, a := range r.SongsPerArtist {
		sum += a.Count
	}
	assert.Equal(t, r.TotalSongs, sum, "songsPerArtist")

	sum = 0
	for _, a := range r.SongsPerAlbum {
		sum += a.Count
	}
	assert.Equal(t, r.TotalSongs, sum, "songsPerAlbum")
}

func TestCompute_FacetsSortedDescending(t *testing.T) {
	r := Compute(catalog())

	assert.True(t, sort.SliceIsSorted(r.SongsPerGenre, func(i, j int) bool {
		return r.SongsPerGenre[i].Count > r.SongsPerGenre[j].Count
	}))
	assert.True(t, sort.SliceIsSorted(r.SongsPerArtist, func(i, j int) bool {
		return r.SongsPerArtist[i].Count > r.SongsPerArtist[j].Count
	}))
	assert.True(t, sort.SliceIsSorted(r.SongsPerAlbum, func(i, j int) bool {
		return r.SongsPerAlbum[i].Count > r.SongsPerAlbum[j].Count
	}))
	assert.True(t, sort.SliceIsSorted(r.AlbumsPerArtist, func(i, j int) bool {
		return r.AlbumsPerArtist[i].AlbumCount > r.AlbumsPerArtist[j].AlbumCount
	}))
}

func TestCompute_TiesKeepFirstOccurrence(t *testing.T) {
	r := Compute(catalog())

	// Jazz 3; Rock and Pop tie at 2 with Rock seen first; Folk 1.
	assert.Equal(t, []GenreCount{{"Jazz", 3}, {"Rock", 2}, {"Pop", 2}, {"Folk", 1}}, r.SongsPerGenre)
	// Zed and alpha tie at 3 with Zed seen first.
	assert.Equal(t, []ArtistCount{{"Zed", 3}, {"alpha", 3}, {"Beta", 2}}, r.SongsPerArtist)
	// Every artist has two albums.
	assert.Equal(t, []ArtistAlbumCount{{"Zed", 2}, {"alpha", 2}, {"Beta", 2}}, r.AlbumsPerArtist)
	assert.Equal(t, []AlbumCount{{"First", 2}, {"Colors", 2}, {"Second", 2}, {"Shades", 1}, {"Live", 1}}, r.SongsPerAlbum)
}

func TestCompute_TopSlices(t *testing.T) {
	r := Compute(catalog())
	assert.Equal(t, r.SongsPerGenre[:3], r.TopGenres)
	assert.Equal(t, r.SongsPerGenre, r.Top5Genres, "fewer than five genres yields all of them")

	many := []music.Song{}
	for i := 0; i < 7; i++ {
		for j := 0; j <= i; j++ {
			many = append(many, song(fmt.Sprintf("t%d-%d", i, j), "A", "B", fmt.Sprintf("g%d", i), i*10+j))
		}
	}
	r = Compute(many)
	require.Len(t, r.SongsPerGenre, 7)
	assert.Equal(t, r.SongsPerGenre[:3], r.TopGenres)
	assert.Equal(t, r.SongsPerGenre[:5], r.Top5Genres)
	assert.Equal(t, "g6", r.TopGenres[0].Genre)

	single := Compute([]music.Song{song("x", "a", "b", "Solo", 1)})
	assert.Equal(t, []GenreCount{{"Solo", 1}}, single.TopGenres)
	assert.Equal(t, []GenreCount{{"Solo", 1}}, single.Top5Genres)
}

func TestCompute_TopSlicesDoNotAlias(t *testing.T) {
	r := Compute(catalog())
	r.TopGenres[0].Count = 999
	assert.NotEqual(t, 999, r.SongsPerGenre[0].Count)
}

func TestCompute_MostProductiveArtistIsHead(t *testing.T) {
	r := Compute(catalog())
	require.NotNil(t, r.MostProductiveArtist)
	assert.Equal(t, r.SongsPerArtist[0].Artist, r.MostProductiveArtist.Artist)
	assert.Equal(t, r.SongsPerArtist[0].Count, r.MostProductiveArtist.SongCount)
}

func TestCompute_Average(t *testing.T) {
	r := Compute(catalog())
	assert.InDelta(t, float64(r.TotalSongs)/float64(r.TotalAlbums), r.AverageSongsPerAlbum, 1e-9)
	assert.Equal(t, 0.0, averageSongsPerAlbum(0, 0))
}

func TestCompute_LatestSongs(t *testing.T) {
	songs := catalog()
	r := Compute(songs)

	require.Len(t, r.LatestSongs, latestSongsLimit)
	titles := []string{}
	for _, s := range r.LatestSongs {
		titles = append(titles, s.Title)
	}
	assert.Equal(t, []string{"Coda", "Anthem", "Hymn", "Outro", "Green"}, titles)
	assert.Equal(t, "Zed", r.LatestSongs[0].Artist)
	assert.Equal(t, "Second", r.LatestSongs[0].Album)
	assert.Equal(t, "Jazz", r.LatestSongs[0].Genre)

	// The input snapshot is left untouched.
	assert.Equal(t, "Intro", songs[0].Title)
}

func TestCompute_LatestSongsTiesKeepScanOrder(t *testing.T) {
	songs := []music.Song{
		song("first", "a", "x", "g", 1),
		song("second", "a", "x", "g", 1),
		song("third", "a", "x", "g", 1),
	}
	r := Compute(songs)
	titles := []string{}
	for _, s := range r.LatestSongs {
		titles = append(titles, s.Title)
	}
	assert.Equal(t, []string{"first", "second", "third"}, titles)
}

func TestCompute_Tree(t *testing.T) {
	songs := catalog()
	r := Compute(songs)

	artists := []string{}
	total := 0
	pairs := map[[2]string]bool{}
	for _, a := range r.ArtistAlbumSongTree {
		artists = append(artists, a.Artist)
		for _, al := range a.Albums {
			pairs[[2]string{a.Artist, al.Album}] = true
			total += len(al.Songs)
		}
	}

	// Byte-wise ordering puts upper case before lower case.
	assert.Equal(t, []string{"Beta", "Zed", "alpha"}, artists)
	assert.Equal(t, r.TotalSongs, total)

	inputPairs := map[[2]string]bool{}
	for _, s := range songs {
		inputPairs[[2]string{s.Artist, s.Album}] = true
	}
	assert.Equal(t, inputPairs, pairs)

	zed := r.ArtistAlbumSongTree[1]
	require.Len(t, zed.Albums, 2)
	assert.Equal(t, "First", zed.Albums[0].Album)
	assert.Equal(t, "Second", zed.Albums[1].Album)
	assert.Equal(t, "Outro", zed.Albums[1].Songs[0].Title)
	assert.Equal(t, "Coda", zed.Albums[1].Songs[1].Title)
}

func TestCompute_SharedAlbumTitleAcrossArtists(t *testing.T) {
	r := Compute(catalog())
	// "First" belongs to both Zed and Beta: one album title, two tree branches.
	assert.Equal(t, 5, r.TotalAlbums)
	count := 0
	for _, a := range r.ArtistAlbumSongTree {
		for _, al := range a.Albums {
			if al.Album == "First" {
				count++
			}
		}
	}
	assert.Equal(t, 2, count)
}

func TestCompute_Idempotent(t *testing.T) {
	songs := catalog()
	first := Compute(songs)
	second := Compute(songs)
	assert.Equal(t, first, second)

	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(second)
	require.NoError(t, err)
	assert.JSONEq(t, string(a), string(b))
}

func TestCompute_EmptyFieldsAreOrdinaryBuckets(t *testing.T) {
	r := Compute([]music.Song{song("x", "", "", "", 1), song("y", "", "", "", 2)})
	assert.Equal(t, []GenreCount{{"", 2}}, r.SongsPerGenre)
	assert.Equal(t, 1, r.TotalArtists)
}
