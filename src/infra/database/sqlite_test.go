package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/contre95/songbase/src/music"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCatalog(t *testing.T) *SqliteCatalog {
	t.Helper()
	catalog, err := NewSqliteCatalog(filepath.Join(t.TempDir(), "songs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { catalog.Close() })
	return catalog
}

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func addSong(t *testing.T, c *SqliteCatalog, title, artist, album, genre string, minute int) *music.Song {
	t.Helper()
	song := music.NewSong(music.SongPayload{Title: title, Artist: artist, Album: album, Genre: genre},
		epoch.Add(time.Duration(minute)*time.Minute))
	require.NoError(t, c.AddSong(context.Background(), song))
	return song
}

func titles(songs []*music.Song) []string {
	out := make([]string, len(songs))
	for i, s := range songs {
		out[i] = s.Title
	}
	return out
}

func TestSqliteCatalog_CRUD(t *testing.T) {
	ctx := context.Background()
	c := newTestCatalog(t)

	song := addSong(t, c, "Halo", "Beyoncé", "I Am... Sasha Fierce", "Pop", 1)

	got, err := c.GetSong(ctx, song.ID)
	require.NoError(t, err)
	assert.Equal(t, "Halo", got.Title)
	assert.Equal(t, "Beyoncé", got.Artist)
	assert.True(t, song.CreatedAt.Equal(got.CreatedAt))

	got.Apply(music.SongPayload{Title: "Halo (Live)", Artist: "Beyoncé", Album: "Live", Genre: "Pop"}, epoch.Add(time.Hour))
	require.NoError(t, c.UpdateSong(ctx, got))

	updated, err := c.GetSong(ctx, song.ID)
	require.NoError(t, err)
	assert.Equal(t, "Halo (Live)", updated.Title)
	assert.Equal(t, "Live", updated.Album)
	assert.True(t, song.CreatedAt.Equal(updated.CreatedAt), "created_at must survive updates")
	assert.True(t, epoch.Add(time.Hour).Equal(updated.UpdatedAt))

	count, err := c.CountSongs(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	require.NoError(t, c.DeleteSong(ctx, song.ID))
	_, err = c.GetSong(ctx, song.ID)
	assert.ErrorIs(t, err, music.ErrSongNotFound)
}

func TestSqliteCatalog_MissingSong(t *testing.T) {
	ctx := context.Background()
	c := newTestCatalog(t)
	ghost := music.NewSong(music.SongPayload{Title: "x", Artist: "y", Album: "z", Genre: "w"}, epoch)

	_, err := c.GetSong(ctx, ghost.ID)
	assert.ErrorIs(t, err, music.ErrSongNotFound)
	assert.ErrorIs(t, c.UpdateSong(ctx, ghost), music.ErrSongNotFound)
	assert.ErrorIs(t, c.DeleteSong(ctx, ghost.ID), music.ErrSongNotFound)
}

func TestSqliteCatalog_ListSongs(t *testing.T) {
	ctx := context.Background()
	c := newTestCatalog(t)
	addSong(t, c, "Crazy in Love", "Beyoncé", "Dangerously in Love", "R&B", 1)
	addSong(t, c, "Paranoid", "Black Sabbath", "Paranoid", "Metal", 2)
	addSong(t, c, "Alone", "Beyoncé", "Lemonade", "Pop", 3)
	addSong(t, c, "100%_real", "Quirk", "Odd", "Pop", 4)

	tests := []struct {
		name   string
		filter music.SongFilter
		want   []string
	}{
		{"default newest first", music.SongFilter{}, []string{"100%_real", "Alone", "Paranoid", "Crazy in Love"}},
		{"oldest", music.SongFilter{Sort: music.SortOldest}, []string{"Crazy in Love", "Paranoid", "Alone", "100%_real"}},
		{"title", music.SongFilter{Sort: music.SortTitle}, []string{"100%_real", "Alone", "Crazy in Love", "Paranoid"}},
		{"genre exact", music.SongFilter{Genre: "Pop"}, []string{"100%_real", "Alone"}},
		{"artist exact", music.SongFilter{Artist: "Beyoncé"}, []string{"Alone", "Crazy in Love"}},
		{"genre and artist", music.SongFilter{Genre: "Pop", Artist: "Beyoncé"}, []string{"Alone"}},
		{"search folds accents and case", music.SongFilter{Search: "BEYONCE"}, []string{"Alone", "Crazy in Love"}},
		{"search matches album", music.SongFilter{Search: "lemon"}, []string{"Alone"}},
		{"search escapes wildcards", music.SongFilter{Search: "%_"}, []string{"100%_real"}},
		{"no match", music.SongFilter{Genre: "Polka"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			songs, err := c.ListSongs(ctx, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, titles(songs))
		})
	}
}

func TestSqliteCatalog_FetchAllInsertionOrder(t *testing.T) {
	ctx := context.Background()
	c := newTestCatalog(t)

	empty, err := c.FetchAll(ctx)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	addSong(t, c, "one", "a", "x", "g", 5)
	addSong(t, c, "two", "a", "x", "g", 5)
	addSong(t, c, "zero", "a", "x", "g", 1)

	songs, err := c.FetchAll(ctx)
	require.NoError(t, err)
	require.Len(t, songs, 3)
	assert.Equal(t, "zero", songs[0].Title)
	assert.Equal(t, "one", songs[1].Title)
	assert.Equal(t, "two", songs[2].Title)
}

func TestFormatTimeSortsLexically(t *testing.T) {
	a := formatTime(epoch.Add(500 * time.Millisecond))
	b := formatTime(epoch.Add(time.Second))
	assert.Less(t, a, b)

	parsed, err := parseTime(a)
	require.NoError(t, err)
	assert.True(t, parsed.Equal(epoch.Add(500*time.Millisecond)))
}

func TestSqliteCatalog_AddSongsIsAtomic(t *testing.T) {
	ctx := context.Background()
	c := newTestCatalog(t)
	existing := addSong(t, c, "Creep", "Radiohead", "Pablo Honey", "Rock", 1)

	newSong := func(title string, minute int) *music.Song {
		return music.NewSong(music.SongPayload{Title: title, Artist: "Radiohead", Album: "OK Computer", Genre: "Rock"},
			epoch.Add(time.Duration(minute)*time.Minute))
	}

	// The duplicate primary key in the middle of the batch must undo the first insert.
	duplicate := *existing
	err := c.AddSongs(ctx, []*music.Song{newSong("Airbag", 2), &duplicate, newSong("Lucky", 3)})
	require.Error(t, err)

	count, err := c.CountSongs(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	require.NoError(t, c.AddSongs(ctx, []*music.Song{newSong("Airbag", 2), newSong("Lucky", 3)}))
	all, err := c.FetchAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"Creep", "Airbag", "Lucky"}, []string{all[0].Title, all[1].Title, all[2].Title})

	require.NoError(t, c.AddSongs(ctx, nil))
}
