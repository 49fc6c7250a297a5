package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/contre95/songbase/src/music"
	_ "github.com/mattn/go-sqlite3"
)

// timeLayout is fixed width so that stored timestamps sort correctly as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SqliteCatalog is a SQLite implementation of the music.Catalog interface.
type SqliteCatalog struct {
	db *sql.DB
}

// NewSqliteCatalog opens (or creates) the catalog database at path.
func NewSqliteCatalog(path string) (*SqliteCatalog, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if err := createTables(db); err != nil {
		db.Close()
		return nil, err
	}

	return &SqliteCatalog{db: db}, nil
}

// Close releases the underlying database handle.
func (d *SqliteCatalog) Close() error {
	return d.db.Close()
}

func createTables(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS songs (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			artist TEXT NOT NULL,
			album TEXT NOT NULL,
			genre TEXT NOT NULL,
			search_key TEXT NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_songs_artist ON songs(artist);
		CREATE INDEX IF NOT EXISTS idx_songs_album ON songs(album);
		CREATE INDEX IF NOT EXISTS idx_songs_genre ON songs(genre);
		CREATE INDEX IF NOT EXISTS idx_songs_artist_album ON songs(artist, album);
		CREATE INDEX IF NOT EXISTS idx_songs_created_at ON songs(created_at);
	`)
	return err
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(value string) (time.Time, error) {
	return time.Parse(timeLayout, value)
}

type rowScanner interface {
	Scan(dest ...any) error
}

const songColumns = `id, title, artist, album, genre, created_at, updated_at`

func scanSong(row rowScanner) (*music.Song, error) {
	var song music.Song
	var createdAt, updatedAt string
	if err := row.Scan(&song.ID, &song.Title, &song.Artist, &song.Album, &song.Genre, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	var err error
	if song.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("song %s: bad created_at %q: %w", song.ID, createdAt, err)
	}
	if song.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("song %s: bad updated_at %q: %w", song.ID, updatedAt, err)
	}
	return &song, nil
}

const insertSong = `
	INSERT INTO songs (id, title, artist, album, genre, search_key, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`

func songArgs(song *music.Song) []any {
	return []any{song.ID, song.Title, song.Artist, song.Album, song.Genre, song.SearchKey(),
		formatTime(song.CreatedAt), formatTime(song.UpdatedAt)}
}

// AddSong adds a song to the database.
func (d *SqliteCatalog) AddSong(ctx context.Context, song *music.Song) error {
	if _, err := d.db.ExecContext(ctx, insertSong, songArgs(song)...); err != nil {
		slog.Error("AddSong: insert failed", "error", err, "songID", song.ID)
		return err
	}
	return nil
}

// AddSongs adds every song in one transaction. Either all of them are stored or none.
func (d *SqliteCatalog) AddSongs(ctx context.Context, songs []*music.Song) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, insertSong)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, song := range songs {
		if _, err := stmt.ExecContext(ctx, songArgs(song)...); err != nil {
			slog.Error("AddSongs: insert failed, rolling back", "error", err, "songID", song.ID, "batch", len(songs))
			return err
		}
	}
	return tx.Commit()
}

// GetSong gets a song by id. It returns music.ErrSongNotFound when absent.
func (d *SqliteCatalog) GetSong(ctx context.Context, id string) (*music.Song, error) {
	row := d.db.QueryRowContext(ctx, `SELECT `+songColumns+` FROM songs WHERE id = ?`, id)
	song, err := scanSong(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, music.ErrSongNotFound
	}
	return song, err
}

// UpdateSong overwrites the stored fields of an existing song.
func (d *SqliteCatalog) UpdateSong(ctx context.Context, song *music.Song) error {
	res, err := d.db.ExecContext(ctx, `
		UPDATE songs SET title = ?, artist = ?, album = ?, genre = ?, search_key = ?, updated_at = ?
		WHERE id = ?
	`, song.Title, song.Artist, song.Album, song.Genre, song.SearchKey(), formatTime(song.UpdatedAt), song.ID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// DeleteSong removes a song by id.
func (d *SqliteCatalog) DeleteSong(ctx context.Context, id string) error {
	res, err := d.db.ExecContext(ctx, `DELETE FROM songs WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return music.ErrSongNotFound
	}
	return nil
}

var orderClauses = map[music.SortOrder]string{
	music.SortNewest: "created_at DESC, rowid DESC",
	music.SortOldest: "created_at ASC, rowid ASC",
	music.SortTitle:  "title COLLATE NOCASE ASC, created_at DESC",
	music.SortArtist: "artist COLLATE NOCASE ASC, created_at DESC",
	music.SortAlbum:  "album COLLATE NOCASE ASC, created_at DESC",
	music.SortGenre:  "genre COLLATE NOCASE ASC, created_at DESC",
}

// likeEscaper escapes LIKE wildcards so that search terms match literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ListSongs returns the songs matching the filter in the requested order.
func (d *SqliteCatalog) ListSongs(ctx context.Context, filter music.SongFilter) ([]*music.Song, error) {
	var where []string
	var args []any
	if filter.Genre != "" {
		where = append(where, "genre = ?")
		args = append(args, filter.Genre)
	}
	if filter.Artist != "" {
		where = append(where, "artist = ?")
		args = append(args, filter.Artist)
	}
	if term := music.FoldSearch(filter.Search); term != "" {
		where = append(where, `search_key LIKE ? ESCAPE '\'`)
		args = append(args, "%"+likeEscaper.Replace(term)+"%")
	}

	order, ok := orderClauses[filter.Sort]
	if !ok {
		order = orderClauses[music.SortNewest]
	}

	query := `SELECT ` + songColumns + ` FROM songs`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY " + order

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	songs := []*music.Song{}
	for rows.Next() {
		song, err := scanSong(rows)
		if err != nil {
			return nil, err
		}
		songs = append(songs, song)
	}
	return songs, rows.Err()
}

// CountSongs returns the number of songs in the catalog.
func (d *SqliteCatalog) CountSongs(ctx context.Context) (int, error) {
	var count int
	err := d.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM songs").Scan(&count)
	return count, err
}

// FetchAll reads every song inside a single read transaction so that the result is
// one consistent snapshot, ordered by insertion.
func (d *SqliteCatalog) FetchAll(ctx context.Context) ([]music.Song, error) {
	tx, err := d.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx, `SELECT `+songColumns+` FROM songs ORDER BY created_at ASC, rowid ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	songs := []music.Song{}
	for rows.Next() {
		song, err := scanSong(rows)
		if err != nil {
			return nil, err
		}
		songs = append(songs, *song)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return songs, tx.Commit()
}
