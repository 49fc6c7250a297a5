package importing

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/contre95/songbase/src/music"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockCreator struct {
	created []music.SongPayload
	failOn  string
}

func (m *mockCreator) CreateSongs(ctx context.Context, payloads []music.SongPayload) ([]*music.Song, error) {
	for i := range payloads {
		if err := payloads[i].Validate(); err != nil {
			return nil, err
		}
		if m.failOn != "" && payloads[i].Title == m.failOn {
			return nil, errors.New("disk full")
		}
	}
	songs := make([]*music.Song, len(payloads))
	for i, p := range payloads {
		m.created = append(m.created, p)
		songs[i] = &music.Song{Title: p.Title}
	}
	return songs, nil
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

const yamlSongs = `songs:
  - title: Blue in Green
    artist: Miles Davis
    album: Kind of Blue
    genre: Jazz
  - title: ""
    artist: Nobody
    album: Nothing
    genre: Silence
`

const csvSongs = "Song Title,Artist,Album,Genre,Year\n" +
	"Paranoid Android,Radiohead,OK Computer,Rock,1997\n" +
	"\n" +
	"Karma Police,Radiohead,OK Computer,Rock,1997\n"

func TestScanDirectory_ImportsAndMarksFilesDone(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.csv", csvSongs)
	writeFile(t, dir, "a.yaml", yamlSongs)
	writeFile(t, dir, "notes.txt", "ignored")
	writeFile(t, dir, "old.yml.done", "songs: []")

	creator := &mockCreator{}
	summary, err := NewService(creator, dir).ScanDirectory(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Files)
	assert.Equal(t, 3, summary.Imported)
	assert.Equal(t, 1, summary.Skipped)
	require.Len(t, summary.Errors, 1)
	assert.Equal(t, "a.yaml", summary.Errors[0].File)
	assert.Equal(t, 2, summary.Errors[0].Entry)
	assert.Contains(t, summary.Errors[0].Message, "Missing or empty fields: title")

	require.Len(t, creator.created, 3)
	assert.Equal(t, "Blue in Green", creator.created[0].Title)
	assert.Equal(t, "Paranoid Android", creator.created[1].Title)
	assert.Equal(t, "Karma Police", creator.created[2].Title)

	assert.FileExists(t, filepath.Join(dir, "a.yaml.done"))
	assert.FileExists(t, filepath.Join(dir, "b.csv.done"))
	assert.NoFileExists(t, filepath.Join(dir, "a.yaml"))
	assert.FileExists(t, filepath.Join(dir, "notes.txt"))
}

func TestScanDirectory_SecondScanFindsNothing(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "songs.yml", yamlSongs)
	service := NewService(&mockCreator{}, dir)

	_, err := service.ScanDirectory(context.Background())
	require.NoError(t, err)

	summary, err := service.ScanDirectory(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Summary{}, *summary)
}

func TestScanDirectory_BrokenFileIsReportedAndKept(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "broken.yaml", "songs: [unterminated")

	summary, err := NewService(&mockCreator{}, dir).ScanDirectory(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Files)
	assert.Zero(t, summary.Imported)
	require.Len(t, summary.Errors, 1)
	assert.Zero(t, summary.Errors[0].Entry)
	assert.FileExists(t, path)
}

func TestScanDirectory_StoreFailureKeepsFileForRetry(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.csv", csvSongs)
	creator := &mockCreator{failOn: "Karma Police"}
	service := NewService(creator, dir)

	summary, err := service.ScanDirectory(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Zero(t, summary.Imported)
	assert.Empty(t, creator.created, "a failed batch must store nothing")
	assert.FileExists(t, path)

	creator.failOn = ""
	summary, err = service.ScanDirectory(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Imported)

	counts := map[string]int{}
	for _, p := range creator.created {
		counts[p.Title]++
	}
	assert.Equal(t, map[string]int{"Paranoid Android": 1, "Karma Police": 1}, counts)
	assert.FileExists(t, path+DoneSuffix)
}

func TestScanDirectory_MissingDirectory(t *testing.T) {
	_, err := NewService(&mockCreator{}, filepath.Join(t.TempDir(), "missing")).ScanDirectory(context.Background())
	assert.Error(t, err)
}

func TestParseCSV(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []music.SongPayload
		wantErr bool
	}{
		{
			name:  "aliases and column order",
			input: "genre,band,record,name\nJazz,Miles Davis,Kind of Blue,So What\n",
			want:  []music.SongPayload{{Title: "So What", Artist: "Miles Davis", Album: "Kind of Blue", Genre: "Jazz"}},
		},
		{
			name:  "short rows leave fields empty",
			input: "title,artist,album,genre\nLonely\n",
			want:  []music.SongPayload{{Title: "Lonely"}},
		},
		{
			name:  "empty input",
			input: "",
			want:  []music.SongPayload{},
		},
		{
			name:    "no title column",
			input:   "artist,album\nA,B\n",
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCSV(strings.NewReader(tt.input))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseYAML_Empty(t *testing.T) {
	got, err := ParseYAML(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NotNil(t, got)
}

func TestFormatSummary(t *testing.T) {
	assert.Contains(t, FormatSummary(&Summary{}), "No files waiting")

	msg := FormatSummary(&Summary{Files: 1, Imported: 2, Skipped: 1, Errors: []EntryError{{File: "a.csv", Entry: 3, Message: "Title too long"}}})
	assert.Contains(t, msg, "Imported: 2")
	assert.Contains(t, msg, "a.csv #3: Title too long")

	msg = FormatSummary(&Summary{Files: 1, Skipped: 1, Errors: []EntryError{{File: "my_songs.csv", Entry: 2, Message: "bad `quote`"}}})
	assert.Contains(t, msg, "my\\_songs.csv #2: bad \\`quote\\`")
	assert.NotContains(t, msg, "my_songs")
}
