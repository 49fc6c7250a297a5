package importing

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/contre95/songbase/src/music"
	"gopkg.in/yaml.v3"
)

// songFile is the layout of a YAML import file.
type songFile struct {
	Songs []music.SongPayload `yaml:"songs"`
}

// headerAliases maps normalized CSV header names to payload fields.
var headerAliases = map[string]string{
	"title":      "title",
	"song":       "title",
	"name":       "title",
	"track":      "title",
	"artist":     "artist",
	"performer":  "artist",
	"band":       "artist",
	"album":      "album",
	"record":     "album",
	"release":    "album",
	"genre":      "genre",
	"style":      "genre",
	"songtitle":  "title",
	"albumtitle": "album",
	"artistname": "artist",
}

func normalizeHeader(s string) string {
	s = strings.TrimSpace(strings.ToLower(s))
	s = strings.TrimPrefix(s, "\ufeff")
	return strings.NewReplacer(" ", "", "_", "", "-", "").Replace(s)
}

// ParseYAML reads a document of the form `songs: [{title, artist, album, genre}, ...]`.
func ParseYAML(r io.Reader) ([]music.SongPayload, error) {
	var doc songFile
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return []music.SongPayload{}, nil
		}
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	if doc.Songs == nil {
		return []music.SongPayload{}, nil
	}
	return doc.Songs, nil
}

// ParseCSV reads a CSV file whose first row names the columns. Unknown columns are ignored.
func ParseCSV(r io.Reader) ([]music.SongPayload, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return []music.SongPayload{}, nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	columns := make(map[string]int, 4)
	for i, h := range header {
		field, ok := headerAliases[normalizeHeader(h)]
		if !ok {
			continue
		}
		if _, seen := columns[field]; !seen {
			columns[field] = i
		}
	}
	if _, ok := columns["title"]; !ok {
		return nil, fmt.Errorf("csv header has no title column")
	}

	cell := func(row []string, field string) string {
		i, ok := columns[field]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	payloads := []music.SongPayload{}
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", len(payloads)+2, err)
		}
		if isBlank(row) {
			continue
		}
		payloads = append(payloads, music.SongPayload{
			Title:  cell(row, "title"),
			Artist: cell(row, "artist"),
			Album:  cell(row, "album"),
			Genre:  cell(row, "genre"),
		})
	}
	return payloads, nil
}

func isBlank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
