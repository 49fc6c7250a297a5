package importing

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/contre95/songbase/src/infra/watcher"
	"github.com/contre95/songbase/src/music"
)

// DoneSuffix is appended to files once they have been imported.
const DoneSuffix = ".done"

// Extensions lists the file types picked up from the import directory.
var Extensions = []string{".yaml", ".yml", ".csv"}

// SongCreator validates and stores a batch of songs atomically.
type SongCreator interface {
	CreateSongs(ctx context.Context, payloads []music.SongPayload) ([]*music.Song, error)
}

// EntryError describes an entry that could not be imported.
type EntryError struct {
	File    string `json:"file"`
	Entry   int    `json:"entry,omitempty"`
	Message string `json:"message"`
}

// Summary is the outcome of a directory scan.
type Summary struct {
	Files    int          `json:"files"`
	Imported int          `json:"imported"`
	Skipped  int          `json:"skipped"`
	Errors   []EntryError `json:"errors,omitempty"`
}

// Service imports songs from files dropped in a directory.
type Service struct {
	creator SongCreator
	dir     string
	mu      sync.Mutex
}

// NewService creates a new importing service reading from dir.
func NewService(creator SongCreator, dir string) *Service {
	return &Service{creator: creator, dir: dir}
}

// Dir returns the directory scanned for import files.
func (s *Service) Dir() string {
	return s.dir
}

// ScanDirectory imports every pending file in the import directory, in name order.
func (s *Service) ScanDirectory(ctx context.Context) (*Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	slog.Debug("ScanDirectory service called", "dir", s.dir)
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		slog.Error("Failed to read import directory", "dir", s.dir, "error", err)
		return nil, fmt.Errorf("read import directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !isImportFile(entry.Name()) {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	summary := &Summary{}
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		summary.Files++
		if err := s.importFile(ctx, filepath.Join(s.dir, name), summary); err != nil {
			return summary, err
		}
	}

	slog.Info("Import scan finished", "files", summary.Files, "imported", summary.Imported, "skipped", summary.Skipped)
	return summary, nil
}

// importFile stores the valid entries of one file in a single batch and marks the file
// done. Invalid entries are skipped. A file that cannot be parsed is reported and left in
// place, and so is a file whose batch the store rejects, with nothing of it stored.
func (s *Service) importFile(ctx context.Context, path string, summary *Summary) error {
	name := filepath.Base(path)
	logger := slog.With("file", name)

	payloads, err := readFile(path)
	if err != nil {
		logger.Warn("Skipping unreadable import file", "error", err)
		summary.Errors = append(summary.Errors, EntryError{File: name, Message: err.Error()})
		return nil
	}

	valid := make([]music.SongPayload, 0, len(payloads))
	var rejected []EntryError
	for i := range payloads {
		if err := payloads[i].Validate(); err != nil {
			logger.Debug("Skipping invalid entry", "entry", i+1, "error", err)
			rejected = append(rejected, EntryError{File: name, Entry: i + 1, Message: err.Error()})
			continue
		}
		valid = append(valid, payloads[i])
	}

	if len(valid) > 0 {
		if _, err := s.creator.CreateSongs(ctx, valid); err != nil {
			logger.Error("Failed to import file", "entries", len(valid), "error", err)
			return fmt.Errorf("import %s: %w", name, err)
		}
	}
	summary.Imported += len(valid)
	summary.Skipped += len(rejected)
	summary.Errors = append(summary.Errors, rejected...)

	if err := os.Rename(path, path+DoneSuffix); err != nil {
		return fmt.Errorf("mark %s as done: %w", name, err)
	}
	logger.Debug("Import file processed", "entries", len(payloads))
	return nil
}

// Watch runs a scan for every event received until ctx is done or events is closed.
func (s *Service) Watch(ctx context.Context, events <-chan watcher.FileEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			slog.Debug("Import directory changed", "path", ev.Path, "type", ev.EventType)
			if _, err := s.ScanDirectory(ctx); err != nil {
				slog.Error("Import scan failed", "error", err)
			}
		}
	}
}

func readFile(path string) ([]music.SongPayload, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return ParseCSV(f)
	}
	return ParseYAML(f)
}

func isImportFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}
