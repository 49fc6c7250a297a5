package stats

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/contre95/songbase/src/music"
)

// Snapshotter supplies a consistent, fully materialized copy of the catalog.
type Snapshotter interface {
	FetchAll(ctx context.Context) ([]music.Song, error)
}

// Observer is notified after every computation.
type Observer interface {
	ObserveComputation(duration time.Duration, songs int)
}

// Service computes statistics reports on demand. Nothing is cached between calls.
type Service struct {
	store    Snapshotter
	observer Observer
}

// NewService creates a new stats service. observer may be nil.
func NewService(store Snapshotter, observer Observer) *Service {
	return &Service{
		store:    store,
		observer: observer,
	}
}

// GetReport fetches a fresh snapshot and aggregates it.
func (s *Service) GetReport(ctx context.Context) (*Report, error) {
	slog.Debug("GetReport service called")
	songs, err := s.store.FetchAll(ctx)
	if err != nil {
		slog.Error("GetReport failed to fetch snapshot", "error", err)
		return nil, fmt.Errorf("failed to fetch songs: %w", err)
	}

	start := time.Now()
	report := Compute(songs)
	elapsed := time.Since(start)
	if s.observer != nil {
		s.observer.ObserveComputation(elapsed, len(songs))
	}

	slog.Debug("GetReport completed", "songs", report.TotalSongs, "duration", elapsed.String())
	return &report, nil
}
