// Package task runs background maintenance loops.
package task

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"showgap/internal/catalog"
)

// catalogCache is the slice of the catalog cache the worker needs
type catalogCache interface {
	PopularShows() []string
	Refresh(ctx context.Context, showID string) (*catalog.Result, error)
}

// RefreshWorker periodically refreshes popular catalog entries so
// frequently planned shows stay warm even between user requests
type RefreshWorker struct {
	cache    catalogCache
	interval time.Duration
	logger   zerolog.Logger
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

// NewRefreshWorker creates a new RefreshWorker instance
func NewRefreshWorker(cache catalogCache, interval time.Duration, logger zerolog.Logger) *RefreshWorker {
	return &RefreshWorker{
		cache:    cache,
		interval: interval,
		logger:   logger,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the background refresh loop
func (w *RefreshWorker) Start(ctx context.Context) {
	w.wg.Add(1)
	go w.run(ctx)
}

// Stop gracefully stops the refresh worker
func (w *RefreshWorker) Stop() {
	close(w.stopCh)
	w.wg.Wait()
}

// run is the main loop that periodically refreshes popular shows
func (w *RefreshWorker) run(ctx context.Context) {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.refreshPopular(ctx)
		}
	}
}

// refreshPopular refreshes every show that has crossed the popularity
// threshold. Failures are logged and skipped; the cache keeps serving
// stale entries until the next cycle.
func (w *RefreshWorker) refreshPopular(ctx context.Context) {
	shows := w.cache.PopularShows()
	if len(shows) == 0 {
		return
	}

	refreshed := 0
	for _, showID := range shows {
		if _, err := w.cache.Refresh(ctx, showID); err != nil {
			w.logger.Warn().Err(err).Str("show_id", showID).Msg("failed to refresh popular show")
			continue
		}
		refreshed++
	}

	w.logger.Debug().
		Int("popular", len(shows)).
		Int("refreshed", refreshed).
		Msg("popular catalog refresh cycle complete")
}
