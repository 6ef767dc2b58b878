// Package catalog fronts the external catalog source with a TTL- and
// status-aware cache. It is the only shared mutable state in the system:
// refreshes are single-flighted per show ID, stale data is served marked
// as degraded when the source is down, and popularity is tracked through
// an explicit counter rather than ambient global state.
package catalog

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"showgap/internal/domain"
)

// Config carries the cache TTL policy. TTLs are attributes of the cached
// show (status, popularity), not of individual call sites.
type Config struct {
	// EndedTTL is how long a finished show's record stays fresh
	EndedTTL time.Duration

	// OngoingTTL is how long an airing show's record stays fresh
	OngoingTTL time.Duration

	// PopularTTLFloor is the minimum refresh interval for popular shows,
	// protecting the rate-limited source from user traffic
	PopularTTLFloor time.Duration

	// PopularThreshold is how many requests mark a show as popular
	PopularThreshold int
}

// DefaultConfig returns the standard TTL policy: ended shows weekly,
// ongoing shows every 6 hours, popular shows at most daily.
func DefaultConfig() Config {
	return Config{
		EndedTTL:         7 * 24 * time.Hour,
		OngoingTTL:       6 * time.Hour,
		PopularTTLFloor:  24 * time.Hour,
		PopularThreshold: 3,
	}
}

// Result is a cache read: the show plus freshness metadata. Degraded is
// set when the source failed and the last good value was served instead.
type Result struct {
	Show      *domain.Show
	Degraded  bool
	FetchedAt time.Time
}

type entry struct {
	show      *domain.Show
	fetchedAt time.Time
}

// Cache wraps a CatalogSource with TTL caching and single-flight
// refreshes. Concurrent refreshes for the same show ID share one
// underlying fetch; distinct show IDs proceed with unlimited concurrency.
type Cache struct {
	source domain.CatalogSource
	clock  domain.Clock
	cfg    Config
	logger zerolog.Logger

	group singleflight.Group

	mu      sync.RWMutex
	entries map[string]*entry
	demand  map[string]int
}

// New creates a Cache in front of the given source
func New(source domain.CatalogSource, clock domain.Clock, cfg Config, logger zerolog.Logger) *Cache {
	return &Cache{
		source:  source,
		clock:   clock,
		cfg:     cfg,
		logger:  logger,
		entries: make(map[string]*entry),
		demand:  make(map[string]int),
	}
}

// GetShow returns the show, fetching through the source when the cached
// record is missing or stale. On fetch failure the last good value is
// served with Degraded set; with no cached value a CatalogUnavailable
// error is returned. The fetch honors ctx deadlines and cancellation.
func (c *Cache) GetShow(ctx context.Context, showID string) (*Result, error) {
	if showID == "" {
		return nil, domain.ErrInvalidInput
	}

	if e, fresh := c.lookup(showID); fresh {
		return &Result{Show: e.show, FetchedAt: e.fetchedAt}, nil
	}

	return c.refresh(ctx, showID)
}

// Refresh forces a fetch for the show, bypassing TTL checks. Concurrent
// refreshes still share a single in-flight fetch.
func (c *Cache) Refresh(ctx context.Context, showID string) (*Result, error) {
	if showID == "" {
		return nil, domain.ErrInvalidInput
	}
	return c.refresh(ctx, showID)
}

// MarkRequested records demand for a show. This is the explicit
// cross-component popularity signal: once a show crosses the configured
// threshold its TTL is floored at PopularTTLFloor.
func (c *Cache) MarkRequested(showID string) {
	if showID == "" {
		return
	}
	c.mu.Lock()
	c.demand[showID]++
	c.mu.Unlock()
}

// IsPopular reports whether the show has crossed the demand threshold
func (c *Cache) IsPopular(showID string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.demand[showID] >= c.cfg.PopularThreshold
}

// PopularShows returns the IDs of all shows over the demand threshold
func (c *Cache) PopularShows() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var ids []string
	for id, count := range c.demand {
		if count >= c.cfg.PopularThreshold {
			ids = append(ids, id)
		}
	}
	return ids
}

// lookup returns the cached entry and whether it is still fresh
func (c *Cache) lookup(showID string) (*entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[showID]
	if !ok {
		return nil, false
	}

	age := c.clock.Now().Sub(e.fetchedAt)
	return e, age < c.ttlFor(showID, e.show)
}

// ttlFor derives the refresh interval from the cached show's status and
// popularity. Callers must hold at least a read lock.
func (c *Cache) ttlFor(showID string, show *domain.Show) time.Duration {
	ttl := c.cfg.OngoingTTL
	if show.Status == domain.StatusEnded {
		ttl = c.cfg.EndedTTL
	}
	if c.demand[showID] >= c.cfg.PopularThreshold && ttl < c.cfg.PopularTTLFloor {
		ttl = c.cfg.PopularTTLFloor
	}
	return ttl
}

// refresh fetches the show through the single-flight group and falls
// back to the stale cached value on failure
func (c *Cache) refresh(ctx context.Context, showID string) (*Result, error) {
	v, err, shared := c.group.Do(showID, func() (interface{}, error) {
		show, err := c.source.FetchShow(ctx, showID)
		if err != nil {
			return nil, err
		}

		e := &entry{show: show, fetchedAt: c.clock.Now()}
		c.mu.Lock()
		c.entries[showID] = e
		c.mu.Unlock()
		return e, nil
	})

	if err != nil {
		c.mu.RLock()
		stale, ok := c.entries[showID]
		c.mu.RUnlock()

		if ok {
			c.logger.Warn().Err(err).Str("show_id", showID).
				Msg("catalog fetch failed, serving stale value")
			return &Result{Show: stale.show, Degraded: true, FetchedAt: stale.fetchedAt}, nil
		}
		return nil, domain.NewCatalogUnavailable(showID, err)
	}

	e := v.(*entry)
	if !shared {
		c.logger.Debug().Str("show_id", showID).Msg("catalog record refreshed")
	}
	return &Result{Show: e.show, FetchedAt: e.fetchedAt}, nil
}
