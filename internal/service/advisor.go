// Package service wires the planning core together: classification,
// timeline building, and gap optimization behind one request-driven
// facade.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/sourcegraph/conc/pool"

	"showgap/internal/catalog"
	"showgap/internal/classify"
	"showgap/internal/domain"
	"showgap/internal/optimizer"
	"showgap/internal/timeline"
)

// Config carries the advisor's orchestration knobs
type Config struct {
	// MaxWorkers bounds how many shows are fetched and classified
	// concurrently
	MaxWorkers int

	// HorizonDays is the default optimization horizon from today
	HorizonDays int

	// GraceDays extends the horizon past the last known air date; it
	// should match the timeline builder's grace window
	GraceDays int

	// Country selects which provider availability applies to users
	Country string
}

// DefaultConfig returns defaults consistent with the timeline and
// optimizer defaults
func DefaultConfig() Config {
	return Config{
		MaxWorkers:  8,
		HorizonDays: 180,
		GraceDays:   30,
		Country:     "US",
	}
}

// Advisor implements the public planning surface: Classify,
// BuildTimeline, and Optimize. It is stateless between requests; the
// catalog cache underneath is the only shared mutable resource.
type Advisor struct {
	cache      *catalog.Cache
	users      domain.UserStore
	aggregator *classify.Aggregator
	builder    *timeline.Builder
	optimizer  *optimizer.Optimizer
	clock      domain.Clock
	cfg        Config
	logger     zerolog.Logger
}

// NewAdvisor creates an Advisor from its collaborators
func NewAdvisor(
	cache *catalog.Cache,
	users domain.UserStore,
	aggregator *classify.Aggregator,
	builder *timeline.Builder,
	opt *optimizer.Optimizer,
	clock domain.Clock,
	cfg Config,
	logger zerolog.Logger,
) *Advisor {
	if cfg.MaxWorkers <= 0 {
		cfg.MaxWorkers = DefaultConfig().MaxWorkers
	}
	return &Advisor{
		cache:      cache,
		users:      users,
		aggregator: aggregator,
		builder:    builder,
		optimizer:  opt,
		clock:      clock,
		cfg:        cfg,
		logger:     logger,
	}
}

// Classify returns per-season and show-level release patterns for one
// show. Requesting a show counts toward its popularity.
func (a *Advisor) Classify(ctx context.Context, showID string) (*domain.ClassifyResult, error) {
	if showID == "" {
		return nil, fmt.Errorf("%w: show ID cannot be empty", domain.ErrInvalidInput)
	}

	a.cache.MarkRequested(showID)
	cached, err := a.cache.GetShow(ctx, showID)
	if err != nil {
		return nil, err
	}

	perSeason, showLevel := a.aggregator.AggregateShow(cached.Show)
	return &domain.ClassifyResult{
		ShowID:    showID,
		PerSeason: perSeason,
		ShowLevel: showLevel,
		Degraded:  cached.Degraded,
	}, nil
}

// BuildTimeline projects the user's per-day, per-service availability
// across the requested range
func (a *Advisor) BuildTimeline(ctx context.Context, userID string, from, to time.Time) (*domain.Timeline, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user ID cannot be empty", domain.ErrInvalidInput)
	}
	if to.Before(from) {
		return nil, fmt.Errorf("%w: date range end precedes start", domain.ErrInvalidInput)
	}

	subscriptions, err := a.users.GetUserSubscriptions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load subscriptions: %w", err)
	}
	states, err := a.users.GetUserShowStates(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load show states: %w", err)
	}

	shows, err := a.fetchShowData(ctx, trackedShowIDs(states))
	if err != nil {
		return nil, err
	}

	return a.builder.Build(ctx, userID, from, to, subscriptions, states, shows)
}

// Optimize scans the user's subscriptions for cancellable windows and
// returns ranked recommendations. The horizon runs from today through
// the later of the configured horizon or the last known air date plus
// the grace window.
func (a *Advisor) Optimize(ctx context.Context, userID string) ([]domain.Recommendation, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user ID cannot be empty", domain.ErrInvalidInput)
	}

	subscriptions, err := a.users.GetUserSubscriptions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load subscriptions: %w", err)
	}
	if len(subscriptions) == 0 {
		return nil, nil
	}
	states, err := a.users.GetUserShowStates(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load show states: %w", err)
	}

	shows, err := a.fetchShowData(ctx, trackedShowIDs(states))
	if err != nil {
		return nil, err
	}

	from := midnight(a.clock.Now())
	to := from.AddDate(0, 0, a.cfg.HorizonDays)
	if last := lastKnownAirDate(shows); last != nil {
		if extended := midnight(*last).AddDate(0, 0, a.cfg.GraceDays); extended.After(to) {
			to = extended
		}
	}

	// Gap scanning needs the full air schedule even where a lapsed
	// subscription would leave holes, so coverage is widened to the
	// whole horizon; the real subscription still drives cost and the
	// active flag.
	planning := make([]domain.Subscription, len(subscriptions))
	for i, sub := range subscriptions {
		planning[i] = sub
		planning[i].IsActive = true
		planning[i].StartDate = from
		planning[i].EndDate = nil
	}

	built, err := a.builder.Build(ctx, userID, from, to, planning, states, shows)
	if err != nil {
		return nil, err
	}

	var recommendations []domain.Recommendation
	for _, sub := range subscriptions {
		input := a.serviceInput(sub, built, states, shows)
		recommendations = append(recommendations, a.optimizer.Recommend(input)...)
	}
	optimizer.Rank(recommendations)

	a.logger.Debug().
		Str("user_id", userID).
		Int("recommendations", len(recommendations)).
		Msg("optimization run complete")
	return recommendations, nil
}

// serviceInput assembles the optimizer's view of one subscription
func (a *Advisor) serviceInput(
	sub domain.Subscription,
	built *domain.Timeline,
	states []domain.UserShowState,
	shows map[string]timeline.ShowData,
) optimizer.ServiceInput {
	input := optimizer.ServiceInput{
		Subscription: sub,
		Degraded:     built.Degraded,
	}

	for _, e := range built.Entries {
		if e.ServiceID == sub.ServiceID {
			input.Entries = append(input.Entries, e)
		}
	}

	allUnknown := true
	for _, state := range states {
		if state.WatchStatus != domain.WatchStatusWatching && state.WatchStatus != domain.WatchStatusWatchlist {
			continue
		}
		data, ok := shows[state.ShowID]
		if !ok || !data.Show.AvailableOn(sub.ServiceID, a.cfg.Country) {
			continue
		}
		input.TrackedShows++
		if !allSeasonsUnknown(data.Classifications) {
			allUnknown = false
		}
	}
	input.AllPatternsUnknown = input.TrackedShows > 0 && allUnknown
	return input
}

// fetchShowData loads and classifies the given shows concurrently.
// Every requested show counts toward popularity, the explicit signal
// that feeds the cache's TTL floor.
func (a *Advisor) fetchShowData(ctx context.Context, showIDs []string) (map[string]timeline.ShowData, error) {
	result := make(map[string]timeline.ShowData, len(showIDs))
	if len(showIDs) == 0 {
		return result, nil
	}

	var mu sync.Mutex
	var firstErr error

	workers := pool.New().WithMaxGoroutines(a.cfg.MaxWorkers)
	for _, showID := range showIDs {
		showID := showID
		a.cache.MarkRequested(showID)

		workers.Go(func() {
			cached, err := a.cache.GetShow(ctx, showID)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				return
			}

			classifications, _ := a.aggregator.AggregateShow(cached.Show)
			result[showID] = timeline.ShowData{
				Show:            cached.Show,
				Classifications: classifications,
				Degraded:        cached.Degraded,
			}
		})
	}
	workers.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return result, nil
}

// trackedShowIDs returns the distinct show IDs the user is watching or
// has watchlisted
func trackedShowIDs(states []domain.UserShowState) []string {
	var ids []string
	seen := make(map[string]bool)
	for _, state := range states {
		if state.WatchStatus != domain.WatchStatusWatching && state.WatchStatus != domain.WatchStatusWatchlist {
			continue
		}
		if !seen[state.ShowID] {
			seen[state.ShowID] = true
			ids = append(ids, state.ShowID)
		}
	}
	return ids
}

// allSeasonsUnknown reports whether every classified season came back
// unknown
func allSeasonsUnknown(classifications map[int]domain.SeasonClassification) bool {
	for _, sc := range classifications {
		if sc.Effective.Pattern != domain.PatternUnknown {
			return false
		}
	}
	return true
}

// lastKnownAirDate returns the latest air date across all fetched shows
func lastKnownAirDate(shows map[string]timeline.ShowData) *time.Time {
	var last *time.Time
	for _, data := range shows {
		for i := range data.Show.Seasons {
			if d := data.Show.Seasons[i].LastAirDate(); d != nil {
				if last == nil || d.After(*last) {
					last = d
				}
			}
		}
	}
	return last
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
