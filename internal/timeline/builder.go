// Package timeline projects which of a user's subscribed services carry
// must-watch content, day by day, from show classifications and the
// user's watch state.
package timeline

import (
	"context"
	"fmt"
	"sort"
	"time"

	"showgap/internal/domain"
)

// Config carries the timeline policy knobs
type Config struct {
	// GraceDays is how long after a binge drop access is still worth
	// having; intensity decays linearly from 1.0 to 0 across the window
	GraceDays int

	// Country selects which provider availability entries apply to the
	// user
	Country string
}

// DefaultConfig returns a 30-day binge grace window for US availability
func DefaultConfig() Config {
	return Config{
		GraceDays: 30,
		Country:   "US",
	}
}

// ShowData bundles the inputs the builder needs for one show: the
// catalog record, its effective per-season classifications, and whether
// the data was served stale.
type ShowData struct {
	Show            *domain.Show
	Classifications map[int]domain.SeasonClassification
	Degraded        bool
}

// Builder constructs availability timelines. It holds no mutable state;
// every Build call works on freshly constructed data.
type Builder struct {
	cfg Config
}

// NewBuilder creates a Builder with the given policy configuration
func NewBuilder(cfg Config) (*Builder, error) {
	if cfg.GraceDays < 0 {
		return nil, fmt.Errorf("%w: grace days must be non-negative", domain.ErrInvalidInput)
	}
	return &Builder{cfg: cfg}, nil
}

// cell accumulates intensity contributions for one (day, service) pair
type cell struct {
	intensity float64
	episodes  []domain.EpisodeRef
}

// Build produces one DayEntry per (day, service) pair where a
// subscription overlaps the day, spanning [from, to] inclusive. Only
// Watching and Watchlist shows contribute intensity. The context is
// checked between shows so an abandoned request can stop mid-build.
func (b *Builder) Build(
	ctx context.Context,
	userID string,
	from, to time.Time,
	subscriptions []domain.Subscription,
	states []domain.UserShowState,
	shows map[string]ShowData,
) (*domain.Timeline, error) {
	from = midnightUTC(from)
	to = midnightUTC(to)
	if to.Before(from) {
		return nil, fmt.Errorf("%w: date range end precedes start", domain.ErrInvalidInput)
	}

	timeline := &domain.Timeline{UserID: userID, From: from, To: to}

	// serviceID -> day key -> accumulated cell
	cells := make(map[string]map[string]*cell)
	serviceIDs := make([]string, 0, len(subscriptions))
	seen := make(map[string]bool)
	for _, sub := range subscriptions {
		if !seen[sub.ServiceID] {
			seen[sub.ServiceID] = true
			serviceIDs = append(serviceIDs, sub.ServiceID)
			cells[sub.ServiceID] = make(map[string]*cell)
		}
	}
	sort.Strings(serviceIDs)

	for _, state := range states {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if state.WatchStatus != domain.WatchStatusWatching && state.WatchStatus != domain.WatchStatusWatchlist {
			continue
		}

		data, ok := shows[state.ShowID]
		if !ok || data.Show == nil {
			continue
		}
		if data.Degraded {
			timeline.Degraded = true
		}

		for _, serviceID := range serviceIDs {
			if !data.Show.AvailableOn(serviceID, b.cfg.Country) {
				continue
			}
			b.contributeShow(cells[serviceID], data, state, from, to)
		}
	}

	// Emit entries chronologically, services in stable order per day.
	// Zero-intensity days are included: the optimizer scans them for
	// gaps.
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		for _, serviceID := range serviceIDs {
			if !anySubscriptionCovers(subscriptions, serviceID, day) {
				continue
			}
			entry := domain.DayEntry{Date: day, ServiceID: serviceID}
			if c, ok := cells[serviceID][dayKey(day)]; ok {
				entry.Intensity = c.intensity
				entry.ContributingEpisodes = c.episodes
			}
			timeline.Entries = append(timeline.Entries, entry)
		}
	}

	return timeline, nil
}

// contributeShow folds one show's seasons into the service's cells
func (b *Builder) contributeShow(
	serviceCells map[string]*cell,
	data ShowData,
	state domain.UserShowState,
	from, to time.Time,
) {
	for i := range data.Show.Seasons {
		season := data.Show.Seasons[i]
		sc, ok := data.Classifications[season.SeasonNumber]
		if !ok {
			continue
		}

		switch sc.Effective.Pattern {
		case domain.PatternBinge:
			b.contributeBinge(serviceCells, season, from, to)
		case domain.PatternWeekly, domain.PatternPremiereWeekly:
			b.contributeAirDates(serviceCells, season, state, from, to, 1.0, true)
		default:
			// Mixed and unknown: something airs, with reduced certainty
			b.contributeAirDates(serviceCells, season, state, from, to, 0.5, false)
		}
	}
}

// contributeBinge adds linearly decaying intensity across the grace
// window following the season's drop date
func (b *Builder) contributeBinge(serviceCells map[string]*cell, season domain.Season, from, to time.Time) {
	start := season.FirstAirDate()
	if start == nil || b.cfg.GraceDays == 0 {
		return
	}

	refs := episodeRefs(season)
	windowStart := midnightUTC(*start)
	for d := 0; d <= b.cfg.GraceDays; d++ {
		day := windowStart.AddDate(0, 0, d)
		if day.Before(from) || day.After(to) {
			continue
		}
		intensity := 1.0 - float64(d)/float64(b.cfg.GraceDays)
		if intensity <= 0 {
			continue
		}
		addContribution(serviceCells, day, intensity, refs)
	}
}

// contributeAirDates adds per-episode intensity on exact air dates.
// When skipWatched is set, episodes the user has already seen contribute
// nothing.
func (b *Builder) contributeAirDates(
	serviceCells map[string]*cell,
	season domain.Season,
	state domain.UserShowState,
	from, to time.Time,
	intensity float64,
	skipWatched bool,
) {
	for i := range season.Episodes {
		ep := season.Episodes[i]
		if ep.AirDate == nil {
			continue
		}
		if skipWatched && state.Watched(ep.ID()) {
			continue
		}

		day := midnightUTC(*ep.AirDate)
		if day.Before(from) || day.After(to) {
			continue
		}

		addContribution(serviceCells, day, intensity, []domain.EpisodeRef{{
			ShowID:        season.ShowID,
			SeasonNumber:  season.SeasonNumber,
			EpisodeNumber: ep.EpisodeNumber,
		}})
	}
}

// addContribution merges a contribution into the day's cell. Intensity
// takes the max of all contributions, never the sum: one unmissed item
// already means "keep the subscription that day".
func addContribution(serviceCells map[string]*cell, day time.Time, intensity float64, refs []domain.EpisodeRef) {
	key := dayKey(day)
	c, ok := serviceCells[key]
	if !ok {
		c = &cell{}
		serviceCells[key] = c
	}
	if intensity > c.intensity {
		c.intensity = intensity
	}
	c.episodes = append(c.episodes, refs...)
}

// episodeRefs returns refs for every dated episode of the season
func episodeRefs(season domain.Season) []domain.EpisodeRef {
	refs := make([]domain.EpisodeRef, 0, len(season.Episodes))
	for i := range season.Episodes {
		if season.Episodes[i].AirDate == nil {
			continue
		}
		refs = append(refs, domain.EpisodeRef{
			ShowID:        season.ShowID,
			SeasonNumber:  season.SeasonNumber,
			EpisodeNumber: season.Episodes[i].EpisodeNumber,
		})
	}
	return refs
}

func anySubscriptionCovers(subscriptions []domain.Subscription, serviceID string, day time.Time) bool {
	for _, sub := range subscriptions {
		if sub.ServiceID == serviceID && sub.CoversDay(day) {
			return true
		}
	}
	return false
}

func midnightUTC(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func dayKey(t time.Time) string {
	return t.Format("2006-01-02")
}
