package domain

import "time"

// ShowStatus indicates whether a show is still producing episodes
type ShowStatus string

const (
	StatusOngoing ShowStatus = "ongoing"
	StatusEnded   ShowStatus = "ended"
)

// ReleasePattern classifies how a season releases its episodes
type ReleasePattern string

const (
	// PatternBinge means all or nearly all episodes released simultaneously
	PatternBinge ReleasePattern = "binge"
	// PatternWeekly means episodes released at ~7-day intervals
	PatternWeekly ReleasePattern = "weekly"
	// PatternPremiereWeekly means multiple episodes at launch, then weekly
	PatternPremiereWeekly ReleasePattern = "premiere_weekly"
	// PatternMixed means irregular cadence with no dominant interval
	PatternMixed ReleasePattern = "mixed"
	// PatternUnknown means there is not enough data to classify
	PatternUnknown ReleasePattern = "unknown"
)

// WatchStatus tracks a user's relationship with a show
type WatchStatus string

const (
	WatchStatusWatchlist WatchStatus = "watchlist"
	WatchStatusWatching  WatchStatus = "watching"
	WatchStatusCompleted WatchStatus = "completed"
	WatchStatusDropped   WatchStatus = "dropped"
)

// RecommendationType distinguishes the subscription actions the optimizer suggests
type RecommendationType string

const (
	RecommendationCancel      RecommendationType = "cancel"
	RecommendationResubscribe RecommendationType = "resubscribe"
	RecommendationPause       RecommendationType = "pause"
)

// Episode represents a single episode of a season.
// AirDate is nil for announced-but-unscheduled episodes.
// Episodes are treated as immutable once their air date has passed.
type Episode struct {
	SeasonID       string
	EpisodeNumber  int
	AirDate        *time.Time
	RuntimeMinutes int
}

// ID returns a stable identifier for the episode within its season
func (e Episode) ID() string {
	return EpisodeID(e.SeasonID, e.EpisodeNumber)
}

// Season represents one season of a show with its ordered episode list.
// IsCurrentSeason is true only for the most recently airing or announced
// season of an ongoing show.
type Season struct {
	ShowID          string
	SeasonNumber    int
	Episodes        []Episode
	IsCurrentSeason bool
}

// FirstAirDate returns the earliest non-nil air date in the season,
// or nil when no episode has been scheduled
func (s Season) FirstAirDate() *time.Time {
	var first *time.Time
	for i := range s.Episodes {
		d := s.Episodes[i].AirDate
		if d == nil {
			continue
		}
		if first == nil || d.Before(*first) {
			first = d
		}
	}
	return first
}

// LastAirDate returns the latest non-nil air date in the season,
// or nil when no episode has been scheduled
func (s Season) LastAirDate() *time.Time {
	var last *time.Time
	for i := range s.Episodes {
		d := s.Episodes[i].AirDate
		if d == nil {
			continue
		}
		if last == nil || d.After(*last) {
			last = d
		}
	}
	return last
}

// ProviderAvailability records that a show is carried by a streaming
// service in a given country
type ProviderAvailability struct {
	ServiceID string
	Country   string
}

// Show represents a TV show as returned by the catalog source.
// Invariants: Seasons are ordered by SeasonNumber; at most one season has
// IsCurrentSeason set, and only when Status is ongoing.
type Show struct {
	ID        string
	Name      string
	Status    ShowStatus
	Seasons   []Season
	Providers []ProviderAvailability
}

// HasCurrentSeason reports whether any season is flagged as the current
// one. Only ongoing shows may have a current season.
func (s Show) HasCurrentSeason() bool {
	for i := range s.Seasons {
		if s.Seasons[i].IsCurrentSeason {
			return true
		}
	}
	return false
}

// AvailableOn reports whether the show is carried by the given service in
// the given country. An empty country on either side matches any country.
func (s Show) AvailableOn(serviceID, country string) bool {
	for _, p := range s.Providers {
		if p.ServiceID != serviceID {
			continue
		}
		if p.Country == "" || country == "" || p.Country == country {
			return true
		}
	}
	return false
}

// PatternResult is the derived classification of one season's release
// cadence. It is recomputed on demand and never hand-edited.
type PatternResult struct {
	Pattern       ReleasePattern
	Confidence    float64 // 0.0-1.0
	EpisodeCount  int     // all episodes, including undated ones
	IntervalsDays []int   // day gaps between consecutive dated episodes
	Reasoning     string  // human-readable summary of the branch taken
}

// SeasonClassification keeps the raw classifier output next to the
// effective (policy-adjusted) result so callers can always see both
type SeasonClassification struct {
	SeasonNumber int
	Raw          PatternResult
	Effective    PatternResult
}

// UserShowState captures a user's watch state for one show.
// The planning core treats it as read-only input owned by the user.
type UserShowState struct {
	UserID            string
	ShowID            string
	WatchStatus       WatchStatus
	WatchedEpisodeIDs map[string]struct{}
}

// Watched reports whether the given episode has been watched
func (u UserShowState) Watched(episodeID string) bool {
	_, ok := u.WatchedEpisodeIDs[episodeID]
	return ok
}

// Subscription represents a user's paid streaming service subscription.
// Owned by the user/billing domain; read-only input to the optimizer.
type Subscription struct {
	UserID      string
	ServiceID   string
	MonthlyCost float64
	IsActive    bool
	StartDate   time.Time
	EndDate     *time.Time
}

// CoversDay reports whether the subscription is in force on the given day.
// An inactive subscription with no end date covers nothing; a dated
// subscription covers the days between its start and end regardless of
// the active flag.
func (s Subscription) CoversDay(day time.Time) bool {
	if day.Before(s.StartDate) {
		return false
	}
	if s.EndDate != nil {
		return !day.After(*s.EndDate)
	}
	return s.IsActive
}

// EpisodeRef identifies an episode for presentation purposes without
// carrying the full episode record
type EpisodeRef struct {
	ShowID        string
	SeasonNumber  int
	EpisodeNumber int
}

// DayEntry is one cell of a user's availability timeline: how much
// must-watch content a service offers on a given day. Derived, never
// persisted.
type DayEntry struct {
	Date                 time.Time
	ServiceID            string
	Intensity            float64 // 0.0-1.0
	ContributingEpisodes []EpisodeRef
}

// Recommendation is a ranked subscription action produced by the
// optimizer. WindowEnd is nil for open-ended windows ("cancel now, no
// known return date").
type Recommendation struct {
	ID               string
	Type             RecommendationType
	ServiceID        string
	WindowStart      time.Time
	WindowEnd        *time.Time
	Confidence       float64
	EstimatedSavings float64
	Reasoning        string
	// ManualReview marks low-certainty suggestions that should not be
	// auto-surfaced as strong recommendations
	ManualReview bool
}

// ClassifyResult is the full classification of a show: per-season results
// plus the show-level pattern. Degraded is set when the underlying catalog
// data was served stale.
type ClassifyResult struct {
	ShowID    string
	PerSeason map[int]SeasonClassification
	ShowLevel PatternResult
	Degraded  bool
}

// Timeline is a built availability timeline for one user over a date
// range. Degraded is set when any contributing show was served stale.
type Timeline struct {
	UserID   string
	From     time.Time
	To       time.Time
	Entries  []DayEntry
	Degraded bool
}
