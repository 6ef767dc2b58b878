package classify

import (
	"testing"
	"time"

	"showgap/internal/domain"
)

func newTestAggregator(t *testing.T, now time.Time) *Aggregator {
	t.Helper()
	cfg := DefaultConfig()
	classifier, err := NewClassifier(cfg)
	if err != nil {
		t.Fatalf("failed to create classifier: %v", err)
	}
	return NewAggregator(classifier, domain.FixedClock{Time: now}, cfg)
}

// mixedSeason returns a season the raw classifier labels mixed
func mixedSeason(seasonNumber int, current bool) domain.Season {
	season := seasonWithDates(
		airDate(2024, 1, 1),
		airDate(2024, 1, 4),
		airDate(2024, 1, 25),
		airDate(2024, 1, 26),
		airDate(2024, 2, 7),
	)
	season.SeasonNumber = seasonNumber
	season.IsCurrentSeason = current
	return season
}

func TestAggregateShowBackCatalogOverride(t *testing.T) {
	// Last episode aired 2024-02-07; 400 days later the season must be
	// effectively binge regardless of its raw classification.
	now := time.Date(2024, 2, 7, 0, 0, 0, 0, time.UTC).AddDate(0, 0, 400)
	agg := newTestAggregator(t, now)

	show := &domain.Show{
		ID:      "show-1",
		Status:  domain.StatusEnded,
		Seasons: []domain.Season{mixedSeason(1, false)},
	}

	perSeason, _ := agg.AggregateShow(show)

	sc, ok := perSeason[1]
	if !ok {
		t.Fatal("season 1 missing from aggregation")
	}
	if sc.Raw.Pattern != domain.PatternMixed {
		t.Errorf("raw pattern = %s, want mixed preserved", sc.Raw.Pattern)
	}
	if sc.Effective.Pattern != domain.PatternBinge {
		t.Errorf("effective pattern = %s, want binge override", sc.Effective.Pattern)
	}
	if sc.Effective.Confidence != 0.9 {
		t.Errorf("effective confidence = %f, want 0.9", sc.Effective.Confidence)
	}
}

func TestAggregateShowOverrideSkipsCurrentSeason(t *testing.T) {
	now := time.Date(2024, 2, 7, 0, 0, 0, 0, time.UTC).AddDate(0, 0, 400)
	agg := newTestAggregator(t, now)

	show := &domain.Show{
		ID:      "show-1",
		Status:  domain.StatusOngoing,
		Seasons: []domain.Season{mixedSeason(1, true)},
	}

	perSeason, _ := agg.AggregateShow(show)

	if got := perSeason[1].Effective.Pattern; got != domain.PatternMixed {
		t.Errorf("current season effective pattern = %s, want raw mixed (no override)", got)
	}
}

func TestAggregateShowOverrideRespectsClock(t *testing.T) {
	// Weekly season ending 2024-03-04 (10 eps from 2024-01-01). With
	// "now" inside the 365-day window the effective result matches the
	// raw weekly classification; past the window it flips to binge.
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	season := weeklySeason(10, start)
	lastAir := start.AddDate(0, 0, 7*9)

	show := &domain.Show{
		ID:      "show-1",
		Status:  domain.StatusEnded,
		Seasons: []domain.Season{season},
	}

	before := newTestAggregator(t, lastAir.AddDate(0, 0, 100))
	perSeason, showLevel := before.AggregateShow(show)

	if perSeason[1].Effective.Pattern != domain.PatternWeekly {
		t.Errorf("within window: effective = %s, want weekly", perSeason[1].Effective.Pattern)
	}
	if showLevel.Pattern != domain.PatternWeekly || showLevel.Confidence < 0.8 {
		t.Errorf("within window: show level = %s (%f), want weekly >= 0.8",
			showLevel.Pattern, showLevel.Confidence)
	}

	after := newTestAggregator(t, lastAir.AddDate(0, 0, 366))
	perSeasonAfter, showLevelAfter := after.AggregateShow(show)

	if perSeasonAfter[1].Effective.Pattern != domain.PatternBinge {
		t.Errorf("past window: effective = %s, want binge", perSeasonAfter[1].Effective.Pattern)
	}
	if perSeasonAfter[1].Raw.Pattern != domain.PatternWeekly {
		t.Errorf("past window: raw = %s, want weekly preserved", perSeasonAfter[1].Raw.Pattern)
	}
	if showLevelAfter.Pattern != domain.PatternBinge {
		t.Errorf("past window: show level = %s, want binge", showLevelAfter.Pattern)
	}
}

func TestAggregateShowLevelPrefersCurrentSeason(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	agg := newTestAggregator(t, now)

	old := weeklySeason(10, time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC))
	old.SeasonNumber = 1

	current := weeklySeason(4, time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC))
	current.SeasonNumber = 2
	current.IsCurrentSeason = true

	show := &domain.Show{
		ID:      "show-1",
		Status:  domain.StatusOngoing,
		Seasons: []domain.Season{old, current},
	}

	perSeason, showLevel := agg.AggregateShow(show)

	// The old season is past the override window, but the show level
	// follows the current season's weekly cadence.
	if perSeason[1].Effective.Pattern != domain.PatternBinge {
		t.Errorf("old season effective = %s, want binge", perSeason[1].Effective.Pattern)
	}
	if showLevel.Pattern != domain.PatternWeekly {
		t.Errorf("show level = %s, want weekly from current season", showLevel.Pattern)
	}
}

func TestAggregateShowNoSeasons(t *testing.T) {
	agg := newTestAggregator(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))

	perSeason, showLevel := agg.AggregateShow(&domain.Show{ID: "empty", Status: domain.StatusEnded})

	if len(perSeason) != 0 {
		t.Errorf("per-season map has %d entries, want 0", len(perSeason))
	}
	if showLevel.Pattern != domain.PatternUnknown {
		t.Errorf("show level = %s, want unknown", showLevel.Pattern)
	}
}

func TestAggregateShowUndatedSeasonNeverOverridden(t *testing.T) {
	agg := newTestAggregator(t, time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC))

	season := seasonWithDates(nil, nil, nil)
	show := &domain.Show{ID: "show-1", Status: domain.StatusEnded, Seasons: []domain.Season{season}}

	perSeason, _ := agg.AggregateShow(show)

	if got := perSeason[1].Effective.Pattern; got != domain.PatternUnknown {
		t.Errorf("undated season effective = %s, want unknown (no air date to age)", got)
	}
}
