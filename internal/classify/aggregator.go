package classify

import (
	"fmt"

	"showgap/internal/domain"
	"showgap/internal/interval"
)

// Aggregator reconciles per-season classifications into the displayed
// per-season and show-level results. It owns one display policy: an
// older, fully-aired season is effectively binge-watchable no matter how
// its episodes originally released. The raw classifier output is always
// preserved next to the effective result.
type Aggregator struct {
	classifier *Classifier
	clock      domain.Clock
	cfg        Config
}

// NewAggregator creates an Aggregator. The clock is injected so the
// age-based override can be tested with a fixed "now".
func NewAggregator(classifier *Classifier, clock domain.Clock, cfg Config) *Aggregator {
	return &Aggregator{
		classifier: classifier,
		clock:      clock,
		cfg:        cfg,
	}
}

// AggregateShow classifies every season of the show and derives the
// show-level pattern. The show-level result is the effective
// classification of the current season when one exists, otherwise of the
// highest-numbered season.
func (a *Aggregator) AggregateShow(show *domain.Show) (map[int]domain.SeasonClassification, domain.PatternResult) {
	perSeason := make(map[int]domain.SeasonClassification, len(show.Seasons))

	showLevel := domain.PatternResult{
		Pattern:    domain.PatternUnknown,
		Confidence: 0.3,
		Reasoning:  "no seasons",
	}

	for i := range show.Seasons {
		season := show.Seasons[i]
		sc := a.classifySeason(season)
		perSeason[season.SeasonNumber] = sc

		// Seasons are ordered by number, so the last iteration leaves
		// the latest season's result in place unless a current season
		// claims the slot.
		if season.IsCurrentSeason || !show.HasCurrentSeason() {
			showLevel = sc.Effective
		}
	}

	return perSeason, showLevel
}

// classifySeason runs the raw classifier and applies the back-catalog
// override when the season qualifies
func (a *Aggregator) classifySeason(season domain.Season) domain.SeasonClassification {
	raw := a.classifier.ClassifySeason(season)
	sc := domain.SeasonClassification{
		SeasonNumber: season.SeasonNumber,
		Raw:          raw,
		Effective:    raw,
	}

	if age, ok := a.seasonAgeDays(season); ok && !season.IsCurrentSeason && age > a.cfg.BingeOverrideAgeDays {
		sc.Effective = domain.PatternResult{
			Pattern:       domain.PatternBinge,
			Confidence:    a.cfg.BingeOverrideConfidence,
			EpisodeCount:  raw.EpisodeCount,
			IntervalsDays: raw.IntervalsDays,
			Reasoning: fmt.Sprintf("season fully aired %d days ago, back catalog is watchable at any pace",
				age),
		}
	}

	return sc
}

// seasonAgeDays returns how many days ago the season's last episode
// aired. The second return is false when no episode has an air date.
func (a *Aggregator) seasonAgeDays(season domain.Season) (int, bool) {
	last := season.LastAirDate()
	if last == nil {
		return 0, false
	}
	return interval.DaysBetween(*last, a.clock.Now()), true
}
