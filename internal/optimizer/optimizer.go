// Package optimizer scans availability timelines for cancellable
// subscription windows and ranks the savings they unlock.
package optimizer

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	"showgap/internal/domain"
)

// Config carries the optimization policy knobs
type Config struct {
	// MinGapDays is the shortest zero-intensity run worth the hassle of
	// a cancel/resubscribe cycle
	MinGapDays int

	// HorizonDays is the default planning horizon from "today"
	HorizonDays int
}

// DefaultConfig returns a 14-day minimum gap over a 180-day horizon
func DefaultConfig() Config {
	return Config{
		MinGapDays:  14,
		HorizonDays: 180,
	}
}

// Validate checks that the configuration values are usable
func (c Config) Validate() error {
	if c.MinGapDays < 0 || c.HorizonDays <= 0 {
		return fmt.Errorf("%w: gap threshold and horizon must be positive", domain.ErrInvalidInput)
	}
	return nil
}

// ServiceInput is everything the optimizer needs about one service: the
// real subscription, the built day series, and certainty context from
// classification
type ServiceInput struct {
	Subscription domain.Subscription

	// Entries is the chronological one-per-day series for this service
	Entries []domain.DayEntry

	// TrackedShows is how many watchlist/watching shows the user has on
	// this service
	TrackedShows int

	// AllPatternsUnknown is set when every tracked show on the service
	// classified as unknown
	AllPatternsUnknown bool

	// Degraded is set when the series was built from stale catalog data
	Degraded bool
}

// Optimizer turns per-service day series into ranked recommendations.
// It holds no mutable state.
type Optimizer struct {
	cfg Config
}

// New creates an Optimizer with the given policy configuration
func New(cfg Config) (*Optimizer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Optimizer{cfg: cfg}, nil
}

// Recommend produces the recommendations for one service. A service
// with no tracked shows yields nothing (not an error). An inactive
// subscription yields at most a resubscribe pointer at the next known
// content date; an active one yields a recommendation per actionable
// gap.
func (o *Optimizer) Recommend(input ServiceInput) []domain.Recommendation {
	if input.TrackedShows == 0 || len(input.Entries) == 0 {
		return nil
	}

	if !input.Subscription.IsActive {
		return o.recommendResubscribe(input)
	}

	var recommendations []domain.Recommendation
	for _, g := range findGaps(input.Entries) {
		if g.lengthDays() < o.cfg.MinGapDays {
			continue
		}
		recommendations = append(recommendations, o.gapRecommendation(input, g))
	}
	return recommendations
}

// Rank orders recommendations by estimated savings weighted by
// confidence, descending; ties break toward the soonest window start
func Rank(recommendations []domain.Recommendation) {
	sort.SliceStable(recommendations, func(i, j int) bool {
		si := recommendations[i].EstimatedSavings * recommendations[i].Confidence
		sj := recommendations[j].EstimatedSavings * recommendations[j].Confidence
		if si != sj {
			return si > sj
		}
		return recommendations[i].WindowStart.Before(recommendations[j].WindowStart)
	})
}

// gap is a maximal run of consecutive zero-intensity days
type gap struct {
	start   time.Time
	end     time.Time
	bounded bool // a known future air date ends the gap
}

func (g gap) lengthDays() int {
	return int(g.end.Sub(g.start).Hours()/24) + 1
}

// findGaps scans the chronological series for maximal zero-intensity
// runs. A gap that reaches the end of the series is open-ended; one
// terminated by a nonzero-intensity day is bounded by that known air
// date.
func findGaps(entries []domain.DayEntry) []gap {
	var gaps []gap
	var current *gap

	for i := range entries {
		e := entries[i]
		if e.Intensity == 0 {
			if current == nil {
				current = &gap{start: e.Date}
			}
			current.end = e.Date
			continue
		}
		if current != nil {
			current.bounded = true
			gaps = append(gaps, *current)
			current = nil
		}
	}
	if current != nil {
		gaps = append(gaps, *current)
	}
	return gaps
}

// gapRecommendation builds the recommendation for one actionable gap
func (o *Optimizer) gapRecommendation(input ServiceInput, g gap) domain.Recommendation {
	days := g.lengthDays()
	confidence := 0.5
	reasoning := fmt.Sprintf("no must-watch content for %d days from %s, no known return date",
		days, g.start.Format("2006-01-02"))

	rec := domain.Recommendation{
		ID:               uuid.New().String(),
		Type:             domain.RecommendationCancel,
		ServiceID:        input.Subscription.ServiceID,
		WindowStart:      g.start,
		EstimatedSavings: roundCents(input.Subscription.MonthlyCost * float64(days) / 30.0),
	}

	if g.bounded {
		end := g.end
		rec.Type = domain.RecommendationPause
		rec.WindowEnd = &end
		confidence = 1.0
		reasoning = fmt.Sprintf("no must-watch content for %d days from %s until a known premiere",
			days, g.start.Format("2006-01-02"))
	}

	rec.Confidence = o.applyCertaintyCaps(input, confidence)
	rec.ManualReview = input.AllPatternsUnknown
	rec.Reasoning = reasoning
	if input.AllPatternsUnknown {
		rec.Reasoning += " (all tracked shows have unknown release patterns)"
	}
	return rec
}

// recommendResubscribe points an inactive subscriber at the next day
// with known content
func (o *Optimizer) recommendResubscribe(input ServiceInput) []domain.Recommendation {
	for _, e := range input.Entries {
		if e.Intensity == 0 {
			continue
		}
		return []domain.Recommendation{{
			ID:           uuid.New().String(),
			Type:         domain.RecommendationResubscribe,
			ServiceID:    input.Subscription.ServiceID,
			WindowStart:  e.Date,
			Confidence:   o.applyCertaintyCaps(input, 1.0),
			ManualReview: input.AllPatternsUnknown,
			Reasoning: fmt.Sprintf("tracked content returns on %s",
				e.Date.Format("2006-01-02")),
		}}
	}
	return nil
}

// applyCertaintyCaps downgrades confidence for degraded catalog data
// and unknown-only services so the presentation layer never sees a firm
// recommendation fabricated from weak input
func (o *Optimizer) applyCertaintyCaps(input ServiceInput, confidence float64) float64 {
	if input.Degraded && confidence > 0.5 {
		confidence = 0.5
	}
	if input.AllPatternsUnknown && confidence > 0.3 {
		confidence = 0.3
	}
	return confidence
}

// roundCents rounds a monetary amount to the nearest cent
func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
