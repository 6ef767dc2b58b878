// Package classify derives release-pattern classifications from season
// air dates: the per-season classifier and the season/show aggregator
// that applies display policy on top of the raw results.
package classify

import (
	"fmt"
	"sort"
	"time"

	"showgap/internal/domain"
	"showgap/internal/interval"
)

var (
	errNegativeThreshold = fmt.Errorf("%w: thresholds must be non-negative", domain.ErrInvalidInput)
	errConfidenceRange   = fmt.Errorf("%w: confidence must be within [0, 1]", domain.ErrInvalidInput)
)

// Classifier determines the release pattern of a single season from its
// episode air dates. Classification is a pure function of its input.
type Classifier struct {
	cfg Config
}

// NewClassifier creates a Classifier with the given policy configuration
func NewClassifier(cfg Config) (*Classifier, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Classifier{cfg: cfg}, nil
}

// ClassifySeason classifies one season's release cadence.
//
// Episodes without an announced air date are excluded from interval math
// but still counted in EpisodeCount. The branches are checked in order:
// binge, weekly, premiere-then-weekly, and finally mixed. Small samples
// (fewer than 4 dated episodes) have their confidence dampened, except
// for binge drops, which are unambiguous at any episode count.
func (c *Classifier) ClassifySeason(season domain.Season) domain.PatternResult {
	dates := datedAirDates(season)
	episodeCount := len(season.Episodes)

	if len(dates) < 2 {
		return domain.PatternResult{
			Pattern:      domain.PatternUnknown,
			Confidence:   0.3,
			EpisodeCount: episodeCount,
			Reasoning:    "insufficient data",
		}
	}

	intervals := interval.Intervals(dates)
	result := c.classifyIntervals(intervals, len(dates))
	result.EpisodeCount = episodeCount
	result.IntervalsDays = intervals
	return result
}

// classifyIntervals runs the branch cascade over the computed intervals.
// datedCount is the number of dated episodes (len(intervals) + 1).
func (c *Classifier) classifyIntervals(intervals []int, datedCount int) domain.PatternResult {
	sd := interval.StdDev(intervals)

	if c.allBinge(intervals) {
		return domain.PatternResult{
			Pattern:    domain.PatternBinge,
			Confidence: clip(1.0-sd, 0, 1),
			Reasoning: fmt.Sprintf("all %d intervals within %d day(s): simultaneous drop",
				len(intervals), c.cfg.BingeMaxIntervalDays),
		}
	}

	if c.allWeekly(intervals) {
		confidence := 1.0 - min64(1, sd/7)
		return domain.PatternResult{
			Pattern:    domain.PatternWeekly,
			Confidence: c.dampen(confidence, datedCount),
			Reasoning: fmt.Sprintf("%d/%d intervals within %d days of weekly cadence",
				len(intervals), len(intervals), c.cfg.WeeklyToleranceDays),
		}
	}

	if result, ok := c.classifyPremiereWeekly(intervals, datedCount); ok {
		return result
	}

	// No dominant cadence: mixed. Confidence reflects how scattered the
	// intervals are relative to their mean.
	mean := interval.Mean(intervals)
	confidence := 0.2
	if mean > 0 {
		confidence = clip(1.0-sd/mean, 0.2, 0.8)
	}
	return domain.PatternResult{
		Pattern:    domain.PatternMixed,
		Confidence: c.dampen(confidence, datedCount),
		Reasoning: fmt.Sprintf("no dominant interval across %d gaps (mean %.1f days, stddev %.1f)",
			len(intervals), mean, sd),
	}
}

// classifyPremiereWeekly detects a leading burst of same-day releases
// followed exclusively by weekly-cadence intervals. The burst must cover
// at least two episodes and must not consume the whole season.
func (c *Classifier) classifyPremiereWeekly(intervals []int, datedCount int) (domain.PatternResult, bool) {
	burst := interval.LeadingRun(intervals, c.cfg.BingeMaxIntervalDays)
	if burst < 1 || burst >= len(intervals) {
		return domain.PatternResult{}, false
	}

	tail := intervals[burst:]
	if !c.allWeekly(tail) {
		return domain.PatternResult{}, false
	}

	// Weight each segment's confidence by the episodes it covers.
	burstEpisodes := burst + 1
	tailEpisodes := datedCount - burstEpisodes
	burstConfidence := clip(1.0-interval.StdDev(intervals[:burst]), 0, 1)
	tailConfidence := 1.0 - min64(1, interval.StdDev(tail)/7)
	confidence := (burstConfidence*float64(burstEpisodes) + tailConfidence*float64(tailEpisodes)) /
		float64(burstEpisodes+tailEpisodes)

	return domain.PatternResult{
		Pattern:    domain.PatternPremiereWeekly,
		Confidence: c.dampen(confidence, datedCount),
		Reasoning: fmt.Sprintf("%d-episode premiere burst followed by %d weekly intervals",
			burstEpisodes, len(tail)),
	}, true
}

func (c *Classifier) allBinge(intervals []int) bool {
	for _, v := range intervals {
		if v > c.cfg.BingeMaxIntervalDays {
			return false
		}
	}
	return true
}

func (c *Classifier) allWeekly(intervals []int) bool {
	for _, v := range intervals {
		if !interval.WithinTolerance(v, 7, c.cfg.WeeklyToleranceDays) {
			return false
		}
	}
	return true
}

// dampen scales confidence down for small samples: fewer than 4 dated
// episodes multiplies by 0.6 + 0.1*count, and a two-episode season is
// capped at 0.6 outright.
func (c *Classifier) dampen(confidence float64, datedCount int) float64 {
	if datedCount < 4 {
		confidence *= 0.6 + 0.1*float64(datedCount)
	}
	if datedCount == 2 && confidence > 0.6 {
		confidence = 0.6
	}
	return confidence
}

// datedAirDates returns the season's non-nil air dates sorted ascending
func datedAirDates(season domain.Season) []time.Time {
	dates := make([]time.Time, 0, len(season.Episodes))
	for i := range season.Episodes {
		if d := season.Episodes[i].AirDate; d != nil {
			dates = append(dates, *d)
		}
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}

func clip(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func min64(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
