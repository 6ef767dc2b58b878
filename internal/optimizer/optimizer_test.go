package optimizer

import (
	"testing"
	"time"

	"showgap/internal/domain"
)

func day(offset int) time.Time {
	return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
}

// series builds a one-per-day entry sequence from intensity values
func series(serviceID string, intensities ...float64) []domain.DayEntry {
	entries := make([]domain.DayEntry, len(intensities))
	for i, v := range intensities {
		entries[i] = domain.DayEntry{Date: day(i), ServiceID: serviceID, Intensity: v}
	}
	return entries
}

// zeroSeries builds n consecutive zero-intensity days
func zeroSeries(serviceID string, n int) []domain.DayEntry {
	return series(serviceID, make([]float64, n)...)
}

func activeSub(cost float64) domain.Subscription {
	return domain.Subscription{
		UserID:      "u1",
		ServiceID:   "netflix",
		MonthlyCost: cost,
		IsActive:    true,
		StartDate:   day(-365),
	}
}

func newTestOptimizer(t *testing.T) *Optimizer {
	t.Helper()
	o, err := New(DefaultConfig())
	if err != nil {
		t.Fatalf("failed to create optimizer: %v", err)
	}
	return o
}

func TestRecommendOpenEndedGap(t *testing.T) {
	o := newTestOptimizer(t)

	recs := o.Recommend(ServiceInput{
		Subscription: activeSub(15.00),
		Entries:      zeroSeries("netflix", 200),
		TrackedShows: 2,
	})

	if len(recs) != 1 {
		t.Fatalf("got %d recommendations, want exactly 1 gap", len(recs))
	}

	rec := recs[0]
	if rec.Type != domain.RecommendationCancel {
		t.Errorf("type = %s, want cancel for an open-ended gap", rec.Type)
	}
	if rec.WindowEnd != nil {
		t.Errorf("open-ended gap must have nil WindowEnd, got %v", rec.WindowEnd)
	}
	if rec.Confidence != 0.5 {
		t.Errorf("confidence = %f, want 0.5 with no bounding air date", rec.Confidence)
	}
	if !rec.WindowStart.Equal(day(0)) {
		t.Errorf("window start = %v, want %v", rec.WindowStart, day(0))
	}

	// 200 days at $15/month
	want := 100.00
	if rec.EstimatedSavings != want {
		t.Errorf("savings = %f, want %f", rec.EstimatedSavings, want)
	}
}

func TestRecommendBoundedGap(t *testing.T) {
	o := newTestOptimizer(t)

	// 20 zero days, then a known premiere
	intensities := make([]float64, 21)
	intensities[20] = 1.0

	recs := o.Recommend(ServiceInput{
		Subscription: activeSub(10.00),
		Entries:      series("netflix", intensities...),
		TrackedShows: 1,
	})

	if len(recs) != 1 {
		t.Fatalf("got %d recommendations, want 1", len(recs))
	}

	rec := recs[0]
	if rec.Type != domain.RecommendationPause {
		t.Errorf("type = %s, want pause for a bounded gap", rec.Type)
	}
	if rec.Confidence != 1.0 {
		t.Errorf("confidence = %f, want 1.0 for a firm premiere boundary", rec.Confidence)
	}
	if rec.WindowEnd == nil || !rec.WindowEnd.Equal(day(19)) {
		t.Errorf("window end = %v, want %v", rec.WindowEnd, day(19))
	}
}

func TestRecommendIgnoresShortGaps(t *testing.T) {
	o := newTestOptimizer(t)

	// A 10-day gap between two air dates: under the 14-day threshold
	intensities := make([]float64, 12)
	intensities[0] = 1.0
	intensities[11] = 1.0

	recs := o.Recommend(ServiceInput{
		Subscription: activeSub(10.00),
		Entries:      series("netflix", intensities...),
		TrackedShows: 1,
	})

	if len(recs) != 0 {
		t.Errorf("got %d recommendations, want 0 for a sub-threshold gap", len(recs))
	}
}

func TestRecommendNoTrackedShows(t *testing.T) {
	o := newTestOptimizer(t)

	recs := o.Recommend(ServiceInput{
		Subscription: activeSub(10.00),
		Entries:      zeroSeries("netflix", 100),
		TrackedShows: 0,
	})

	if recs != nil {
		t.Errorf("got %v, want nil for a service with no tracked shows", recs)
	}
}

func TestRecommendUnknownOnlyServiceNeedsReview(t *testing.T) {
	o := newTestOptimizer(t)

	recs := o.Recommend(ServiceInput{
		Subscription:       activeSub(12.00),
		Entries:            zeroSeries("netflix", 60),
		TrackedShows:       1,
		AllPatternsUnknown: true,
	})

	if len(recs) != 1 {
		t.Fatalf("got %d recommendations, want 1", len(recs))
	}
	if recs[0].Confidence > 0.3 {
		t.Errorf("confidence = %f, want <= 0.3 for unknown-only data", recs[0].Confidence)
	}
	if !recs[0].ManualReview {
		t.Error("unknown-only recommendation must be flagged for manual review")
	}
}

func TestRecommendDegradedDataCapsConfidence(t *testing.T) {
	o := newTestOptimizer(t)

	// Bounded gap would normally be 1.0
	intensities := make([]float64, 21)
	intensities[20] = 1.0

	recs := o.Recommend(ServiceInput{
		Subscription: activeSub(10.00),
		Entries:      series("netflix", intensities...),
		TrackedShows: 1,
		Degraded:     true,
	})

	if len(recs) != 1 {
		t.Fatalf("got %d recommendations, want 1", len(recs))
	}
	if recs[0].Confidence > 0.5 {
		t.Errorf("confidence = %f, want <= 0.5 on degraded data", recs[0].Confidence)
	}
}

func TestRecommendResubscribeForInactiveSubscription(t *testing.T) {
	o := newTestOptimizer(t)

	intensities := make([]float64, 30)
	intensities[10] = 1.0

	sub := activeSub(10.00)
	sub.IsActive = false

	recs := o.Recommend(ServiceInput{
		Subscription: sub,
		Entries:      series("netflix", intensities...),
		TrackedShows: 1,
	})

	if len(recs) != 1 {
		t.Fatalf("got %d recommendations, want 1", len(recs))
	}
	if recs[0].Type != domain.RecommendationResubscribe {
		t.Errorf("type = %s, want resubscribe", recs[0].Type)
	}
	if !recs[0].WindowStart.Equal(day(10)) {
		t.Errorf("window start = %v, want first content day %v", recs[0].WindowStart, day(10))
	}
}

func TestSavingsMonotonicInMonthlyCost(t *testing.T) {
	o := newTestOptimizer(t)

	input := func(cost float64) ServiceInput {
		return ServiceInput{
			Subscription: activeSub(cost),
			Entries:      zeroSeries("netflix", 60),
			TrackedShows: 1,
		}
	}

	previous := -1.0
	for _, cost := range []float64{5.00, 9.99, 15.49, 22.99} {
		recs := o.Recommend(input(cost))
		if len(recs) != 1 {
			t.Fatalf("cost %f: got %d recommendations", cost, len(recs))
		}
		if recs[0].EstimatedSavings <= previous {
			t.Errorf("savings %f at cost %f did not increase from %f",
				recs[0].EstimatedSavings, cost, previous)
		}
		previous = recs[0].EstimatedSavings
	}
}

func TestRankOrdersBySavingsTimesConfidence(t *testing.T) {
	recs := []domain.Recommendation{
		{ServiceID: "a", EstimatedSavings: 10, Confidence: 0.5, WindowStart: day(0)},
		{ServiceID: "b", EstimatedSavings: 8, Confidence: 1.0, WindowStart: day(0)},
		{ServiceID: "c", EstimatedSavings: 16, Confidence: 0.5, WindowStart: day(5)},
		{ServiceID: "d", EstimatedSavings: 8, Confidence: 1.0, WindowStart: day(-3)},
	}

	Rank(recs)

	// b and d tie at 8.0; d starts sooner. a scores 5.0, c also 8.0 but
	// starts later than both b and d.
	wantOrder := []string{"d", "b", "c", "a"}
	for i, want := range wantOrder {
		if recs[i].ServiceID != want {
			t.Fatalf("position %d = %s, want %s (order %v)", i, recs[i].ServiceID, want, recs)
		}
	}
}

func TestFindGapsMultiple(t *testing.T) {
	// air, 3 zeros, air, 2 zeros (open-ended)
	entries := series("s", 1, 0, 0, 0, 1, 0, 0)

	gaps := findGaps(entries)
	if len(gaps) != 2 {
		t.Fatalf("got %d gaps, want 2", len(gaps))
	}
	if !gaps[0].bounded || gaps[0].lengthDays() != 3 {
		t.Errorf("first gap = %+v, want bounded length 3", gaps[0])
	}
	if gaps[1].bounded || gaps[1].lengthDays() != 2 {
		t.Errorf("second gap = %+v, want open-ended length 2", gaps[1])
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MinGapDays = -1
	if _, err := New(cfg); err == nil {
		t.Fatal("expected error for negative gap threshold")
	}
}
