// Package interval provides the pure date math underneath release-pattern
// classification: day differences, tolerance-banded comparison, and
// simple statistics over day gaps. No function here has side effects.
package interval

import (
	"math"
	"time"
)

// DaysBetween returns the number of whole calendar days from a to b.
// The result is negative when b is before a. Times of day are ignored;
// only the calendar date matters.
func DaysBetween(a, b time.Time) int {
	ua := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	ub := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}

// WithinTolerance reports whether actual is within toleranceDays of
// expected (inclusive)
func WithinTolerance(actualDays, expectedDays, toleranceDays int) bool {
	diff := actualDays - expectedDays
	if diff < 0 {
		diff = -diff
	}
	return diff <= toleranceDays
}

// Intervals returns the day gaps between consecutive dates. The input
// must already be sorted ascending; callers exclude nil dates before
// calling. A slice of fewer than two dates yields no intervals.
func Intervals(dates []time.Time) []int {
	if len(dates) < 2 {
		return nil
	}
	out := make([]int, 0, len(dates)-1)
	for i := 1; i < len(dates); i++ {
		out = append(out, DaysBetween(dates[i-1], dates[i]))
	}
	return out
}

// ModeInterval returns the most frequent interval value. Ties are broken
// toward the smaller interval. The second return is false for an empty
// input.
func ModeInterval(intervals []int) (int, bool) {
	if len(intervals) == 0 {
		return 0, false
	}
	counts := make(map[int]int, len(intervals))
	for _, v := range intervals {
		counts[v]++
	}
	best := intervals[0]
	bestCount := counts[best]
	for v, c := range counts {
		if c > bestCount || (c == bestCount && v < best) {
			best = v
			bestCount = c
		}
	}
	return best, true
}

// LeadingRun returns how many intervals at the start of the slice are
// less than or equal to maxDays. Used to detect premiere bursts.
func LeadingRun(intervals []int, maxDays int) int {
	n := 0
	for _, v := range intervals {
		if v > maxDays {
			break
		}
		n++
	}
	return n
}

// Mean returns the arithmetic mean of the intervals, or 0 for an empty
// slice
func Mean(intervals []int) float64 {
	if len(intervals) == 0 {
		return 0
	}
	sum := 0
	for _, v := range intervals {
		sum += v
	}
	return float64(sum) / float64(len(intervals))
}

// StdDev returns the population standard deviation of the intervals, or
// 0 for fewer than two values
func StdDev(intervals []int) float64 {
	if len(intervals) < 2 {
		return 0
	}
	mean := Mean(intervals)
	var sumSq float64
	for _, v := range intervals {
		d := float64(v) - mean
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(intervals)))
}
