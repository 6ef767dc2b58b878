package interval

import (
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// DaysBetween must be antisymmetric and consistent with date ordering
// for any pair of dates.
func TestProperty_DaysBetweenAntisymmetry(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	base := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

	properties.Property("DaysBetween(a, b) == -DaysBetween(b, a)", prop.ForAll(
		func(offsetA, offsetB int) bool {
			a := base.AddDate(0, 0, offsetA)
			b := base.AddDate(0, 0, offsetB)
			return DaysBetween(a, b) == -DaysBetween(b, a)
		},
		gen.IntRange(-2000, 2000),
		gen.IntRange(-2000, 2000),
	))

	properties.Property("DaysBetween matches the generated offset", prop.ForAll(
		func(offset int) bool {
			return DaysBetween(base, base.AddDate(0, 0, offset)) == offset
		},
		gen.IntRange(-2000, 2000),
	))

	properties.TestingRun(t)
}

// The mode must always be a member of the input, and ties must resolve
// toward the smaller interval.
func TestProperty_ModeIntervalMembership(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("mode is always one of the inputs", prop.ForAll(
		func(intervals []int) bool {
			mode, ok := ModeInterval(intervals)
			if len(intervals) == 0 {
				return !ok
			}
			if !ok {
				return false
			}
			for _, v := range intervals {
				if v == mode {
					return true
				}
			}
			return false
		},
		gen.SliceOf(gen.IntRange(0, 30)),
	))

	properties.Property("no equally frequent value is smaller than the mode", prop.ForAll(
		func(intervals []int) bool {
			mode, ok := ModeInterval(intervals)
			if !ok {
				return len(intervals) == 0
			}
			counts := make(map[int]int)
			for _, v := range intervals {
				counts[v]++
			}
			for v, c := range counts {
				if c >= counts[mode] && v < mode {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.IntRange(0, 30)),
	))

	properties.TestingRun(t)
}
