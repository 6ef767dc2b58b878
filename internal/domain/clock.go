package domain

import "time"

// Clock abstracts the current time so TTL checks and age-based policies
// can be tested with a fixed "now"
type Clock interface {
	Now() time.Time
}

// SystemClock reads the real system time
type SystemClock struct{}

// Now returns the current system time
func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always reports the same instant. Intended for tests.
type FixedClock struct {
	Time time.Time
}

// Now returns the fixed instant
func (c FixedClock) Now() time.Time { return c.Time }
