package classify

// Config carries the classification policy knobs. It is passed in
// explicitly so tests can sweep parameters deterministically instead of
// relying on package-level constants.
type Config struct {
	// WeeklyToleranceDays is the band around a 7-day interval that still
	// counts as weekly cadence
	WeeklyToleranceDays int

	// BingeMaxIntervalDays is the largest interval that still counts as
	// a simultaneous drop
	BingeMaxIntervalDays int

	// BingeOverrideAgeDays is the age after which a non-current,
	// fully-aired season is displayed as binge regardless of its raw
	// classification
	BingeOverrideAgeDays int

	// BingeOverrideConfidence is the confidence assigned by the age
	// override
	BingeOverrideConfidence float64
}

// DefaultConfig returns the conservative defaults: a ±2 day weekly band,
// same-or-next-day binge intervals, and a one year back-catalog override.
func DefaultConfig() Config {
	return Config{
		WeeklyToleranceDays:     2,
		BingeMaxIntervalDays:    1,
		BingeOverrideAgeDays:    365,
		BingeOverrideConfidence: 0.9,
	}
}

// Validate checks that the configuration values are usable
func (c Config) Validate() error {
	if c.WeeklyToleranceDays < 0 || c.BingeMaxIntervalDays < 0 || c.BingeOverrideAgeDays < 0 {
		return errNegativeThreshold
	}
	if c.BingeOverrideConfidence < 0 || c.BingeOverrideConfidence > 1 {
		return errConfidenceRange
	}
	return nil
}
