package synth

import "time"

// Config drives the shared-attribute synthesizer.
type Config struct {
	Seed             int64
	SampleRows       int
	StartDate        time.Time
	DeviceShareRate  float64
	DeviceMinGroup   int
	DeviceMaxGroup   int
	ContactShareRate float64
	ContactMinGroup  int
	ContactMaxGroup  int
	MerchantRate     float64
	LocationCount    int
}

// DefaultConfig returns the baseline settings used to prepare the dataset.
func DefaultConfig() Config {
	return Config{
		Seed:             28,
		SampleRows:       100_000,
		StartDate:        time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
		DeviceShareRate:  0.24,
		DeviceMinGroup:   2,
		DeviceMaxGroup:   6,
		ContactShareRate: 0.30,
		ContactMinGroup:  2,
		ContactMaxGroup:  5,
		MerchantRate:     0.16,
		LocationCount:    50,
	}
}
