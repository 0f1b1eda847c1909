package generator

import (
	"math"
	"math/rand/v2"
	"time"

	"vpn-telemetry/pkg/sampler"
)

// GrowthFactor models organic growth: 0.07% per day, roughly 2% monthly.
func GrowthFactor(daysElapsed int) float64 {
	return 1 + float64(daysElapsed)*0.0007
}

// SeasonalFactor is a sine wave with a 90-day period, swinging +-15%.
func SeasonalFactor(daysElapsed int) float64 {
	return 1 + 0.15*math.Sin(2*math.Pi*float64(daysElapsed)/90)
}

// WeekdayFactor drops weekend volume to 70% of a weekday's.
func WeekdayFactor(day time.Weekday) float64 {
	if day == time.Saturday || day == time.Sunday {
		return 0.7
	}
	return 1.0
}

// DailyVolume computes the session count for one simulated day:
// base x growth x seasonal x weekday x uniform[0.9,1.1), truncated to an
// integer. All factors are bounded above zero, so the result is never
// negative for a positive base.
func DailyVolume(rng *rand.Rand, base, daysElapsed int, day time.Weekday) int {
	randomFactor := sampler.FloatBetween(rng, 0.9, 1.1)
	return int(float64(base) *
		GrowthFactor(daysElapsed) *
		SeasonalFactor(daysElapsed) *
		WeekdayFactor(day) *
		randomFactor)
}
