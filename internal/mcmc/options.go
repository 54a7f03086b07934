package mcmc

import (
	"math"
	"time"
)

// Options configures a stochastic run. Temperature drives the
// single-temperature mode; Schedule, when non-empty, drives tempering.
type Options struct {
	// Temperature is the fixed Metropolis temperature for annealing mode.
	Temperature float64

	// Schedule holds one temperature per tempering replica, ascending.
	Schedule []float64

	// SwapInterval is the number of Metropolis steps each replica runs
	// between replica-exchange attempts.
	SwapInterval int64

	// MaxSteps caps the Metropolis steps per replica. Zero means unbounded;
	// exceeding the cap is an inconclusive result, never a proof.
	MaxSteps int64

	// Seed makes runs reproducible. Zero seeds from the clock.
	Seed int64
}

// DefaultOptions returns the hand-tuned defaults: the original solver's
// single temperature of 0.25 behaves well on standard boards.
func DefaultOptions() *Options {
	return &Options{
		Temperature:  0.25,
		SwapInterval: 1000,
		MaxSteps:     2_000_000,
	}
}

// DefaultSchedule spaces n temperatures geometrically between tmin and tmax.
// Spacing is a tunable, not a contract; any ascending positive schedule works.
func DefaultSchedule(n int, tmin, tmax float64) []float64 {
	if n < 1 {
		return nil
	}
	if n == 1 {
		return []float64{tmin}
	}
	schedule := make([]float64, n)
	ratio := math.Pow(tmax/tmin, 1/float64(n-1))
	t := tmin
	for i := range schedule {
		schedule[i] = t
		t *= ratio
	}
	return schedule
}

func (o *Options) seed() int64 {
	if o.Seed != 0 {
		return o.Seed
	}
	return time.Now().UnixNano()
}
