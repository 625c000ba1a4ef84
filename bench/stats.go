package bench

import (
	"fmt"
	"math"
	"time"
)

// Stats are the derived read-only statistics over a sample sequence.
type Stats struct {
	Total  time.Duration
	Mean   time.Duration
	StdDev time.Duration
	Min    time.Duration
	Max    time.Duration
}

// ComputeStats aggregates timing samples. The standard deviation is the
// population deviation over the recorded durations.
func ComputeStats(samples []time.Duration) Stats {
	if len(samples) == 0 {
		return Stats{}
	}

	stats := Stats{
		Min: samples[0],
		Max: samples[0],
	}

	for _, d := range samples {
		stats.Total += d
		if d < stats.Min {
			stats.Min = d
		}
		if d > stats.Max {
			stats.Max = d
		}
	}
	stats.Mean = stats.Total / time.Duration(len(samples))

	var sqSum float64
	mean := float64(stats.Mean)
	for _, d := range samples {
		diff := float64(d) - mean
		sqSum += diff * diff
	}
	stats.StdDev = time.Duration(math.Sqrt(sqSum / float64(len(samples))))

	return stats
}

// FmtDur renders a duration with microsecond/millisecond precision suited
// for latency output.
func FmtDur(d time.Duration) string {
	us := float64(d.Microseconds())
	switch {
	case us < 1000:
		return fmt.Sprintf("%.0fµs", us)
	case us < 1000*1000:
		return fmt.Sprintf("%.2fms", us/1000)
	default:
		return fmt.Sprintf("%.2fs", us/(1000*1000))
	}
}
