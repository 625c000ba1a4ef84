package bench_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/snowbench/snowbench/bench"
)

func TestComputeStats(t *testing.T) {
	tests := []struct {
		name    string
		samples []time.Duration
		want    bench.Stats
	}{
		{
			name:    "empty",
			samples: nil,
			want:    bench.Stats{},
		},
		{
			name:    "constant durations have zero deviation",
			samples: []time.Duration{time.Second, time.Second, time.Second},
			want: bench.Stats{
				Total:  3 * time.Second,
				Mean:   time.Second,
				StdDev: 0,
				Min:    time.Second,
				Max:    time.Second,
			},
		},
		{
			name:    "spread durations",
			samples: []time.Duration{100 * time.Millisecond, 300 * time.Millisecond},
			want: bench.Stats{
				Total:  400 * time.Millisecond,
				Mean:   200 * time.Millisecond,
				StdDev: 100 * time.Millisecond,
				Min:    100 * time.Millisecond,
				Max:    300 * time.Millisecond,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, bench.ComputeStats(tt.samples))
		})
	}
}

func TestFmtDur(t *testing.T) {
	r := require.New(t)

	r.Equal("250µs", bench.FmtDur(250*time.Microsecond))
	r.Equal("1.50ms", bench.FmtDur(1500*time.Microsecond))
	r.Equal("2.00s", bench.FmtDur(2*time.Second))
}
