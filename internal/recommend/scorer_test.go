package recommend

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeightedRating(t *testing.T) {
	cases := []struct {
		name  string
		votes int
		avg   float64
		want  float64
	}{
		{name: "no votes falls back to prior", votes: 0, avg: 3.2, want: 8.0},
		{name: "negative votes clamp to zero", votes: -25, avg: 9.9, want: 8.0},
		{name: "equal weight at m votes", votes: 500, avg: 7.0, want: 7.5},
		{name: "well voted", votes: 1000, avg: 8.5, want: 25.0 / 3.0},
		{name: "barely voted", votes: 10, avg: 9.9, want: (10*9.9 + 500*8.0) / 510},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := WeightedRating(tc.votes, tc.avg, DefaultMinVotes, DefaultPriorMean)
			assert.InDelta(t, tc.want, got, 1e-9)
		})
	}
}

func TestWeightedRatingStaysBetweenAverageAndPrior(t *testing.T) {
	for _, votes := range []int{0, 1, 50, 499, 500, 5000, 1_000_000} {
		for _, avg := range []float64{0, 4.5, 8.0, 9.7, 10} {
			got := WeightedRating(votes, avg, DefaultMinVotes, DefaultPriorMean)
			lo, hi := math.Min(avg, DefaultPriorMean), math.Max(avg, DefaultPriorMean)
			if got < lo-1e-9 || got > hi+1e-9 {
				t.Fatalf("WeightedRating(%d, %v) = %v, want within [%v, %v]", votes, avg, got, lo, hi)
			}
		}
	}
}

func TestWeightedRatingConvergesToAverage(t *testing.T) {
	got := WeightedRating(50_000_000, 6.1, DefaultMinVotes, DefaultPriorMean)
	assert.InDelta(t, 6.1, got, 1e-4)
}

func TestNewScorerRejectsNonPositiveMinVotes(t *testing.T) {
	_, err := NewScorer(0, 8)
	require.Error(t, err)

	_, err = NewScorer(-1, 8)
	require.Error(t, err)

	s, err := NewScorer(100, 6.5)
	require.NoError(t, err)
	assert.InDelta(t, 6.5, s.Score(0, 9), 1e-9)
}
