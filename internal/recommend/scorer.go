package recommend

import "fmt"

// Defaults for the weighted rating.
const (
	DefaultMinVotes  = 500.0
	DefaultPriorMean = 8.0
)

// WeightedRating shrinks voteAverage toward priorMean in proportion to how far
// voteCount falls short of minVotes:
//
//	(v/(v+m))*R + (m/(v+m))*C
//
// Negative vote counts are treated as zero.
func WeightedRating(voteCount int, voteAverage, minVotes, priorMean float64) float64 {
	v := float64(voteCount)
	if v < 0 {
		v = 0
	}
	total := v + minVotes
	if total <= 0 {
		return voteAverage
	}
	return (v/total)*voteAverage + (minVotes/total)*priorMean
}

// Scorer binds the weighted rating to fixed constants.
type Scorer struct {
	MinVotes  float64
	PriorMean float64
}

// NewScorer validates minVotes, which must be positive.
func NewScorer(minVotes, priorMean float64) (Scorer, error) {
	if minVotes <= 0 {
		return Scorer{}, fmt.Errorf("recommend: minVotes must be positive, got %v", minVotes)
	}
	return Scorer{MinVotes: minVotes, PriorMean: priorMean}, nil
}

// DefaultScorer uses m=500 and C=8.0.
func DefaultScorer() Scorer {
	return Scorer{MinVotes: DefaultMinVotes, PriorMean: DefaultPriorMean}
}

// Score returns the weighted rating for one movie.
func (s Scorer) Score(voteCount int, voteAverage float64) float64 {
	return WeightedRating(voteCount, voteAverage, s.MinVotes, s.PriorMean)
}
