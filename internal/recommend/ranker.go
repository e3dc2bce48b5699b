package recommend

import (
	"sort"

	"github.com/sidddev006/CineMatch/internal/domain"
)

// Defaults for ranking.
const (
	DefaultThreshold = 7.0
	DefaultTopN      = 10
)

// Ranker scores candidates, drops those under Threshold and keeps the TopN best.
type Ranker struct {
	Scorer    Scorer
	Threshold float64
	TopN      int
	// Dedupe keeps only the first occurrence of each catalog id.
	Dedupe bool
}

// DefaultRanker ranks with the default scorer, threshold 7.0 and top 10.
func DefaultRanker() Ranker {
	return Ranker{Scorer: DefaultScorer(), Threshold: DefaultThreshold, TopN: DefaultTopN}
}

// Rank returns at most TopN candidates with a weighted rating of at least
// Threshold, best first. Equal scores keep their input order.
func (r Ranker) Rank(candidates []domain.Candidate) []domain.ScoredCandidate {
	var seen map[int64]struct{}
	if r.Dedupe {
		seen = make(map[int64]struct{}, len(candidates))
	}

	scored := make([]domain.ScoredCandidate, 0, len(candidates))
	for _, c := range candidates {
		if seen != nil {
			if _, dup := seen[c.ID]; dup {
				continue
			}
			seen[c.ID] = struct{}{}
		}
		score := r.Scorer.Score(c.VoteCount, c.VoteAverage)
		if score < r.Threshold {
			continue
		}
		scored = append(scored, domain.ScoredCandidate{Candidate: c, WeightedRating: score})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].WeightedRating > scored[j].WeightedRating
	})

	if r.TopN >= 0 && len(scored) > r.TopN {
		scored = scored[:r.TopN]
	}
	return scored
}
