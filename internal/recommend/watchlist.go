package recommend

import "github.com/sidddev006/CineMatch/internal/domain"

// Merge flags every result whose id is in members. The slice is updated in
// place and returned for chaining.
func Merge(results []domain.RankedResult, members domain.MemberSet) []domain.RankedResult {
	for i := range results {
		results[i].InWatchlist = members.Has(results[i].ID)
	}
	return results
}
