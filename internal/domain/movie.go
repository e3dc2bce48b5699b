package domain

import "strconv"

// Defaults applied to catalog records with missing fields.
const (
	UnknownTitle       = "Unknown Title"
	NoOverview         = "No description available."
	UnknownReleaseDate = "N/A"
)

// Runtime is a duration in minutes, or RuntimeUnknown when the detail lookup failed.
type Runtime int

// RuntimeUnknown marks a runtime that could not be resolved.
const RuntimeUnknown Runtime = -1

// Known reports whether the runtime was resolved.
func (r Runtime) Known() bool {
	return r >= 0
}

// Minutes returns the runtime as a pointer suitable for optional JSON fields.
func (r Runtime) Minutes() *int {
	if !r.Known() {
		return nil
	}
	m := int(r)
	return &m
}

func (r Runtime) String() string {
	if !r.Known() {
		return "N/A"
	}
	return strconv.Itoa(int(r)) + " min"
}

// Candidate is one row of the catalog discovery endpoint.
type Candidate struct {
	ID          int64
	Title       string
	Overview    string
	PosterPath  *string
	VoteCount   int
	VoteAverage float64
	ReleaseDate string
}

// ScoredCandidate is a Candidate with its weighted rating.
type ScoredCandidate struct {
	Candidate
	WeightedRating float64
}

// RankedResult is the unit returned to callers: a scored candidate with runtime
// and watchlist membership resolved.
type RankedResult struct {
	ScoredCandidate
	Runtime     Runtime
	InWatchlist bool
}

// MemberSet holds the catalog identifiers saved by a single user.
type MemberSet map[int64]struct{}

// NewMemberSet builds a MemberSet from a list of identifiers.
func NewMemberSet(ids ...int64) MemberSet {
	set := make(MemberSet, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// Has reports whether id is a member. A nil set has no members.
func (s MemberSet) Has(id int64) bool {
	_, ok := s[id]
	return ok
}
