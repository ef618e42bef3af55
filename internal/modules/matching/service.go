package matching

import (
	"skypool/internal/geo"
	"skypool/internal/types"
)

// SelectBest scans candidates in the order received and keeps the one
// with the smallest detour within toleranceKm. The comparison is a
// strict less-than, so the first candidate at a given minimal detour
// wins; later equal-detour candidates are ignored. The second return
// is false when no candidate qualifies, which is a normal outcome
// rather than an error.
func SelectBest(candidates []Candidate, pickup types.Point, toleranceKm float64) (Match, bool) {
	var best Match
	found := false
	minDetour := 0.0

	for _, c := range candidates {
		detour := geo.DistanceKm(c.Origin, pickup)
		if detour > toleranceKm {
			continue
		}
		if !found || detour < minDetour {
			best = Match{TripID: c.TripID, DetourKm: detour}
			minDetour = detour
			found = true
		}
	}
	return best, found
}
