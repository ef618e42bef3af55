// Package matching picks the best trip for a request by detour distance.
package matching

import (
	"context"

	"skypool/internal/modules/trip"
	"skypool/internal/types"
)

// CandidateLimit caps the unlocked candidate scan. Bounded latency is
// traded for global optimality under a large trip pool.
const CandidateLimit = 50

// Candidate is the projection of a trip the scorer needs; fetching full
// rows for up to 50 trips would be wasted I/O.
type Candidate struct {
	TripID           types.ID
	Origin           types.Point
	TotalSeats       int
	AvailableSeats   int
	AvailableLuggage int
	Status           trip.Status
}

// CandidateStore returns trips that are structurally eligible: status
// SEARCHING with enough seats and luggage headroom. The read takes no
// locks, so the counters may be stale by the time a trip is chosen;
// the capacity ledger re-checks under its row lock.
type CandidateStore interface {
	FindCandidates(ctx context.Context, seats, luggage, limit int) ([]Candidate, error)
}

// Match is a chosen trip and the detour that won it.
type Match struct {
	TripID   types.ID
	DetourKm float64
}
