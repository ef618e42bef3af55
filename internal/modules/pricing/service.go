// Package pricing computes reservation fares.
package pricing

import (
	"errors"
	"math"

	"skypool/internal/modules/trip"
)

// Rate holds the distance-pricing constants. Currency-agnostic units.
type Rate struct {
	BaseFare  float64
	PerKmRate float64
}

func DefaultRate() Rate {
	return Rate{BaseFare: 100, PerKmRate: 15}
}

// ErrInvalidTrip is returned for a trip with no seat capacity. That is
// an upstream invariant violation; callers must abort the transaction.
var ErrInvalidTrip = errors.New("trip has no seat capacity")

type Service struct {
	rate Rate
}

func NewService(rate Rate) *Service {
	return &Service{rate: rate}
}

// Quote prices a reservation from the pickup→drop leg distance and the
// trip's occupancy. The snapshot must be taken before the ledger
// decrement, so the surge reflects occupancy prior to this booking.
func (s *Service) Quote(snapshot trip.Trip, legKm float64) (float64, error) {
	if snapshot.TotalSeats <= 0 {
		return 0, ErrInvalidTrip
	}

	basePrice := s.rate.BaseFare + legKm*s.rate.PerKmRate

	occupancy := float64(snapshot.TotalSeats-snapshot.AvailableSeats) / float64(snapshot.TotalSeats)
	return round2(basePrice * surgeMultiplier(occupancy)), nil
}

// surgeMultiplier steps the fare up as the trip fills. Thresholds are
// exclusive lower bounds, checked in descending order.
func surgeMultiplier(occupancy float64) float64 {
	switch {
	case occupancy > 0.7:
		return 1.2
	case occupancy > 0.4:
		return 1.1
	default:
		return 1.0
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
