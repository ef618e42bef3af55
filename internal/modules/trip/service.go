package trip

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"skypool/internal/types"
)

// Store is the non-transactional read/write surface for trips. The
// listing and detail reads take no locks.
type Store interface {
	CreateTrip(ctx context.Context, t *Trip) error
	GetTrip(ctx context.Context, id types.ID) (*Trip, error)
	ListOpenTrips(ctx context.Context) ([]Trip, error)
}

type Service struct {
	store Store
	cache *Cache
	log   zerolog.Logger
}

// NewService builds a trip service. cache may be nil, in which case
// listings always hit the store.
func NewService(store Store, cache *Cache, log zerolog.Logger) *Service {
	return &Service{store: store, cache: cache, log: log}
}

type CreateCommand struct {
	DriverID     types.ID
	Origin       types.Point
	Destination  types.Point
	TotalSeats   int
	TotalLuggage int
}

// Create registers a new trip. Availability starts at the declared
// totals and the trip enters matching immediately.
func (s *Service) Create(ctx context.Context, cmd CreateCommand) (*Trip, error) {
	if cmd.DriverID == "" || cmd.TotalSeats < 1 || cmd.TotalLuggage < 0 {
		return nil, ErrBadRequest
	}

	t := &Trip{
		ID:               types.NewID(),
		DriverID:         cmd.DriverID,
		Origin:           cmd.Origin,
		Destination:      cmd.Destination,
		TotalSeats:       cmd.TotalSeats,
		AvailableSeats:   cmd.TotalSeats,
		TotalLuggage:     cmd.TotalLuggage,
		AvailableLuggage: cmd.TotalLuggage,
		Status:           StatusSearching,
		CreatedAt:        time.Now().UTC(),
	}
	if err := s.store.CreateTrip(ctx, t); err != nil {
		return nil, err
	}
	s.log.Info().Str("trip_id", string(t.ID)).Int("seats", t.TotalSeats).Msg("trip created")
	return t, nil
}

func (s *Service) Get(ctx context.Context, id types.ID) (*Trip, error) {
	return s.store.GetTrip(ctx, id)
}

// ListOpen returns trips still accepting passengers. The read is
// cache-aside with a short TTL; staleness is acceptable here because
// the reservation path re-checks capacity under the row lock anyway.
func (s *Service) ListOpen(ctx context.Context) ([]Trip, error) {
	if s.cache != nil {
		if trips, ok := s.cache.GetOpenTrips(ctx); ok {
			return trips, nil
		}
	}

	trips, err := s.store.ListOpenTrips(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetOpenTrips(ctx, trips); err != nil {
			s.log.Warn().Err(err).Msg("open trips cache write failed")
		}
	}
	return trips, nil
}
