package booking

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/rs/zerolog"

	"skypool/internal/geo"
	"skypool/internal/metrics"
	"skypool/internal/modules/matching"
	"skypool/internal/modules/pricing"
	"skypool/internal/modules/trip"
	"skypool/internal/types"
)

type Outcome string

const (
	// OutcomeMatched: capacity reserved, booking created.
	OutcomeMatched Outcome = "matched"
	// OutcomeNoMatch: no eligible trip within detour tolerance. Not an
	// error; the request commits as PENDING.
	OutcomeNoMatch Outcome = "no_match"
	// OutcomeConflict: the chosen trip lost its capacity between the
	// unlocked scan and the locked re-check. The request commits as
	// PENDING; no other candidate is retried.
	OutcomeConflict Outcome = "conflict"
)

type CreateRequestCommand struct {
	RiderID           types.ID
	Pickup            types.Point
	Drop              types.Point
	Seats             int
	Luggage           int
	DetourToleranceKm float64
}

type Result struct {
	Outcome   Outcome
	RequestID types.ID
	BookingID types.ID
	TripID    types.ID
	Price     float64
	DetourKm  float64
}

type Service struct {
	db             DB
	pricing        *pricing.Service
	candidateLimit int
	log            zerolog.Logger
}

func NewService(db DB, pricingSvc *pricing.Service, candidateLimit int, log zerolog.Logger) *Service {
	if candidateLimit <= 0 {
		candidateLimit = matching.CandidateLimit
	}
	return &Service{db: db, pricing: pricingSvc, candidateLimit: candidateLimit, log: log}
}

// CreateRequest runs the whole reservation flow as one transaction:
// persist the request, scan candidates without locks, score by detour,
// then re-check and decrement capacity under the trip row lock, price
// from the pre-decrement snapshot, and commit the booking. NoMatch and
// Conflict outcomes commit too; only matched-path faults roll back.
func (s *Service) CreateRequest(ctx context.Context, cmd CreateRequestCommand) (*Result, error) {
	if cmd.RiderID == "" || cmd.Seats < 1 || cmd.Luggage < 0 || cmd.DetourToleranceKm < 0 {
		return nil, ErrBadRequest
	}

	res := &Result{}
	err := s.db.InTx(ctx, func(ctx context.Context, tx Tx) error {
		req := &Request{
			ID:                types.NewID(),
			RiderID:           cmd.RiderID,
			Pickup:            cmd.Pickup,
			Drop:              cmd.Drop,
			Seats:             cmd.Seats,
			Luggage:           cmd.Luggage,
			DetourToleranceKm: cmd.DetourToleranceKm,
			Status:            RequestPending,
			CreatedAt:         time.Now().UTC(),
		}
		if err := tx.CreateRequest(ctx, req); err != nil {
			return err
		}
		res.RequestID = req.ID

		candidates, err := tx.FindCandidates(ctx, cmd.Seats, cmd.Luggage, s.candidateLimit)
		if err != nil {
			return err
		}

		match, ok := matching.SelectBest(candidates, cmd.Pickup, cmd.DetourToleranceKm)
		if !ok {
			res.Outcome = OutcomeNoMatch
			return nil
		}

		snapshot, err := trip.NewLedger(tx).Reserve(ctx, match.TripID, cmd.Seats, cmd.Luggage)
		if errors.Is(err, trip.ErrConflict) {
			// Single-shot policy: surface the conflict instead of
			// falling back to the next-best candidate.
			res.Outcome = OutcomeConflict
			return nil
		}
		if err != nil {
			return err
		}

		price, err := s.pricing.Quote(snapshot, geo.DistanceKm(cmd.Pickup, cmd.Drop))
		if err != nil {
			return err
		}

		b := &Booking{
			ID:        types.NewID(),
			TripID:    match.TripID,
			RequestID: req.ID,
			Price:     price,
			CreatedAt: time.Now().UTC(),
		}
		if err := tx.CreateBooking(ctx, b); err != nil {
			return err
		}
		if err := tx.UpdateRequestStatus(ctx, req.ID, RequestMatched); err != nil {
			return err
		}

		res.Outcome = OutcomeMatched
		res.BookingID = b.ID
		res.TripID = match.TripID
		res.Price = price
		res.DetourKm = math.Round(match.DetourKm*100) / 100
		return nil
	})
	if err != nil {
		return nil, err
	}

	switch res.Outcome {
	case OutcomeMatched:
		metrics.RequestsMatched.Inc()
		s.log.Info().
			Str("request_id", string(res.RequestID)).
			Str("trip_id", string(res.TripID)).
			Float64("price", res.Price).
			Float64("detour_km", res.DetourKm).
			Msg("request matched")
	case OutcomeNoMatch:
		metrics.RequestsUnmatched.Inc()
		s.log.Info().Str("request_id", string(res.RequestID)).Msg("no trip within detour tolerance")
	case OutcomeConflict:
		metrics.RequestsConflicted.Inc()
		s.log.Info().Str("request_id", string(res.RequestID)).Msg("trip capacity lost to a concurrent request")
	}
	return res, nil
}

// Cancel reverses a reservation: under the booking and trip row locks
// it restores the trip's capacity, marks the request CANCELLED, and
// deletes the booking, all in one transaction.
func (s *Service) Cancel(ctx context.Context, bookingID types.ID) error {
	err := s.db.InTx(ctx, func(ctx context.Context, tx Tx) error {
		b, err := tx.GetBookingForUpdate(ctx, bookingID)
		if err != nil {
			return err
		}
		req, err := tx.GetRequest(ctx, b.RequestID)
		if err != nil {
			return err
		}
		if err := trip.NewLedger(tx).Release(ctx, b.TripID, req.Seats, req.Luggage); err != nil {
			return err
		}
		if err := tx.UpdateRequestStatus(ctx, req.ID, RequestCancelled); err != nil {
			return err
		}
		return tx.DeleteBooking(ctx, b.ID)
	})
	if err != nil {
		return err
	}

	metrics.BookingsCancelled.Inc()
	s.log.Info().Str("booking_id", string(bookingID)).Msg("booking cancelled")
	return nil
}
