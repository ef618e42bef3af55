// Package booking runs the reservation transaction: candidate scan,
// detour matching, locked capacity reservation, pricing, and the
// symmetric cancellation.
package booking

import (
	"context"
	"errors"
	"time"

	"skypool/internal/modules/matching"
	"skypool/internal/modules/trip"
	"skypool/internal/types"
)

type RequestStatus string

const (
	RequestPending   RequestStatus = "PENDING"
	RequestMatched   RequestStatus = "MATCHED"
	RequestCancelled RequestStatus = "CANCELLED"
)

var (
	ErrNotFound   = errors.New("booking not found")
	ErrBadRequest = errors.New("bad request")
)

// Request is a rider's ask for transport. Its status moves
// PENDING→MATCHED on reservation and MATCHED→CANCELLED on
// cancellation, never back.
type Request struct {
	ID                types.ID
	RiderID           types.ID
	Pickup            types.Point
	Drop              types.Point
	Seats             int
	Luggage           int
	DetourToleranceKm float64
	Status            RequestStatus
	CreatedAt         time.Time
}

// Booking binds one request to one trip with the computed price. Its
// existence is the source of truth for "currently booked": cancellation
// deletes the row rather than flagging it.
type Booking struct {
	ID        types.ID
	TripID    types.ID
	RequestID types.ID
	Price     float64
	CreatedAt time.Time
}

// Tx is everything the reservation and cancellation transactions touch.
// All writes staged through it commit or abort as one unit; the trip
// and booking row locks it hands out are held until then.
type Tx interface {
	trip.TxStore
	matching.CandidateStore

	CreateRequest(ctx context.Context, r *Request) error
	GetRequest(ctx context.Context, id types.ID) (*Request, error)
	UpdateRequestStatus(ctx context.Context, id types.ID, to RequestStatus) error

	CreateBooking(ctx context.Context, b *Booking) error
	// GetBookingForUpdate locks the booking row until the transaction
	// ends, serializing concurrent cancellations.
	GetBookingForUpdate(ctx context.Context, id types.ID) (*Booking, error)
	DeleteBooking(ctx context.Context, id types.ID) error
}

// DB runs a function inside one storage transaction. A nil return
// commits, an error aborts with full rollback.
type DB interface {
	InTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}
