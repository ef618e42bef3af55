// Package trip owns the pooled trip aggregate and its capacity ledger.
package trip

import (
	"errors"
	"time"

	"skypool/internal/types"
)

type Status string

const (
	StatusSearching Status = "SEARCHING"
	StatusFull      Status = "FULL"
	StatusStarted   Status = "STARTED"
	StatusCancelled Status = "CANCELLED"
)

var (
	ErrNotFound = errors.New("trip not found")
	// ErrConflict means the capacity seen by the unlocked candidate scan
	// was stale by the time the row lock was taken.
	ErrConflict = errors.New("trip no longer has the requested capacity")
	// ErrInvalidCapacity marks a capacity invariant violation; callers
	// must abort the enclosing transaction.
	ErrInvalidCapacity = errors.New("trip capacity out of range")
	ErrBadRequest      = errors.New("bad trip request")
)

type Trip struct {
	ID               types.ID
	DriverID         types.ID
	Origin           types.Point
	Destination      types.Point
	TotalSeats       int
	AvailableSeats   int
	TotalLuggage     int
	AvailableLuggage int
	Status           Status
	CreatedAt        time.Time
}
