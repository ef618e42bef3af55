package trip

import (
	"context"

	"skypool/internal/types"
)

// TxStore is the slice of a storage transaction the ledger needs: a
// transaction-scoped exclusive row lock plus a capacity write-back.
type TxStore interface {
	// GetTripForUpdate locks the trip row until the enclosing
	// transaction commits or aborts, then returns the current row.
	GetTripForUpdate(ctx context.Context, id types.ID) (*Trip, error)
	UpdateTripCapacity(ctx context.Context, t *Trip) error
}

// Ledger is the sole authority over a trip's capacity counters and the
// SEARCHING/FULL status transition. It must only be used inside a
// storage transaction.
type Ledger struct {
	tx TxStore
}

func NewLedger(tx TxStore) *Ledger {
	return &Ledger{tx: tx}
}

// Reserve locks the trip, re-checks capacity, and decrements seats and
// luggage. It returns the snapshot taken before the decrement so
// pricing can see occupancy prior to this booking. ErrConflict means
// the optimistic candidate read was stale.
func (l *Ledger) Reserve(ctx context.Context, id types.ID, seats, luggage int) (Trip, error) {
	t, err := l.tx.GetTripForUpdate(ctx, id)
	if err != nil {
		return Trip{}, err
	}
	if t.AvailableSeats < seats || t.AvailableLuggage < luggage {
		return Trip{}, ErrConflict
	}
	if t.TotalSeats <= 0 {
		return Trip{}, ErrInvalidCapacity
	}

	snapshot := *t

	t.AvailableSeats -= seats
	t.AvailableLuggage -= luggage
	if t.AvailableSeats == 0 {
		t.Status = StatusFull
	}
	if err := l.tx.UpdateTripCapacity(ctx, t); err != nil {
		return Trip{}, err
	}
	return snapshot, nil
}

// Release is the mirror of Reserve, used by cancellation. It restores
// the counters and demotes FULL back to SEARCHING; any other status
// (STARTED, CANCELLED) is left untouched.
func (l *Ledger) Release(ctx context.Context, id types.ID, seats, luggage int) error {
	t, err := l.tx.GetTripForUpdate(ctx, id)
	if err != nil {
		return err
	}

	t.AvailableSeats += seats
	t.AvailableLuggage += luggage
	if t.AvailableSeats > t.TotalSeats || t.AvailableLuggage > t.TotalLuggage {
		return ErrInvalidCapacity
	}
	if t.Status == StatusFull {
		t.Status = StatusSearching
	}
	return l.tx.UpdateTripCapacity(ctx, t)
}
