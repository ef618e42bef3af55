package storage

import (
	"context"
	"sync"

	"skypool/internal/modules/booking"
	"skypool/internal/modules/matching"
	"skypool/internal/modules/trip"
	"skypool/internal/types"
)

// Memory is an in-process store with the same transactional contract as
// Postgres: per-row mutexes stand in for SELECT ... FOR UPDATE and are
// held until the transaction ends, and writes are journaled and applied
// atomically on commit. Used by the engine test suites and selectable
// as db.driver=memory for local development.
type Memory struct {
	mu       sync.RWMutex
	trips    map[types.ID]*trip.Trip
	requests map[types.ID]*booking.Request
	bookings map[types.ID]*booking.Booking
	rowLocks map[string]*sync.Mutex
}

func NewMemory() *Memory {
	return &Memory{
		trips:    make(map[types.ID]*trip.Trip),
		requests: make(map[types.ID]*booking.Request),
		bookings: make(map[types.ID]*booking.Booking),
		rowLocks: make(map[string]*sync.Mutex),
	}
}

// rowLock returns the mutex for a row key, creating it on first use.
func (m *Memory) rowLock(key string) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()
	lk, ok := m.rowLocks[key]
	if !ok {
		lk = &sync.Mutex{}
		m.rowLocks[key] = lk
	}
	return lk
}

// InTx implements booking.DB. fn's staged writes are applied under the
// store mutex when fn returns nil; any error (or panic) discards them.
// Row locks taken inside fn are released after commit or abort.
func (m *Memory) InTx(ctx context.Context, fn func(ctx context.Context, tx booking.Tx) error) error {
	tx := &memTx{db: m}
	defer tx.releaseLocks()

	if err := fn(ctx, tx); err != nil {
		return err
	}

	m.mu.Lock()
	for _, apply := range tx.writes {
		apply(m)
	}
	m.mu.Unlock()
	return nil
}

type memTx struct {
	db     *Memory
	held   []*sync.Mutex
	writes []func(*Memory)
}

func (t *memTx) releaseLocks() {
	for i := len(t.held) - 1; i >= 0; i-- {
		t.held[i].Unlock()
	}
	t.held = nil
}

// lockRow blocks until the row lock is free, like a contended FOR
// UPDATE. Locking the same row twice in one transaction deadlocks;
// the engine's flows never do.
func (t *memTx) lockRow(key string) {
	lk := t.db.rowLock(key)
	lk.Lock()
	t.held = append(t.held, lk)
}

func (t *memTx) stage(apply func(*Memory)) {
	t.writes = append(t.writes, apply)
}

func (t *memTx) GetTripForUpdate(_ context.Context, id types.ID) (*trip.Trip, error) {
	t.lockRow("trip:" + string(id))

	t.db.mu.RLock()
	defer t.db.mu.RUnlock()
	row, ok := t.db.trips[id]
	if !ok {
		return nil, trip.ErrNotFound
	}
	cp := *row
	return &cp, nil
}

func (t *memTx) UpdateTripCapacity(_ context.Context, tr *trip.Trip) error {
	cp := *tr
	t.stage(func(db *Memory) {
		db.trips[cp.ID] = &cp
	})
	return nil
}

func (t *memTx) FindCandidates(_ context.Context, seats, luggage, limit int) ([]matching.Candidate, error) {
	t.db.mu.RLock()
	defer t.db.mu.RUnlock()

	var out []matching.Candidate
	for _, tr := range t.db.trips {
		if tr.Status != trip.StatusSearching {
			continue
		}
		if tr.AvailableSeats < seats || tr.AvailableLuggage < luggage {
			continue
		}
		out = append(out, matching.Candidate{
			TripID:           tr.ID,
			Origin:           tr.Origin,
			TotalSeats:       tr.TotalSeats,
			AvailableSeats:   tr.AvailableSeats,
			AvailableLuggage: tr.AvailableLuggage,
			Status:           tr.Status,
		})
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (t *memTx) CreateRequest(_ context.Context, r *booking.Request) error {
	cp := *r
	t.stage(func(db *Memory) {
		db.requests[cp.ID] = &cp
	})
	return nil
}

func (t *memTx) GetRequest(_ context.Context, id types.ID) (*booking.Request, error) {
	t.db.mu.RLock()
	defer t.db.mu.RUnlock()
	r, ok := t.db.requests[id]
	if !ok {
		return nil, booking.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (t *memTx) UpdateRequestStatus(_ context.Context, id types.ID, to booking.RequestStatus) error {
	t.stage(func(db *Memory) {
		if r, ok := db.requests[id]; ok {
			r.Status = to
		}
	})
	return nil
}

func (t *memTx) CreateBooking(_ context.Context, b *booking.Booking) error {
	cp := *b
	t.stage(func(db *Memory) {
		db.bookings[cp.ID] = &cp
	})
	return nil
}

func (t *memTx) GetBookingForUpdate(_ context.Context, id types.ID) (*booking.Booking, error) {
	t.lockRow("booking:" + string(id))

	t.db.mu.RLock()
	defer t.db.mu.RUnlock()
	b, ok := t.db.bookings[id]
	if !ok {
		return nil, booking.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (t *memTx) DeleteBooking(_ context.Context, id types.ID) error {
	t.stage(func(db *Memory) {
		delete(db.bookings, id)
	})
	return nil
}

// Non-transactional reads/writes below implement trip.Store.

func (m *Memory) CreateTrip(_ context.Context, tr *trip.Trip) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *tr
	m.trips[tr.ID] = &cp
	return nil
}

func (m *Memory) GetTrip(_ context.Context, id types.ID) (*trip.Trip, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	tr, ok := m.trips[id]
	if !ok {
		return nil, trip.ErrNotFound
	}
	cp := *tr
	return &cp, nil
}

func (m *Memory) ListOpenTrips(_ context.Context) ([]trip.Trip, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []trip.Trip
	for _, tr := range m.trips {
		if tr.Status == trip.StatusSearching && tr.AvailableSeats > 0 {
			out = append(out, *tr)
		}
	}
	return out, nil
}

// GetRequest outside a transaction, for tests and read paths.
func (m *Memory) GetRequest(_ context.Context, id types.ID) (*booking.Request, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.requests[id]
	if !ok {
		return nil, booking.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

// GetBooking outside a transaction, for tests and read paths.
func (m *Memory) GetBooking(_ context.Context, id types.ID) (*booking.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.bookings[id]
	if !ok {
		return nil, booking.ErrNotFound
	}
	cp := *b
	return &cp, nil
}
