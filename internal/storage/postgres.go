// Package storage provides the transactional stores behind the
// matching engine: Postgres for production, an in-memory driver with
// the same locking contract for tests and local development.
package storage

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"skypool/internal/modules/booking"
	"skypool/internal/modules/matching"
	"skypool/internal/modules/trip"
	"skypool/internal/types"
)

// Postgres backs the engine with pgx. Row locks are SELECT ... FOR
// UPDATE, scoped to the pgx.Tx that InTx opens per reservation or
// cancellation.
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// InTx implements booking.DB over one database transaction.
func (p *Postgres) InTx(ctx context.Context, fn func(ctx context.Context, tx booking.Tx) error) error {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(ctx, &pgTx{tx: tx}); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

type pgTx struct {
	tx pgx.Tx
}

const tripColumns = `id, driver_id, origin_lat, origin_lng, destination_lat, destination_lng,
	       total_seats, available_seats, total_luggage_capacity, available_luggage_capacity,
	       status, created_at`

func scanTrip(row pgx.Row) (*trip.Trip, error) {
	var t trip.Trip
	err := row.Scan(
		&t.ID, &t.DriverID,
		&t.Origin.Lat, &t.Origin.Lng,
		&t.Destination.Lat, &t.Destination.Lng,
		&t.TotalSeats, &t.AvailableSeats,
		&t.TotalLuggage, &t.AvailableLuggage,
		&t.Status, &t.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, trip.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (t *pgTx) GetTripForUpdate(ctx context.Context, id types.ID) (*trip.Trip, error) {
	row := t.tx.QueryRow(ctx, `
		SELECT `+tripColumns+`
		FROM trips
		WHERE id = $1
		FOR UPDATE`, string(id),
	)
	return scanTrip(row)
}

func (t *pgTx) UpdateTripCapacity(ctx context.Context, tr *trip.Trip) error {
	_, err := t.tx.Exec(ctx, `
		UPDATE trips
		SET available_seats = $1,
		    available_luggage_capacity = $2,
		    status = $3
		WHERE id = $4`,
		tr.AvailableSeats,
		tr.AvailableLuggage,
		string(tr.Status),
		string(tr.ID),
	)
	return err
}

func (t *pgTx) FindCandidates(ctx context.Context, seats, luggage, limit int) ([]matching.Candidate, error) {
	rows, err := t.tx.Query(ctx, `
		SELECT id, origin_lat, origin_lng, total_seats, available_seats,
		       available_luggage_capacity, status
		FROM trips
		WHERE status = $1
		  AND available_seats >= $2
		  AND available_luggage_capacity >= $3
		LIMIT $4`,
		string(trip.StatusSearching), seats, luggage, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []matching.Candidate
	for rows.Next() {
		var c matching.Candidate
		if err := rows.Scan(
			&c.TripID, &c.Origin.Lat, &c.Origin.Lng,
			&c.TotalSeats, &c.AvailableSeats, &c.AvailableLuggage, &c.Status,
		); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (t *pgTx) CreateRequest(ctx context.Context, r *booking.Request) error {
	_, err := t.tx.Exec(ctx, `
		INSERT INTO ride_requests (
			id, rider_id, pickup_lat, pickup_lng, drop_lat, drop_lng,
			seats_required, luggage_required, detour_tolerance_km, status, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		string(r.ID), string(r.RiderID),
		r.Pickup.Lat, r.Pickup.Lng, r.Drop.Lat, r.Drop.Lng,
		r.Seats, r.Luggage, r.DetourToleranceKm,
		string(r.Status), r.CreatedAt,
	)
	return err
}

func (t *pgTx) GetRequest(ctx context.Context, id types.ID) (*booking.Request, error) {
	row := t.tx.QueryRow(ctx, `
		SELECT id, rider_id, pickup_lat, pickup_lng, drop_lat, drop_lng,
		       seats_required, luggage_required, detour_tolerance_km, status, created_at
		FROM ride_requests
		WHERE id = $1`, string(id),
	)
	var r booking.Request
	err := row.Scan(
		&r.ID, &r.RiderID,
		&r.Pickup.Lat, &r.Pickup.Lng, &r.Drop.Lat, &r.Drop.Lng,
		&r.Seats, &r.Luggage, &r.DetourToleranceKm, &r.Status, &r.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, booking.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (t *pgTx) UpdateRequestStatus(ctx context.Context, id types.ID, to booking.RequestStatus) error {
	_, err := t.tx.Exec(ctx, `
		UPDATE ride_requests SET status = $1 WHERE id = $2`,
		string(to), string(id),
	)
	return err
}

func (t *pgTx) CreateBooking(ctx context.Context, b *booking.Booking) error {
	_, err := t.tx.Exec(ctx, `
		INSERT INTO bookings (id, trip_id, request_id, price, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		string(b.ID), string(b.TripID), string(b.RequestID), b.Price, b.CreatedAt,
	)
	return err
}

func (t *pgTx) GetBookingForUpdate(ctx context.Context, id types.ID) (*booking.Booking, error) {
	row := t.tx.QueryRow(ctx, `
		SELECT id, trip_id, request_id, price, created_at
		FROM bookings
		WHERE id = $1
		FOR UPDATE`, string(id),
	)
	var b booking.Booking
	err := row.Scan(&b.ID, &b.TripID, &b.RequestID, &b.Price, &b.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, booking.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (t *pgTx) DeleteBooking(ctx context.Context, id types.ID) error {
	_, err := t.tx.Exec(ctx, `DELETE FROM bookings WHERE id = $1`, string(id))
	return err
}

// Non-transactional reads/writes below implement trip.Store.

func (p *Postgres) CreateTrip(ctx context.Context, tr *trip.Trip) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO trips (
			id, driver_id, origin_lat, origin_lng, destination_lat, destination_lng,
			total_seats, available_seats, total_luggage_capacity, available_luggage_capacity,
			status, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		string(tr.ID), string(tr.DriverID),
		tr.Origin.Lat, tr.Origin.Lng,
		tr.Destination.Lat, tr.Destination.Lng,
		tr.TotalSeats, tr.AvailableSeats,
		tr.TotalLuggage, tr.AvailableLuggage,
		string(tr.Status), tr.CreatedAt,
	)
	return err
}

func (p *Postgres) GetTrip(ctx context.Context, id types.ID) (*trip.Trip, error) {
	row := p.pool.QueryRow(ctx, `
		SELECT `+tripColumns+`
		FROM trips
		WHERE id = $1`, string(id),
	)
	return scanTrip(row)
}

func (p *Postgres) ListOpenTrips(ctx context.Context) ([]trip.Trip, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT `+tripColumns+`
		FROM trips
		WHERE status = $1 AND available_seats > 0`,
		string(trip.StatusSearching),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []trip.Trip
	for rows.Next() {
		var t trip.Trip
		if err := rows.Scan(
			&t.ID, &t.DriverID,
			&t.Origin.Lat, &t.Origin.Lng,
			&t.Destination.Lat, &t.Destination.Lng,
			&t.TotalSeats, &t.AvailableSeats,
			&t.TotalLuggage, &t.AvailableLuggage,
			&t.Status, &t.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
