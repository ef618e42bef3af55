// Concurrency tests for the reservation transaction (run with -race).
package booking_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"skypool/internal/modules/booking"
	"skypool/internal/modules/trip"
	"skypool/internal/storage"
	"skypool/internal/types"
)

func TestConcurrentRequests_OneSeatOneWinner(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemory()
	svc := newTestService(store)

	seeded := seedTrip(t, store, trip.Trip{
		DriverID:   "d1",
		Origin:     types.Point{Lat: 0, Lng: 0},
		TotalSeats: 4, AvailableSeats: 1, TotalLuggage: 4, AvailableLuggage: 4,
	})

	const attempts = 8
	results := make(chan *booking.Result, attempts)
	start := make(chan struct{})
	var wg sync.WaitGroup

	for i := 0; i < attempts; i++ {
		riderID := types.ID(fmt.Sprintf("r%d", i))
		wg.Add(1)
		go func(rid types.ID) {
			defer wg.Done()
			<-start
			res, err := svc.CreateRequest(ctx, booking.CreateRequestCommand{
				RiderID: rid,
				Pickup:  types.Point{Lat: 0, Lng: 0},
				Drop:    types.Point{Lat: 0, Lng: 1},
				Seats:   1, Luggage: 0,
				DetourToleranceKm: 5,
			})
			if err != nil {
				t.Errorf("create request: %v", err)
				return
			}
			results <- res
		}(riderID)
	}

	close(start)
	wg.Wait()
	close(results)

	matched := 0
	for res := range results {
		switch res.Outcome {
		case booking.OutcomeMatched:
			matched++
		case booking.OutcomeConflict, booking.OutcomeNoMatch:
			// Losers see either outcome depending on whether their scan
			// ran before or after the winner committed.
		default:
			t.Errorf("unexpected outcome: %s", res.Outcome)
		}
	}
	if matched != 1 {
		t.Fatalf("expected exactly 1 matched request, got %d", matched)
	}

	after := mustGetTrip(t, store, seeded.ID)
	if after.AvailableSeats != 0 {
		t.Errorf("available seats = %d, want 0", after.AvailableSeats)
	}
	if after.Status != trip.StatusFull {
		t.Errorf("status = %s, want FULL", after.Status)
	}
	if after.AvailableLuggage != 4 {
		t.Errorf("luggage must be untouched by losing attempts, got %d", after.AvailableLuggage)
	}
}

func TestConcurrentRequests_DisjointTripsAllWin(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemory()
	svc := newTestService(store)

	// One trip per rider, each far enough apart that only "its" rider
	// is within tolerance.
	const n = 5
	for i := 0; i < n; i++ {
		seedTrip(t, store, trip.Trip{
			ID:       types.ID(fmt.Sprintf("t%d", i)),
			DriverID: types.ID(fmt.Sprintf("d%d", i)),
			Origin:   types.Point{Lat: float64(i) * 10, Lng: 0},
			TotalSeats: 1, AvailableSeats: 1, TotalLuggage: 1, AvailableLuggage: 1,
		})
	}

	results := make(chan *booking.Result, n)
	start := make(chan struct{})
	var wg sync.WaitGroup

	for i := 0; i < n; i++ {
		idx := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			res, err := svc.CreateRequest(ctx, booking.CreateRequestCommand{
				RiderID: types.ID(fmt.Sprintf("r%d", idx)),
				Pickup:  types.Point{Lat: float64(idx) * 10, Lng: 0},
				Drop:    types.Point{Lat: float64(idx) * 10, Lng: 1},
				Seats:   1, Luggage: 0,
				DetourToleranceKm: 5,
			})
			if err != nil {
				t.Errorf("create request: %v", err)
				return
			}
			results <- res
		}()
	}

	close(start)
	wg.Wait()
	close(results)

	matched := 0
	for res := range results {
		if res.Outcome == booking.OutcomeMatched {
			matched++
		}
	}
	if matched != n {
		t.Fatalf("expected all %d disjoint requests to match, got %d", n, matched)
	}
}

func TestConcurrentCancelAndRequest_SameTrip(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemory()
	svc := newTestService(store)

	seeded := seedTrip(t, store, trip.Trip{
		DriverID:   "d1",
		Origin:     types.Point{Lat: 0, Lng: 0},
		TotalSeats: 1, AvailableSeats: 1, TotalLuggage: 1, AvailableLuggage: 1,
	})

	first, err := svc.CreateRequest(ctx, booking.CreateRequestCommand{
		RiderID: "r1",
		Pickup:  types.Point{Lat: 0, Lng: 0},
		Drop:    types.Point{Lat: 0, Lng: 1},
		Seats:   1, Luggage: 0,
		DetourToleranceKm: 5,
	})
	if err != nil || first.Outcome != booking.OutcomeMatched {
		t.Fatalf("setup booking failed: %v / %+v", err, first)
	}

	// Cancellation and a second reservation race for the same trip
	// lock. Whatever the interleaving, the invariants must hold.
	var wg sync.WaitGroup
	var second *booking.Result
	start := make(chan struct{})

	wg.Add(2)
	go func() {
		defer wg.Done()
		<-start
		if err := svc.Cancel(ctx, first.BookingID); err != nil {
			t.Errorf("cancel: %v", err)
		}
	}()
	go func() {
		defer wg.Done()
		<-start
		res, err := svc.CreateRequest(ctx, booking.CreateRequestCommand{
			RiderID: "r2",
			Pickup:  types.Point{Lat: 0, Lng: 0},
			Drop:    types.Point{Lat: 0, Lng: 1},
			Seats:   1, Luggage: 0,
			DetourToleranceKm: 5,
		})
		if err != nil {
			t.Errorf("second request: %v", err)
			return
		}
		second = res
	}()

	close(start)
	wg.Wait()

	after := mustGetTrip(t, store, seeded.ID)
	if after.AvailableSeats < 0 || after.AvailableSeats > after.TotalSeats {
		t.Fatalf("seat invariant violated: %d of %d", after.AvailableSeats, after.TotalSeats)
	}
	if second != nil && second.Outcome == booking.OutcomeMatched {
		// Second rider got the freed seat: trip is full again.
		if after.AvailableSeats != 0 || after.Status != trip.StatusFull {
			t.Errorf("trip after rebook = %d seats / %s, want 0 / FULL", after.AvailableSeats, after.Status)
		}
	} else {
		// Second rider lost the race: the cancellation left the seat free.
		if after.AvailableSeats != 1 || after.Status != trip.StatusSearching {
			t.Errorf("trip after cancel = %d seats / %s, want 1 / SEARCHING", after.AvailableSeats, after.Status)
		}
	}
}
