package trip

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"skypool/internal/types"
)

type fakeStore struct {
	trips map[types.ID]*Trip
}

func newFakeStore() *fakeStore {
	return &fakeStore{trips: map[types.ID]*Trip{}}
}

func (f *fakeStore) CreateTrip(_ context.Context, t *Trip) error {
	cp := *t
	f.trips[t.ID] = &cp
	return nil
}

func (f *fakeStore) GetTrip(_ context.Context, id types.ID) (*Trip, error) {
	t, ok := f.trips[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (f *fakeStore) ListOpenTrips(_ context.Context) ([]Trip, error) {
	var out []Trip
	for _, t := range f.trips {
		if t.Status == StatusSearching && t.AvailableSeats > 0 {
			out = append(out, *t)
		}
	}
	return out, nil
}

func TestServiceCreate(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, nil, zerolog.Nop())

	created, err := svc.Create(context.Background(), CreateCommand{
		DriverID:     "d1",
		Origin:       types.Point{Lat: 25.08, Lng: 121.23},
		Destination:  types.Point{Lat: 25.03, Lng: 121.56},
		TotalSeats:   4,
		TotalLuggage: 3,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.AvailableSeats != 4 || created.AvailableLuggage != 3 {
		t.Errorf("availability not initialized from totals: %+v", created)
	}
	if created.Status != StatusSearching {
		t.Errorf("status = %s, want SEARCHING", created.Status)
	}
	if created.ID == "" {
		t.Error("missing trip id")
	}
}

func TestServiceCreate_Invalid(t *testing.T) {
	svc := NewService(newFakeStore(), nil, zerolog.Nop())
	ctx := context.Background()

	cases := []CreateCommand{
		{DriverID: "", TotalSeats: 4},
		{DriverID: "d1", TotalSeats: 0},
		{DriverID: "d1", TotalSeats: 4, TotalLuggage: -1},
	}
	for _, cmd := range cases {
		if _, err := svc.Create(ctx, cmd); !errors.Is(err, ErrBadRequest) {
			t.Errorf("Create(%+v): expected ErrBadRequest, got %v", cmd, err)
		}
	}
}

func TestServiceGet_NotFound(t *testing.T) {
	svc := NewService(newFakeStore(), nil, zerolog.Nop())
	if _, err := svc.Get(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestServiceListOpen(t *testing.T) {
	store := newFakeStore()
	store.trips["a"] = &Trip{ID: "a", Status: StatusSearching, AvailableSeats: 2}
	store.trips["b"] = &Trip{ID: "b", Status: StatusFull, AvailableSeats: 0}
	store.trips["c"] = &Trip{ID: "c", Status: StatusStarted, AvailableSeats: 3}

	svc := NewService(store, nil, zerolog.Nop())
	trips, err := svc.ListOpen(context.Background())
	if err != nil {
		t.Fatalf("list open: %v", err)
	}
	if len(trips) != 1 || trips[0].ID != "a" {
		t.Errorf("unexpected open trips: %+v", trips)
	}
}
