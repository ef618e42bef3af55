// Package types holds the small value types shared across modules.
package types

import "github.com/google/uuid"

// ID identifies a trip, request, or booking.
type ID string

// NewID returns a fresh random identifier.
func NewID() ID {
	return ID(uuid.NewString())
}

// Point is a WGS84 coordinate pair in decimal degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}
