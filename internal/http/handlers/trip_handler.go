package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"skypool/internal/modules/trip"
	"skypool/internal/types"
)

type TripHandler struct {
	trips *trip.Service
}

func NewTripHandler(svc *trip.Service) *TripHandler {
	return &TripHandler{trips: svc}
}

type createTripReq struct {
	DriverID       string  `json:"driver_id" binding:"required"`
	OriginLat      float64 `json:"origin_lat"`
	OriginLng      float64 `json:"origin_lng"`
	DestinationLat float64 `json:"destination_lat"`
	DestinationLng float64 `json:"destination_lng"`
	TotalSeats     int     `json:"total_seats" binding:"required"`
	TotalLuggage   int     `json:"total_luggage_capacity"`
}

type tripResponse struct {
	ID               string  `json:"id"`
	DriverID         string  `json:"driver_id"`
	OriginLat        float64 `json:"origin_lat"`
	OriginLng        float64 `json:"origin_lng"`
	DestinationLat   float64 `json:"destination_lat"`
	DestinationLng   float64 `json:"destination_lng"`
	TotalSeats       int     `json:"total_seats"`
	AvailableSeats   int     `json:"available_seats"`
	TotalLuggage     int     `json:"total_luggage_capacity"`
	AvailableLuggage int     `json:"available_luggage_capacity"`
	Status           string  `json:"status"`
}

func toTripResponse(t *trip.Trip) tripResponse {
	return tripResponse{
		ID:               string(t.ID),
		DriverID:         string(t.DriverID),
		OriginLat:        t.Origin.Lat,
		OriginLng:        t.Origin.Lng,
		DestinationLat:   t.Destination.Lat,
		DestinationLng:   t.Destination.Lng,
		TotalSeats:       t.TotalSeats,
		AvailableSeats:   t.AvailableSeats,
		TotalLuggage:     t.TotalLuggage,
		AvailableLuggage: t.AvailableLuggage,
		Status:           string(t.Status),
	}
}

func (h *TripHandler) Create(c *gin.Context) {
	var req createTripReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}

	created, err := h.trips.Create(c.Request.Context(), trip.CreateCommand{
		DriverID:     types.ID(req.DriverID),
		Origin:       types.Point{Lat: req.OriginLat, Lng: req.OriginLng},
		Destination:  types.Point{Lat: req.DestinationLat, Lng: req.DestinationLng},
		TotalSeats:   req.TotalSeats,
		TotalLuggage: req.TotalLuggage,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toTripResponse(created))
}

func (h *TripHandler) Get(c *gin.Context) {
	t, err := h.trips.Get(c.Request.Context(), types.ID(c.Param("id")))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTripResponse(t))
}

func (h *TripHandler) ListActive(c *gin.Context) {
	trips, err := h.trips.ListOpen(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	out := make([]tripResponse, 0, len(trips))
	for i := range trips {
		out = append(out, toTripResponse(&trips[i]))
	}
	c.JSON(http.StatusOK, out)
}
