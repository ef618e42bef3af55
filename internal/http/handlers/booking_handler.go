package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"skypool/internal/modules/booking"
	"skypool/internal/types"
)

type BookingHandler struct {
	bookings *booking.Service
}

func NewBookingHandler(svc *booking.Service) *BookingHandler {
	return &BookingHandler{bookings: svc}
}

type createRequestReq struct {
	RiderID           string  `json:"rider_id" binding:"required"`
	PickupLat         float64 `json:"pickup_lat"`
	PickupLng         float64 `json:"pickup_lng"`
	DropLat           float64 `json:"drop_lat"`
	DropLng           float64 `json:"drop_lng"`
	SeatsRequired     int     `json:"seats_required" binding:"required"`
	LuggageRequired   int     `json:"luggage_required"`
	DetourToleranceKm float64 `json:"detour_tolerance_km"`
}

func (h *BookingHandler) CreateRequest(c *gin.Context) {
	var req createRequestReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if req.DetourToleranceKm == 0 {
		req.DetourToleranceKm = 5
	}

	res, err := h.bookings.CreateRequest(c.Request.Context(), booking.CreateRequestCommand{
		RiderID:           types.ID(req.RiderID),
		Pickup:            types.Point{Lat: req.PickupLat, Lng: req.PickupLng},
		Drop:              types.Point{Lat: req.DropLat, Lng: req.DropLng},
		Seats:             req.SeatsRequired,
		Luggage:           req.LuggageRequired,
		DetourToleranceKm: req.DetourToleranceKm,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}

	switch res.Outcome {
	case booking.OutcomeMatched:
		c.JSON(http.StatusCreated, gin.H{
			"message":    "trip booked successfully",
			"booking_id": res.BookingID,
			"trip_id":    res.TripID,
			"price":      res.Price,
			"detour_km":  res.DetourKm,
		})
	case booking.OutcomeNoMatch:
		c.JSON(http.StatusOK, gin.H{"message": "no trip found within detour tolerance"})
	case booking.OutcomeConflict:
		c.JSON(http.StatusConflict, gin.H{"message": "trip no longer available"})
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}

func (h *BookingHandler) Cancel(c *gin.Context) {
	err := h.bookings.Cancel(c.Request.Context(), types.ID(c.Param("id")))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "booking cancelled successfully"})
}
