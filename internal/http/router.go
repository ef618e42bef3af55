// Package http registers the API routes and delegates to module services.
package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"skypool/internal/http/handlers"
	"skypool/internal/http/middleware"
	"skypool/internal/modules/booking"
	"skypool/internal/modules/trip"
)

func NewRouter(tripSvc *trip.Service, bookingSvc *booking.Service, log zerolog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Logging(log), middleware.Recovery(log))

	tripHandler := handlers.NewTripHandler(tripSvc)
	bookingHandler := handlers.NewBookingHandler(bookingSvc)

	api := r.Group("/api")
	api.POST("/trips", tripHandler.Create)
	api.GET("/trips/active", tripHandler.ListActive)
	api.GET("/trips/:id", tripHandler.Get)

	api.POST("/requests", bookingHandler.CreateRequest)
	api.POST("/bookings/:id/cancel", bookingHandler.Cancel)

	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	return r
}
