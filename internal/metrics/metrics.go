// Package metrics declares the Prometheus collectors shared by both
// services and exposes the scrape handler.
package metrics

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// AvailabilityChecks counts availability decisions by result
	// (available, unavailable, not_found, error).
	AvailabilityChecks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "booking_availability_checks_total",
		Help: "Availability checks by result.",
	}, []string{"result"})

	// RestaurantClientCalls counts outbound calls to the restaurant
	// service by endpoint and outcome (ok, not_found, retry, error).
	RestaurantClientCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "booking_restaurant_client_calls_total",
		Help: "Calls from the reservation service to the restaurant service.",
	}, []string{"endpoint", "outcome"})

	// ReservationEvents counts reservation lifecycle events.
	ReservationEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "booking_reservation_events_total",
		Help: "Reservation lifecycle events by type.",
	}, []string{"event"})

	// ReviewsCreated counts accepted reviews.
	ReviewsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "booking_reviews_created_total",
		Help: "Reviews accepted by the restaurant service.",
	})
)

// Handler serves the default registry for GET /metrics.
func Handler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.Handler())
}
