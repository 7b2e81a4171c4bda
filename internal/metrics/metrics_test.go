package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandlerExposesCollectors(t *testing.T) {
	AvailabilityChecks.WithLabelValues("available").Inc()
	ReservationEvents.WithLabelValues("reservation.created").Inc()

	e := echo.New()
	e.GET("/metrics", Handler())
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `booking_availability_checks_total{result="available"}`)
	assert.Contains(t, body, `booking_reservation_events_total{event="reservation.created"}`)
}
