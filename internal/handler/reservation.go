package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-booking/internal/model"
	"github.com/iliyamo/restaurant-booking/internal/service"
)

// ReservationHandler serves /api/reservations on the reservation service.
type ReservationHandler struct {
	Reservations *service.ReservationService
	Availability *service.AvailabilityChecker
}

func NewReservationHandler(rs *service.ReservationService, ac *service.AvailabilityChecker) *ReservationHandler {
	if rs == nil || ac == nil {
		panic("nil service passed to NewReservationHandler")
	}
	return &ReservationHandler{Reservations: rs, Availability: ac}
}

func (h *ReservationHandler) toDTO(r model.Reservation) ReservationDTO {
	return ReservationDTO{
		ID:              r.ID,
		RestaurantID:    r.RestaurantID,
		UserID:          r.UserID,
		CustomerName:    r.CustomerName,
		CustomerEmail:   r.CustomerEmail,
		CustomerPhone:   r.CustomerPhone,
		DateTime:        service.FormatDateTime(r.DateTime, h.Availability.Location()),
		Guests:          r.Guests,
		Status:          string(r.Status),
		SpecialRequests: r.SpecialRequests,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

func (h *ReservationHandler) writeOne(c echo.Context, status int, r *model.Reservation, err error) error {
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(status, h.toDTO(*r))
}

func (h *ReservationHandler) writeMany(c echo.Context, rs []model.Reservation, err error) error {
	if err != nil {
		return writeError(c, err)
	}
	out := make([]ReservationDTO, 0, len(rs))
	for _, r := range rs {
		out = append(out, h.toDTO(r))
	}
	return c.JSON(http.StatusOK, out)
}

// request binds and converts a reservation body.  A bad body or
// date-time produces the 400 response itself and reports false.
func (h *ReservationHandler) request(c echo.Context) (service.ReservationRequest, bool, error) {
	var req ReservationRequest
	if err := c.Bind(&req); err != nil {
		return service.ReservationRequest{}, false, badRequest(c, "invalid JSON body")
	}
	at, err := service.ParseDateTime(req.DateTime, h.Availability.Location())
	if err != nil {
		return service.ReservationRequest{}, false, badRequest(c, "date_time must be YYYY-MM-DDTHH:mm[:ss]")
	}
	return service.ReservationRequest{
		RestaurantID:    req.RestaurantID,
		UserID:          req.UserID,
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		CustomerPhone:   req.CustomerPhone,
		DateTime:        at,
		Guests:          req.Guests,
		SpecialRequests: req.SpecialRequests,
	}, true, nil
}

// Create handles POST /api/reservations.
func (h *ReservationHandler) Create(c echo.Context) error {
	req, ok, err := h.request(c)
	if !ok {
		return err
	}
	r, err := h.Reservations.Create(c.Request().Context(), req)
	return h.writeOne(c, http.StatusCreated, r, err)
}

// List handles GET /api/reservations.
func (h *ReservationHandler) List(c echo.Context) error {
	rs, err := h.Reservations.List(c.Request().Context())
	return h.writeMany(c, rs, err)
}

// Get handles GET /api/reservations/:id.
func (h *ReservationHandler) Get(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid reservation id")
	}
	r, err := h.Reservations.Get(c.Request().Context(), id)
	return h.writeOne(c, http.StatusOK, r, err)
}

// Update handles PUT /api/reservations/:id.
func (h *ReservationHandler) Update(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid reservation id")
	}
	req, ok, err := h.request(c)
	if !ok {
		return err
	}
	r, err := h.Reservations.Update(c.Request().Context(), id, req)
	return h.writeOne(c, http.StatusOK, r, err)
}

// Cancel handles POST /api/reservations/:id/cancel.
func (h *ReservationHandler) Cancel(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid reservation id")
	}
	r, err := h.Reservations.Cancel(c.Request().Context(), id)
	return h.writeOne(c, http.StatusOK, r, err)
}

// ChangeStatus handles PATCH /api/reservations/:id/status with
// {"status": "..."} or ?status=.
func (h *ReservationHandler) ChangeStatus(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid reservation id")
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid JSON body")
	}
	status := strings.TrimSpace(body.Status)
	if status == "" {
		status = c.QueryParam("status")
	}
	r, err := h.Reservations.ChangeStatus(c.Request().Context(), id, status)
	return h.writeOne(c, http.StatusOK, r, err)
}

// Delete handles DELETE /api/reservations/:id.
func (h *ReservationHandler) Delete(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid reservation id")
	}
	if err := h.Reservations.Delete(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ListByUser handles GET /api/reservations/user/:id.
func (h *ReservationHandler) ListByUser(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid user id")
	}
	rs, err := h.Reservations.ListByUser(c.Request().Context(), id)
	return h.writeMany(c, rs, err)
}

// Upcoming handles GET /api/reservations/user/:id/upcoming.
func (h *ReservationHandler) Upcoming(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid user id")
	}
	rs, err := h.Reservations.Upcoming(c.Request().Context(), id)
	return h.writeMany(c, rs, err)
}

// ListByRestaurant handles GET /api/reservations/restaurant/:id.
func (h *ReservationHandler) ListByRestaurant(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid restaurant id")
	}
	rs, err := h.Reservations.ListByRestaurant(c.Request().Context(), id)
	return h.writeMany(c, rs, err)
}

// ByDateRange handles GET /api/reservations/restaurant/:id/range?start=&end=.
func (h *ReservationHandler) ByDateRange(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid restaurant id")
	}
	loc := h.Availability.Location()
	start, err := service.ParseDateTime(c.QueryParam("start"), loc)
	if err != nil {
		return badRequest(c, "start must be YYYY-MM-DDTHH:mm[:ss]")
	}
	end, err := service.ParseDateTime(c.QueryParam("end"), loc)
	if err != nil {
		return badRequest(c, "end must be YYYY-MM-DDTHH:mm[:ss]")
	}
	rs, err := h.Reservations.ByDateRange(c.Request().Context(), id, start, end)
	return h.writeMany(c, rs, err)
}

// CheckAvailability handles
// GET /api/reservations/availability?restaurant_id=&date_time=&guests=,
// asking the restaurant service over HTTP.
func (h *ReservationHandler) CheckAvailability(c echo.Context) error {
	rid, err := queryInt(c, "restaurant_id")
	if err != nil || rid == nil || *rid <= 0 {
		return badRequest(c, "restaurant_id is required")
	}
	guests, err := queryInt(c, "guests")
	if err != nil || guests == nil {
		return badRequest(c, "guests is required")
	}
	a, err := h.Availability.Check(c.Request().Context(), service.AvailabilityRequest{
		RestaurantID: uint64(*rid),
		DateTime:     c.QueryParam("date_time"),
		Guests:       *guests,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toAvailabilityDTO(a))
}
