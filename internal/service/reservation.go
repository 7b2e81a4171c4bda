package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/gommon/log"

	"github.com/iliyamo/restaurant-booking/internal/metrics"
	"github.com/iliyamo/restaurant-booking/internal/model"
	"github.com/iliyamo/restaurant-booking/internal/queue"
	"github.com/iliyamo/restaurant-booking/internal/repository"
)

// MinLeadTime is how far ahead of now a reservation must be placed.
const MinLeadTime = time.Hour

// ReservationService drives the reservation lifecycle: creation behind
// the availability check, edits, cancellation and guarded status changes.
type ReservationService struct {
	reservations ReservationStore
	users        UserStore
	directory    RestaurantDirectory
	checker      *AvailabilityChecker
	events       EventPublisher
	now          func() time.Time
}

// NewReservationService wires a ReservationService.  events may be nil
// to disable publishing; a nil clock selects time.Now.
func NewReservationService(reservations ReservationStore, users UserStore, directory RestaurantDirectory,
	checker *AvailabilityChecker, events EventPublisher, now func() time.Time) *ReservationService {
	if now == nil {
		now = time.Now
	}
	return &ReservationService{
		reservations: reservations,
		users:        users,
		directory:    directory,
		checker:      checker,
		events:       events,
		now:          now,
	}
}

// ReservationRequest carries the fields of a new or edited reservation.
// RestaurantID and UserID are ignored on update.
type ReservationRequest struct {
	RestaurantID    uint64
	UserID          uint64
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   *string
	DateTime        time.Time
	Guests          int
	SpecialRequests *string
}

func (s *ReservationService) validate(req ReservationRequest) error {
	if req.Guests < model.MinGuests || req.Guests > model.MaxGuests {
		return validationf("guest count must be between %d and %d", model.MinGuests, model.MaxGuests)
	}
	if req.DateTime.Before(s.now().Add(MinLeadTime)) {
		return validationf("reservations must be made at least %s in advance", MinLeadTime)
	}
	if strings.TrimSpace(req.CustomerName) == "" {
		return validationf("customer name is required")
	}
	if !validEmail(strings.TrimSpace(req.CustomerEmail)) {
		return validationf("a valid customer email is required")
	}
	return nil
}

func reservationNotFound(err error, id uint64) error {
	if errors.Is(err, repository.ErrReservationNotFound) {
		return notFoundf("reservation %d not found", id)
	}
	return err
}

// Create validates req, verifies the user and restaurant, runs the
// availability check and stores a CONFIRMED reservation.  Nothing is
// written when any step fails.
func (s *ReservationService) Create(ctx context.Context, req ReservationRequest) (*model.Reservation, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}
	if _, err := s.users.GetByID(ctx, req.UserID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, notFoundf("user %d not found", req.UserID)
		}
		return nil, err
	}

	exists, err := s.directory.Exists(ctx, req.RestaurantID)
	if err != nil {
		log.Errorf("reservations: restaurant %d existence check failed: %v", req.RestaurantID, err)
		return nil, collaborator(err, "could not verify restaurant")
	}
	if !exists {
		return nil, notFoundf("restaurant %d not found", req.RestaurantID)
	}

	avail, err := s.checker.CheckAt(ctx, req.RestaurantID, req.DateTime, req.Guests)
	if err != nil {
		return nil, err
	}
	if !avail.Available {
		return nil, businessf("restaurant not available: %s", avail.Message)
	}

	res := &model.Reservation{
		RestaurantID:    req.RestaurantID,
		UserID:          req.UserID,
		CustomerName:    strings.TrimSpace(req.CustomerName),
		CustomerEmail:   strings.TrimSpace(req.CustomerEmail),
		CustomerPhone:   req.CustomerPhone,
		DateTime:        req.DateTime,
		Guests:          req.Guests,
		Status:          model.StatusConfirmed,
		SpecialRequests: req.SpecialRequests,
	}
	if err := s.reservations.Create(ctx, res); err != nil {
		return nil, err
	}
	s.publish(ctx, queue.EventReservationCreated, res, "")
	return res, nil
}

// Get returns a reservation by ID.
func (s *ReservationService) Get(ctx context.Context, id uint64) (*model.Reservation, error) {
	res, err := s.reservations.GetByID(ctx, id)
	if err != nil {
		return nil, reservationNotFound(err, id)
	}
	return res, nil
}

// List returns all reservations.
func (s *ReservationService) List(ctx context.Context) ([]model.Reservation, error) {
	return s.reservations.List(ctx)
}

// ListByUser returns all reservations of a user.
func (s *ReservationService) ListByUser(ctx context.Context, userID uint64) ([]model.Reservation, error) {
	return s.reservations.ListByUser(ctx, userID)
}

// Upcoming returns a user's future reservations, soonest first.
func (s *ReservationService) Upcoming(ctx context.Context, userID uint64) ([]model.Reservation, error) {
	return s.reservations.FindUpcomingByUser(ctx, userID, s.now())
}

// ListByRestaurant returns all reservations at a restaurant.
func (s *ReservationService) ListByRestaurant(ctx context.Context, restaurantID uint64) ([]model.Reservation, error) {
	return s.reservations.ListByRestaurant(ctx, restaurantID)
}

// ByDateRange returns a restaurant's reservations between start and end
// inclusive.
func (s *ReservationService) ByDateRange(ctx context.Context, restaurantID uint64, start, end time.Time) ([]model.Reservation, error) {
	if end.Before(start) {
		return nil, validationf("end must not be before start")
	}
	return s.reservations.FindByDateRange(ctx, restaurantID, start, end)
}

// Update edits the contact snapshot, time, guests and special requests of
// an active reservation.  The restaurant is not re-validated.
func (s *ReservationService) Update(ctx context.Context, id uint64, req ReservationRequest) (*model.Reservation, error) {
	res, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.validate(req); err != nil {
		return nil, err
	}
	if !res.CanBeCancelled() {
		return nil, businessf("reservation %d is %s and can no longer be modified", id, res.Status)
	}
	res.CustomerName = strings.TrimSpace(req.CustomerName)
	res.CustomerEmail = strings.TrimSpace(req.CustomerEmail)
	res.CustomerPhone = req.CustomerPhone
	res.DateTime = req.DateTime
	res.Guests = req.Guests
	res.SpecialRequests = req.SpecialRequests
	if err := s.reservations.Update(ctx, res); err != nil {
		return nil, reservationNotFound(err, id)
	}
	s.publish(ctx, queue.EventReservationUpdated, res, "")
	return res, nil
}

// Cancel moves an active reservation to CANCELLED.
func (s *ReservationService) Cancel(ctx context.Context, id uint64) (*model.Reservation, error) {
	res, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !res.CanBeCancelled() {
		return nil, businessf("reservation %d cannot be cancelled from status %s", id, res.Status)
	}
	prev := res.Status
	if err := s.reservations.UpdateStatus(ctx, id, model.StatusCancelled); err != nil {
		return nil, reservationNotFound(err, id)
	}
	res.Status = model.StatusCancelled
	s.publish(ctx, queue.EventReservationCancelled, res, prev)
	return res, nil
}

// ChangeStatus sets a reservation's status, enforcing the transition
// table of model.ReservationStatus.  Re-applying the current status is a
// no-op.
func (s *ReservationService) ChangeStatus(ctx context.Context, id uint64, raw string) (*model.Reservation, error) {
	next, ok := model.ParseReservationStatus(raw)
	if !ok {
		return nil, validationf("unknown reservation status %q", raw)
	}
	res, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if res.Status == next {
		return res, nil
	}
	if !res.Status.CanTransitionTo(next) {
		return nil, businessf("reservation %d cannot move from %s to %s", id, res.Status, next)
	}
	prev := res.Status
	if err := s.reservations.UpdateStatus(ctx, id, next); err != nil {
		return nil, reservationNotFound(err, id)
	}
	res.Status = next
	ev := queue.EventReservationStatusChanged
	if next == model.StatusCancelled {
		ev = queue.EventReservationCancelled
	}
	s.publish(ctx, ev, res, prev)
	return res, nil
}

// Delete removes a reservation outright.
func (s *ReservationService) Delete(ctx context.Context, id uint64) error {
	res, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.reservations.Delete(ctx, id); err != nil {
		return reservationNotFound(err, id)
	}
	s.publish(ctx, queue.EventReservationDeleted, res, "")
	return nil
}

// publish emits a lifecycle event.  Broker failures are logged only.
func (s *ReservationService) publish(ctx context.Context, typ queue.EventType, res *model.Reservation, prev model.ReservationStatus) {
	metrics.ReservationEvents.WithLabelValues(string(typ)).Inc()
	if s.events == nil {
		return
	}
	ev := queue.ReservationEvent{
		EventID:         uuid.NewString(),
		Type:            typ,
		ReservationID:   res.ID,
		RestaurantID:    res.RestaurantID,
		UserID:          res.UserID,
		Status:          string(res.Status),
		PreviousStatus:  string(prev),
		ReservationTime: FormatDateTime(res.DateTime, s.checker.Location()),
		Guests:          res.Guests,
		CustomerName:    res.CustomerName,
		OccurredAt:      s.now().UTC().Format(time.RFC3339),
	}
	if err := s.events.Publish(ctx, ev); err != nil {
		log.Warnf("reservations: publish %s for reservation %d failed: %v", typ, res.ID, err)
	}
}
