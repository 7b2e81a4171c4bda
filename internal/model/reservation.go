package model

import (
    "strings"
    "time"
)

// ReservationStatus is the lifecycle state of a reservation.
type ReservationStatus string

const (
    StatusPending   ReservationStatus = "PENDING"
    StatusConfirmed ReservationStatus = "CONFIRMED"
    StatusCancelled ReservationStatus = "CANCELLED"
    StatusCompleted ReservationStatus = "COMPLETED"
    StatusNoShow    ReservationStatus = "NO_SHOW"
)

// Guest count bounds for a reservation.
const (
    MinGuests = 1
    MaxGuests = 20
)

// transitions lists the states reachable from each state.  Terminal
// states have no entry.
var transitions = map[ReservationStatus][]ReservationStatus{
    StatusPending:   {StatusConfirmed, StatusCancelled},
    StatusConfirmed: {StatusCancelled, StatusCompleted, StatusNoShow},
}

// ParseReservationStatus normalises s and reports whether it names a
// known status.
func ParseReservationStatus(s string) (ReservationStatus, bool) {
    st := ReservationStatus(strings.ToUpper(strings.TrimSpace(s)))
    switch st {
    case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted, StatusNoShow:
        return st, true
    }
    return "", false
}

// CanTransitionTo reports whether a reservation in status s may move to
// next.  Staying in the same status is always allowed.
func (s ReservationStatus) CanTransitionTo(next ReservationStatus) bool {
    if s == next {
        return true
    }
    for _, allowed := range transitions[s] {
        if allowed == next {
            return true
        }
    }
    return false
}

// Terminal reports whether no further transitions are possible.
func (s ReservationStatus) Terminal() bool { return len(transitions[s]) == 0 }

// Reservation records a table booking at a restaurant.  The customer
// contact fields are a snapshot taken at creation time and do not follow
// later edits of the User row.  RestaurantID points into the restaurant
// service and is only validated when the reservation is created.
//
// Fields:
//  ID              – primary key identifier.
//  RestaurantID    – restaurant being booked (owned by the restaurant service).
//  UserID          – user who made the reservation (users.id).
//  CustomerName    – contact name snapshot.
//  CustomerEmail   – contact email snapshot.
//  CustomerPhone   – contact phone snapshot (nullable).
//  DateTime        – requested date and time.
//  Guests          – number of guests, in [MinGuests, MaxGuests].
//  Status          – lifecycle state.
//  SpecialRequests – free-text requests (nullable).
//  CreatedAt       – creation timestamp.
//  UpdatedAt       – last update timestamp.
type Reservation struct {
    ID              uint64            // reservations.id
    RestaurantID    uint64            // reservations.restaurant_id
    UserID          uint64            // reservations.user_id
    CustomerName    string            // reservations.customer_name
    CustomerEmail   string            // reservations.customer_email
    CustomerPhone   *string           // reservations.customer_phone (nullable)
    DateTime        time.Time         // reservations.reservation_time
    Guests          int               // reservations.guests
    Status          ReservationStatus // reservations.status
    SpecialRequests *string           // reservations.special_requests (nullable)
    CreatedAt       time.Time         // reservations.created_at
    UpdatedAt       time.Time         // reservations.updated_at
}

// CanBeCancelled reports whether the reservation is still active.
func (r *Reservation) CanBeCancelled() bool {
    return r.Status == StatusPending || r.Status == StatusConfirmed
}
