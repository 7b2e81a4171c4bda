// Package queue defines message payloads exchanged over the message broker.
package queue

// DefaultQueueName is the durable queue reservation events are routed to.
const DefaultQueueName = "reservation.events"

// EventType names a reservation lifecycle event.
type EventType string

const (
    EventReservationCreated       EventType = "reservation.created"
    EventReservationUpdated       EventType = "reservation.updated"
    EventReservationCancelled     EventType = "reservation.cancelled"
    EventReservationStatusChanged EventType = "reservation.status_changed"
    EventReservationDeleted       EventType = "reservation.deleted"
)

// ReservationEvent is published whenever a reservation changes.  It
// carries enough information for downstream consumers to log, notify,
// or trigger analytics without querying the reservation database.
type ReservationEvent struct {
    EventID         string    `json:"event_id"`
    Type            EventType `json:"type"`
    ReservationID   uint64    `json:"reservation_id"`
    RestaurantID    uint64    `json:"restaurant_id"`
    UserID          uint64    `json:"user_id"`
    Status          string    `json:"status"`
    PreviousStatus  string    `json:"previous_status,omitempty"`
    ReservationTime string    `json:"reservation_time"`
    Guests          int       `json:"guests"`
    CustomerName    string    `json:"customer_name"`
    OccurredAt      string    `json:"occurred_at"`
}
