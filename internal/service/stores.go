package service

import (
	"context"
	"time"

	"github.com/iliyamo/restaurant-booking/internal/model"
	"github.com/iliyamo/restaurant-booking/internal/queue"
)

// RestaurantStore is the persistence the restaurant service needs.  Not
// found lookups return repository.ErrRestaurantNotFound.
type RestaurantStore interface {
	List(ctx context.Context) ([]model.Restaurant, error)
	GetByID(ctx context.Context, id uint64) (*model.Restaurant, error)
	Exists(ctx context.Context, id uint64) (bool, error)
	Create(ctx context.Context, r *model.Restaurant) error
	Update(ctx context.Context, r *model.Restaurant) error
	Delete(ctx context.Context, id uint64) error
	FindWithinRadius(ctx context.Context, lat, lon, radiusKm float64) ([]model.Restaurant, error)
	FindTopByPopularity(ctx context.Context, n int) ([]model.Restaurant, error)
	Cuisines(ctx context.Context) ([]string, error)
}

// ReviewStore persists reviews.  CreateAndRecompute stores a review and
// rewrites its restaurant's rating and review count atomically; a missing
// restaurant yields repository.ErrRestaurantNotFound.
type ReviewStore interface {
	CreateAndRecompute(ctx context.Context, r *model.Review) (avg float64, count int, err error)
	ListByRestaurant(ctx context.Context, restaurantID uint64, limit int) ([]model.Review, error)
}

// UserStore persists users.  Lookups return repository.ErrUserNotFound;
// inserts report duplicates with repository.ErrEmailExists or
// repository.ErrUserIDExists.
type UserStore interface {
	Create(ctx context.Context, u *model.User) error
	GetByID(ctx context.Context, id uint64) (*model.User, error)
	GetByExternalID(ctx context.Context, userID string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	Update(ctx context.Context, u *model.User) error
	Delete(ctx context.Context, id uint64) error
}

// ReservationStore persists reservations.  Lookups return
// repository.ErrReservationNotFound.
type ReservationStore interface {
	Create(ctx context.Context, r *model.Reservation) error
	GetByID(ctx context.Context, id uint64) (*model.Reservation, error)
	List(ctx context.Context) ([]model.Reservation, error)
	ListByUser(ctx context.Context, userID uint64) ([]model.Reservation, error)
	ListByRestaurant(ctx context.Context, restaurantID uint64) ([]model.Reservation, error)
	FindUpcomingByUser(ctx context.Context, userID uint64, now time.Time) ([]model.Reservation, error)
	FindByDateRange(ctx context.Context, restaurantID uint64, start, end time.Time) ([]model.Reservation, error)
	Update(ctx context.Context, r *model.Reservation) error
	UpdateStatus(ctx context.Context, id uint64, status model.ReservationStatus) error
	Delete(ctx context.Context, id uint64) error
}

// EventPublisher delivers reservation events to the message broker.
type EventPublisher interface {
	Publish(ctx context.Context, ev queue.ReservationEvent) error
}
