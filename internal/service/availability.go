package service

import (
	"context"
	"errors"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/labstack/gommon/log"

	"github.com/iliyamo/restaurant-booking/internal/metrics"
	"github.com/iliyamo/restaurant-booking/internal/model"
)

// ErrUnknownRestaurant is returned by RestaurantDirectory implementations
// when the requested restaurant does not exist.
var ErrUnknownRestaurant = errors.New("restaurant does not exist")

// RestaurantInfo is the subset of a restaurant the availability check
// and the reservation service need.
type RestaurantInfo struct {
	ID           uint64
	Name         string
	Capacity     *int
	OpenTime     *string
	CloseTime    *string
	AveragePrice *float64
}

// RestaurantDirectory answers existence and capacity questions about
// restaurants.  The restaurant service satisfies it in-process; the
// reservation service satisfies it over HTTP.
type RestaurantDirectory interface {
	Exists(ctx context.Context, restaurantID uint64) (bool, error)
	// GetCapacityAndHours returns ErrUnknownRestaurant when no such
	// restaurant exists.
	GetCapacityAndHours(ctx context.Context, restaurantID uint64) (RestaurantInfo, error)
}

// AvailabilityRequest is a raw availability query as received over HTTP.
type AvailabilityRequest struct {
	RestaurantID uint64
	DateTime     string
	Guests       int
}

// Availability is the outcome of a check.  Restaurant details are only
// filled in when Available is true.
type Availability struct {
	Available      bool
	Message        string
	RestaurantName string
	Capacity       *int
	PriceRange     *float64
}

// Outcome messages.
const (
	MsgAvailable            = "available"
	MsgInsufficientCapacity = "insufficient capacity"
	MsgNotInFuture          = "not in the future"
	MsgNoAvailability       = "no availability for this date"
	MsgClosed               = "restaurant closed at requested time"
)

// Defaults for AvailabilityOptions.
const (
	DefaultClosingHour        = 22
	DefaultWeekendProbability = 0.7
)

// AvailabilityOptions tunes an AvailabilityChecker.  ClosingHour and
// WeekendProbability are taken as given, so 0 closes every hour or every
// weekend; start from DefaultAvailabilityOptions to get the usual values.
// Nil fields select the defaults noted on them.
type AvailabilityOptions struct {
	Location           *time.Location   // time zone of request date-times; time.Local
	ClosingHour        int              // first hour that is never bookable
	WeekendProbability float64          // chance a weekend slot is free
	CheckOpeningHours  bool             // reject times outside the opening window
	Now                func() time.Time // clock; time.Now
	Rand               func() float64   // uniform [0,1) source; seeded PCG
}

// DefaultAvailabilityOptions returns options with the default closing hour
// and weekend probability.
func DefaultAvailabilityOptions() AvailabilityOptions {
	return AvailabilityOptions{ClosingHour: DefaultClosingHour, WeekendProbability: DefaultWeekendProbability}
}

// AvailabilityChecker decides whether a restaurant can take a booking.
type AvailabilityChecker struct {
	dir  RestaurantDirectory
	opts AvailabilityOptions
}

// NewAvailabilityChecker returns a checker backed by dir.
func NewAvailabilityChecker(dir RestaurantDirectory, opts AvailabilityOptions) *AvailabilityChecker {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Rand == nil {
		opts.Rand = lockedRand(uint64(time.Now().UnixNano()))
	}
	return &AvailabilityChecker{dir: dir, opts: opts}
}

// lockedRand returns a goroutine-safe uniform source seeded with seed.
func lockedRand(seed uint64) func() float64 {
	var mu sync.Mutex
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	return func() float64 {
		mu.Lock()
		defer mu.Unlock()
		return r.Float64()
	}
}

// SeededRand returns a goroutine-safe uniform source with a fixed seed.
func SeededRand(seed uint64) func() float64 { return lockedRand(seed) }

// Location returns the time zone request date-times are interpreted in.
func (c *AvailabilityChecker) Location() *time.Location { return c.opts.Location }

// Check validates req and evaluates availability.  Malformed input and
// unknown restaurants are errors; every other negative answer is an
// Availability with Available=false.
func (c *AvailabilityChecker) Check(ctx context.Context, req AvailabilityRequest) (Availability, error) {
	if req.Guests < model.MinGuests {
		return Availability{}, validationf("guest count must be at least %d", model.MinGuests)
	}
	at, err := ParseDateTime(req.DateTime, c.opts.Location)
	if err != nil {
		return Availability{}, validationf("invalid date-time %q, expected YYYY-MM-DDTHH:mm[:ss]", req.DateTime)
	}
	return c.CheckAt(ctx, req.RestaurantID, at, req.Guests)
}

// CheckAt is Check for an already parsed date-time.
func (c *AvailabilityChecker) CheckAt(ctx context.Context, restaurantID uint64, at time.Time, guests int) (Availability, error) {
	if guests < model.MinGuests {
		return Availability{}, validationf("guest count must be at least %d", model.MinGuests)
	}
	info, err := c.dir.GetCapacityAndHours(ctx, restaurantID)
	if err != nil {
		if errors.Is(err, ErrUnknownRestaurant) {
			metrics.AvailabilityChecks.WithLabelValues("not_found").Inc()
			return Availability{}, notFoundf("restaurant %d not found", restaurantID)
		}
		log.Errorf("availability: restaurant lookup %d failed: %v", restaurantID, err)
		metrics.AvailabilityChecks.WithLabelValues("error").Inc()
		return Availability{}, collaborator(err, "could not load restaurant")
	}

	out := c.evaluate(info, at.In(c.opts.Location), guests)
	if out.Available {
		out.RestaurantName = info.Name
		out.Capacity = info.Capacity
		out.PriceRange = info.AveragePrice
		metrics.AvailabilityChecks.WithLabelValues("available").Inc()
	} else {
		metrics.AvailabilityChecks.WithLabelValues("unavailable").Inc()
	}
	return out, nil
}

func (c *AvailabilityChecker) evaluate(info RestaurantInfo, at time.Time, guests int) Availability {
	if info.Capacity != nil && guests > *info.Capacity {
		return Availability{Message: MsgInsufficientCapacity}
	}
	if !at.After(c.opts.Now()) {
		return Availability{Message: MsgNotInFuture}
	}
	if c.opts.CheckOpeningHours && !isOpen(info.OpenTime, info.CloseTime, at) {
		return Availability{Message: MsgClosed}
	}
	if at.Hour() >= c.opts.ClosingHour {
		return Availability{Message: MsgNoAvailability}
	}
	switch at.Weekday() {
	case time.Saturday, time.Sunday:
		if c.opts.Rand() >= c.opts.WeekendProbability {
			return Availability{Message: MsgNoAvailability}
		}
	}
	return Availability{Available: true, Message: MsgAvailable}
}

// DateTimeLayout is the wire format of reservation date-times: a local
// date and time without zone, interpreted in the service time zone.
const DateTimeLayout = "2006-01-02T15:04:05"

var dateTimeLayouts = []string{DateTimeLayout, "2006-01-02T15:04"}

// ParseDateTime accepts DateTimeLayout, the same layout without seconds
// or a full RFC 3339 timestamp.  Zone-less values are read in loc.
func ParseDateTime(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.In(loc), nil
}

// FormatDateTime renders t in DateTimeLayout within loc.
func FormatDateTime(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DateTimeLayout)
}
