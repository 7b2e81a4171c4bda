package service

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/iliyamo/restaurant-booking/internal/model"
	"github.com/iliyamo/restaurant-booking/internal/queue"
	"github.com/iliyamo/restaurant-booking/internal/repository"
)

// memRestaurants is an in-memory RestaurantStore.
type memRestaurants struct {
	mu   sync.Mutex
	rows map[uint64]model.Restaurant
	next uint64
}

func newMemRestaurants(rs ...model.Restaurant) *memRestaurants {
	m := &memRestaurants{rows: map[uint64]model.Restaurant{}}
	for _, r := range rs {
		if r.ID == 0 {
			m.next++
			r.ID = m.next
		}
		m.next = max(m.next, r.ID)
		m.rows[r.ID] = r
	}
	return m
}

func (m *memRestaurants) sorted() []model.Restaurant {
	out := make([]model.Restaurant, 0, len(m.rows))
	for _, r := range m.rows {
		out = append(out, r)
	}
	slices.SortFunc(out, func(a, b model.Restaurant) int { return cmp.Compare(a.ID, b.ID) })
	return out
}

func (m *memRestaurants) List(context.Context) ([]model.Restaurant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sorted(), nil
}

func (m *memRestaurants) GetByID(_ context.Context, id uint64) (*model.Restaurant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rows[id]
	if !ok {
		return nil, repository.ErrRestaurantNotFound
	}
	return &r, nil
}

func (m *memRestaurants) Exists(_ context.Context, id uint64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.rows[id]
	return ok, nil
}

func (m *memRestaurants) Create(_ context.Context, r *model.Restaurant) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	r.ID = m.next
	m.rows[r.ID] = *r
	return nil
}

func (m *memRestaurants) Update(_ context.Context, r *model.Restaurant) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[r.ID]; !ok {
		return repository.ErrRestaurantNotFound
	}
	m.rows[r.ID] = *r
	return nil
}

func (m *memRestaurants) Delete(_ context.Context, id uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return repository.ErrRestaurantNotFound
	}
	delete(m.rows, id)
	return nil
}

func (m *memRestaurants) FindWithinRadius(_ context.Context, lat, lon, radiusKm float64) ([]model.Restaurant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Restaurant
	for _, r := range m.sorted() {
		if Haversine(lat, lon, r.Latitude, r.Longitude) <= radiusKm {
			out = append(out, r)
		}
	}
	slices.SortStableFunc(out, func(a, b model.Restaurant) int {
		return cmp.Compare(Haversine(lat, lon, a.Latitude, a.Longitude), Haversine(lat, lon, b.Latitude, b.Longitude))
	})
	return out, nil
}

func (m *memRestaurants) FindTopByPopularity(_ context.Context, n int) ([]model.Restaurant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.sorted()
	slices.SortStableFunc(out, func(a, b model.Restaurant) int { return cmp.Compare(b.ReviewCount, a.ReviewCount) })
	return out[:min(n, len(out))], nil
}

func (m *memRestaurants) Cuisines(context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, r := range m.rows {
		if !slices.Contains(out, r.CuisineType) {
			out = append(out, r.CuisineType)
		}
	}
	slices.Sort(out)
	return out, nil
}

// memReviews is an in-memory ReviewStore.  It writes the recomputed
// rating into restaurants, and stores nothing when err is set.
type memReviews struct {
	restaurants *memRestaurants
	rows        []model.Review
	at          time.Time
	err         error
}

func newMemReviews(restaurants *memRestaurants) *memReviews {
	return &memReviews{restaurants: restaurants}
}

func (m *memReviews) CreateAndRecompute(_ context.Context, rv *model.Review) (float64, int, error) {
	if m.err != nil {
		return 0, 0, m.err
	}
	m.restaurants.mu.Lock()
	defer m.restaurants.mu.Unlock()
	r, ok := m.restaurants.rows[rv.RestaurantID]
	if !ok {
		return 0, 0, repository.ErrRestaurantNotFound
	}
	sum, n := rv.Score, 1
	for _, old := range m.rows {
		if old.RestaurantID == rv.RestaurantID {
			sum += old.Score
			n++
		}
	}
	rv.ID = uint64(len(m.rows) + 1)
	m.at = m.at.Add(time.Minute)
	rv.CreatedAt = m.at
	m.rows = append(m.rows, *rv)
	r.Rating, r.ReviewCount = float64(sum)/float64(n), n
	m.restaurants.rows[r.ID] = r
	return r.Rating, n, nil
}

func (m *memReviews) ListByRestaurant(_ context.Context, restaurantID uint64, limit int) ([]model.Review, error) {
	var out []model.Review
	for i := len(m.rows) - 1; i >= 0; i-- {
		if m.rows[i].RestaurantID == restaurantID {
			out = append(out, m.rows[i])
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// memUsers is an in-memory UserStore.
type memUsers struct {
	rows map[uint64]model.User
	next uint64
}

func newMemUsers(us ...model.User) *memUsers {
	m := &memUsers{rows: map[uint64]model.User{}}
	for _, u := range us {
		m.next++
		u.ID = m.next
		m.rows[u.ID] = u
	}
	return m
}

func (m *memUsers) Create(_ context.Context, u *model.User) error {
	for _, e := range m.rows {
		if strings.EqualFold(e.Email, u.Email) {
			return repository.ErrEmailExists
		}
		if e.UserID == u.UserID {
			return repository.ErrUserIDExists
		}
	}
	m.next++
	u.ID = m.next
	u.Email = strings.ToLower(u.Email)
	m.rows[u.ID] = *u
	return nil
}

func (m *memUsers) find(match func(model.User) bool) (*model.User, error) {
	for _, u := range m.rows {
		if match(u) {
			return &u, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (m *memUsers) GetByID(_ context.Context, id uint64) (*model.User, error) {
	return m.find(func(u model.User) bool { return u.ID == id })
}

func (m *memUsers) GetByExternalID(_ context.Context, userID string) (*model.User, error) {
	return m.find(func(u model.User) bool { return u.UserID == userID })
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*model.User, error) {
	return m.find(func(u model.User) bool { return strings.EqualFold(u.Email, email) })
}

func (m *memUsers) List(context.Context) ([]model.User, error) {
	out := make([]model.User, 0, len(m.rows))
	for _, u := range m.rows {
		out = append(out, u)
	}
	slices.SortFunc(out, func(a, b model.User) int { return cmp.Compare(a.ID, b.ID) })
	return out, nil
}

func (m *memUsers) Update(_ context.Context, u *model.User) error {
	if _, ok := m.rows[u.ID]; !ok {
		return repository.ErrUserNotFound
	}
	m.rows[u.ID] = *u
	return nil
}

func (m *memUsers) Delete(_ context.Context, id uint64) error {
	if _, ok := m.rows[id]; !ok {
		return repository.ErrUserNotFound
	}
	delete(m.rows, id)
	return nil
}

// memReservations is an in-memory ReservationStore.
type memReservations struct {
	rows   map[uint64]model.Reservation
	next   uint64
	writes int
}

func newMemReservations() *memReservations {
	return &memReservations{rows: map[uint64]model.Reservation{}}
}

func (m *memReservations) Create(_ context.Context, r *model.Reservation) error {
	m.writes++
	m.next++
	r.ID = m.next
	m.rows[r.ID] = *r
	return nil
}

func (m *memReservations) GetByID(_ context.Context, id uint64) (*model.Reservation, error) {
	r, ok := m.rows[id]
	if !ok {
		return nil, repository.ErrReservationNotFound
	}
	return &r, nil
}

func (m *memReservations) filter(keep func(model.Reservation) bool) []model.Reservation {
	var out []model.Reservation
	for _, r := range m.rows {
		if keep(r) {
			out = append(out, r)
		}
	}
	slices.SortFunc(out, func(a, b model.Reservation) int { return a.DateTime.Compare(b.DateTime) })
	return out
}

func (m *memReservations) List(context.Context) ([]model.Reservation, error) {
	return m.filter(func(model.Reservation) bool { return true }), nil
}

func (m *memReservations) ListByUser(_ context.Context, userID uint64) ([]model.Reservation, error) {
	return m.filter(func(r model.Reservation) bool { return r.UserID == userID }), nil
}

func (m *memReservations) ListByRestaurant(_ context.Context, restaurantID uint64) ([]model.Reservation, error) {
	return m.filter(func(r model.Reservation) bool { return r.RestaurantID == restaurantID }), nil
}

func (m *memReservations) FindUpcomingByUser(_ context.Context, userID uint64, now time.Time) ([]model.Reservation, error) {
	return m.filter(func(r model.Reservation) bool { return r.UserID == userID && r.DateTime.After(now) }), nil
}

func (m *memReservations) FindByDateRange(_ context.Context, restaurantID uint64, start, end time.Time) ([]model.Reservation, error) {
	return m.filter(func(r model.Reservation) bool {
		return r.RestaurantID == restaurantID && !r.DateTime.Before(start) && !r.DateTime.After(end)
	}), nil
}

func (m *memReservations) Update(_ context.Context, r *model.Reservation) error {
	if _, ok := m.rows[r.ID]; !ok {
		return repository.ErrReservationNotFound
	}
	m.writes++
	m.rows[r.ID] = *r
	return nil
}

func (m *memReservations) UpdateStatus(_ context.Context, id uint64, status model.ReservationStatus) error {
	r, ok := m.rows[id]
	if !ok {
		return repository.ErrReservationNotFound
	}
	m.writes++
	r.Status = status
	m.rows[id] = r
	return nil
}

func (m *memReservations) Delete(_ context.Context, id uint64) error {
	if _, ok := m.rows[id]; !ok {
		return repository.ErrReservationNotFound
	}
	m.writes++
	delete(m.rows, id)
	return nil
}

// stubDirectory is a RestaurantDirectory with canned answers.
type stubDirectory struct {
	infos map[uint64]RestaurantInfo
	err   error
	calls int
}

func (d *stubDirectory) Exists(_ context.Context, id uint64) (bool, error) {
	d.calls++
	if d.err != nil {
		return false, d.err
	}
	_, ok := d.infos[id]
	return ok, nil
}

func (d *stubDirectory) GetCapacityAndHours(_ context.Context, id uint64) (RestaurantInfo, error) {
	d.calls++
	if d.err != nil {
		return RestaurantInfo{}, d.err
	}
	info, ok := d.infos[id]
	if !ok {
		return RestaurantInfo{}, ErrUnknownRestaurant
	}
	return info, nil
}

// recordingPublisher captures published events.
type recordingPublisher struct {
	events []queue.ReservationEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, ev queue.ReservationEvent) error {
	p.events = append(p.events, ev)
	return p.err
}

func (p *recordingPublisher) types() []queue.EventType {
	out := make([]queue.EventType, len(p.events))
	for i, ev := range p.events {
		out[i] = ev.Type
	}
	return out
}

var errBoom = errors.New("boom")

func ptr[T any](v T) *T { return &v }

func fixedClock(t time.Time) func() time.Time { return func() time.Time { return t } }
