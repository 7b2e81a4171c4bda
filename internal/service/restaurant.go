package service

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/iliyamo/restaurant-booking/internal/model"
	"github.com/iliyamo/restaurant-booking/internal/repository"
)

// Defaults for directory queries.
const (
	DefaultPopularLimit     = 10
	MaxPopularLimit         = 100
	DefaultNearbyRadiusKm   = 5.0
	RecommendationLimit     = 10
	defaultFilterMaxPrice   = 1000
	defaultFilterMaxSeating = 100
)

// RestaurantService implements the restaurant directory: CRUD, search
// and the aggregate views used by the web client.  It also satisfies
// RestaurantDirectory for in-process availability checks.
type RestaurantService struct {
	store RestaurantStore
	now   func() time.Time
}

// NewRestaurantService returns a RestaurantService over store.  A nil
// clock selects time.Now.
func NewRestaurantService(store RestaurantStore, now func() time.Time) *RestaurantService {
	if now == nil {
		now = time.Now
	}
	return &RestaurantService{store: store, now: now}
}

// RestaurantInput carries the editable fields of a restaurant.
type RestaurantInput struct {
	Name          string
	Address       string
	Latitude      float64
	Longitude     float64
	CuisineType   string
	Description   *string
	OpenTime      *string
	CloseTime     *string
	AveragePrice  *float64
	TotalCapacity *int
}

func (in RestaurantInput) validate() error {
	switch {
	case strings.TrimSpace(in.Name) == "":
		return validationf("name is required")
	case strings.TrimSpace(in.Address) == "":
		return validationf("address is required")
	case strings.TrimSpace(in.CuisineType) == "":
		return validationf("cuisine type is required")
	case in.Latitude < -90 || in.Latitude > 90:
		return validationf("latitude must be between -90 and 90")
	case in.Longitude < -180 || in.Longitude > 180:
		return validationf("longitude must be between -180 and 180")
	case in.AveragePrice != nil && *in.AveragePrice < 0:
		return validationf("average price must not be negative")
	case in.TotalCapacity != nil && *in.TotalCapacity < 1:
		return validationf("total capacity must be at least 1")
	}
	for _, t := range []*string{in.OpenTime, in.CloseTime} {
		if t == nil {
			continue
		}
		if _, ok := parseClock(*t); !ok {
			return validationf("opening hours must use HH:mm, got %q", *t)
		}
	}
	return nil
}

func (in RestaurantInput) apply(m *model.Restaurant) {
	m.Name = strings.TrimSpace(in.Name)
	m.Address = strings.TrimSpace(in.Address)
	m.Latitude = in.Latitude
	m.Longitude = in.Longitude
	m.CuisineType = strings.TrimSpace(in.CuisineType)
	m.Description = in.Description
	m.OpenTime = in.OpenTime
	m.CloseTime = in.CloseTime
	m.AveragePrice = in.AveragePrice
	m.TotalCapacity = in.TotalCapacity
}

func restaurantNotFound(err error, id uint64) error {
	if errors.Is(err, repository.ErrRestaurantNotFound) {
		return notFoundf("restaurant %d not found", id)
	}
	return err
}

// List returns every restaurant.
func (s *RestaurantService) List(ctx context.Context) ([]model.Restaurant, error) {
	return s.store.List(ctx)
}

// Get returns a single restaurant.
func (s *RestaurantService) Get(ctx context.Context, id uint64) (*model.Restaurant, error) {
	r, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, restaurantNotFound(err, id)
	}
	return r, nil
}

// Create validates and stores a new restaurant.  Rating and review count
// start at zero.
func (s *RestaurantService) Create(ctx context.Context, in RestaurantInput) (*model.Restaurant, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	var r model.Restaurant
	in.apply(&r)
	if err := s.store.Create(ctx, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// Update replaces the editable fields of an existing restaurant.
func (s *RestaurantService) Update(ctx context.Context, id uint64, in RestaurantInput) (*model.Restaurant, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	r, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, restaurantNotFound(err, id)
	}
	in.apply(r)
	if err := s.store.Update(ctx, r); err != nil {
		return nil, restaurantNotFound(err, id)
	}
	return r, nil
}

// Delete removes a restaurant and its reviews.
func (s *RestaurantService) Delete(ctx context.Context, id uint64) error {
	return restaurantNotFound(s.store.Delete(ctx, id), id)
}

// Search runs the multi-criterion search over the current directory.
func (s *RestaurantService) Search(ctx context.Context, q SearchQuery) (SearchResult, error) {
	if q.RadiusKm != nil && *q.RadiusKm < 0 {
		return SearchResult{}, validationf("radius must not be negative")
	}
	all, err := s.store.List(ctx)
	if err != nil {
		return SearchResult{}, err
	}
	return Search(all, q, s.now()), nil
}

func (s *RestaurantService) searchAll(ctx context.Context, q SearchQuery) ([]model.Restaurant, error) {
	res, err := s.Search(ctx, q)
	if err != nil {
		return nil, err
	}
	out := make([]model.Restaurant, len(res.Hits))
	for i, h := range res.Hits {
		out[i] = h.Restaurant
	}
	return out, nil
}

// SearchByName returns restaurants whose name contains name, ignoring case.
func (s *RestaurantService) SearchByName(ctx context.Context, name string) ([]model.Restaurant, error) {
	return s.searchAll(ctx, SearchQuery{Name: name})
}

// ByCuisine returns restaurants whose cuisine type contains cuisine, ignoring case.
func (s *RestaurantService) ByCuisine(ctx context.Context, cuisine string) ([]model.Restaurant, error) {
	return s.searchAll(ctx, SearchQuery{CuisineType: cuisine})
}

// TopRated returns all restaurants by descending rating.
func (s *RestaurantService) TopRated(ctx context.Context) ([]model.Restaurant, error) {
	return s.searchAll(ctx, SearchQuery{Sort: SortRating})
}

// Recommendations returns up to RecommendationLimit restaurants matching
// the preferred cuisine and minimum rating, best rated first.
func (s *RestaurantService) Recommendations(ctx context.Context, cuisine string, minRating *float64) ([]model.Restaurant, error) {
	return s.searchAll(ctx, SearchQuery{
		CuisineType: cuisine,
		MinRating:   minRating,
		Sort:        SortRating,
		PageSize:    RecommendationLimit,
	})
}

// Cuisines lists the distinct cuisine types.
func (s *RestaurantService) Cuisines(ctx context.Context) ([]string, error) {
	return s.store.Cuisines(ctx)
}

// Popular returns the limit restaurants with the most reviews.
func (s *RestaurantService) Popular(ctx context.Context, limit int) ([]model.Restaurant, error) {
	if limit <= 0 {
		limit = DefaultPopularLimit
	}
	if limit > MaxPopularLimit {
		limit = MaxPopularLimit
	}
	return s.store.FindTopByPopularity(ctx, limit)
}

// Nearby returns restaurants within radiusKm of (lat, lon), nearest
// first, each with its distance.
func (s *RestaurantService) Nearby(ctx context.Context, lat, lon, radiusKm float64) ([]SearchHit, error) {
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return nil, validationf("coordinates out of range")
	}
	if radiusKm <= 0 {
		radiusKm = DefaultNearbyRadiusKm
	}
	rs, err := s.store.FindWithinRadius(ctx, lat, lon, radiusKm)
	if err != nil {
		return nil, err
	}
	hits := make([]SearchHit, len(rs))
	for i, r := range rs {
		d := Haversine(lat, lon, r.Latitude, r.Longitude)
		hits[i] = SearchHit{Restaurant: r, Distance: &d}
	}
	return hits, nil
}

// FilterRanges describes the bounds the web client offers in its
// advanced search form.
type FilterRanges struct {
	Cuisines    []string
	MinPrice    float64
	MaxPrice    float64
	MinCapacity int
	MaxCapacity int
	MinRating   float64
	MaxRating   float64
}

// Filters computes the current price and capacity ranges.  Empty
// directories fall back to 0–1000 and 0–100.
func (s *RestaurantService) Filters(ctx context.Context) (FilterRanges, error) {
	cuisines, err := s.store.Cuisines(ctx)
	if err != nil {
		return FilterRanges{}, err
	}
	all, err := s.store.List(ctx)
	if err != nil {
		return FilterRanges{}, err
	}
	out := FilterRanges{Cuisines: cuisines, MaxPrice: defaultFilterMaxPrice, MaxCapacity: defaultFilterMaxSeating, MaxRating: 5}
	var prices []float64
	var seats []int
	for _, r := range all {
		if r.AveragePrice != nil {
			prices = append(prices, *r.AveragePrice)
		}
		if r.TotalCapacity != nil {
			seats = append(seats, *r.TotalCapacity)
		}
	}
	if len(prices) > 0 {
		out.MinPrice, out.MaxPrice = minMax(prices)
	}
	if len(seats) > 0 {
		out.MinCapacity, out.MaxCapacity = minMax(seats)
	}
	return out, nil
}

func minMax[T int | float64](vs []T) (T, T) {
	lo, hi := vs[0], vs[0]
	for _, v := range vs[1:] {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	return lo, hi
}

// Stats summarises the directory.
type Stats struct {
	TotalRestaurants int
	AverageRating    float64
	ByCuisine        map[string]int
	OpenNow          int
	TotalReviews     int
}

// Stats computes directory-wide statistics at the current moment.
func (s *RestaurantService) Stats(ctx context.Context) (Stats, error) {
	all, err := s.store.List(ctx)
	if err != nil {
		return Stats{}, err
	}
	now := s.now()
	st := Stats{TotalRestaurants: len(all), ByCuisine: map[string]int{}}
	var sum float64
	for _, r := range all {
		sum += r.Rating
		st.ByCuisine[r.CuisineType]++
		st.TotalReviews += r.ReviewCount
		if isOpen(r.OpenTime, r.CloseTime, now) {
			st.OpenNow++
		}
	}
	if len(all) > 0 {
		st.AverageRating = math.Round(sum/float64(len(all))*100) / 100
	}
	return st, nil
}

// Exists implements RestaurantDirectory.
func (s *RestaurantService) Exists(ctx context.Context, id uint64) (bool, error) {
	return s.store.Exists(ctx, id)
}

// GetCapacityAndHours implements RestaurantDirectory.
func (s *RestaurantService) GetCapacityAndHours(ctx context.Context, id uint64) (RestaurantInfo, error) {
	r, err := s.store.GetByID(ctx, id)
	if errors.Is(err, repository.ErrRestaurantNotFound) {
		return RestaurantInfo{}, ErrUnknownRestaurant
	}
	if err != nil {
		return RestaurantInfo{}, err
	}
	return RestaurantInfo{
		ID:           r.ID,
		Name:         r.Name,
		Capacity:     r.TotalCapacity,
		OpenTime:     r.OpenTime,
		CloseTime:    r.CloseTime,
		AveragePrice: r.AveragePrice,
	}, nil
}
