package service

import (
	"context"
	"strings"

	"github.com/labstack/gommon/log"

	"github.com/iliyamo/restaurant-booking/internal/metrics"
	"github.com/iliyamo/restaurant-booking/internal/model"
)

// TopReviewsLimit is the size of the "latest reviews" excerpt.
const TopReviewsLimit = 5

// ReviewService accepts reviews and keeps each restaurant's rating and
// review count equal to the aggregate of its reviews.
type ReviewService struct {
	reviews     ReviewStore
	restaurants RestaurantStore
}

// NewReviewService returns a ReviewService.
func NewReviewService(reviews ReviewStore, restaurants RestaurantStore) *ReviewService {
	return &ReviewService{reviews: reviews, restaurants: restaurants}
}

// ReviewInput is a review submission.
type ReviewInput struct {
	RestaurantID uint64
	Comment      string
	Score        int
	AuthorName   string
}

// ReviewDetail is a review together with the name of its restaurant.
type ReviewDetail struct {
	model.Review
	RestaurantName string
}

// Add stores a review and recomputes the restaurant's rating.
func (s *ReviewService) Add(ctx context.Context, in ReviewInput) (*ReviewDetail, error) {
	if in.Score < model.MinReviewScore || in.Score > model.MaxReviewScore {
		return nil, validationf("score must be between %d and %d", model.MinReviewScore, model.MaxReviewScore)
	}
	if strings.TrimSpace(in.Comment) == "" {
		return nil, validationf("comment is required")
	}
	if strings.TrimSpace(in.AuthorName) == "" {
		return nil, validationf("author name is required")
	}
	restaurant, err := s.restaurants.GetByID(ctx, in.RestaurantID)
	if err != nil {
		return nil, restaurantNotFound(err, in.RestaurantID)
	}

	rv := model.Review{
		RestaurantID: in.RestaurantID,
		Comment:      strings.TrimSpace(in.Comment),
		Score:        in.Score,
		AuthorName:   strings.TrimSpace(in.AuthorName),
	}
	avg, count, err := s.reviews.CreateAndRecompute(ctx, &rv)
	if err != nil {
		return nil, restaurantNotFound(err, in.RestaurantID)
	}
	metrics.ReviewsCreated.Inc()
	log.Debugf("reviews: restaurant %d now rated %.2f over %d reviews", in.RestaurantID, avg, count)
	return &ReviewDetail{Review: rv, RestaurantName: restaurant.Name}, nil
}

// ListByRestaurant returns a restaurant's reviews, newest first.
func (s *ReviewService) ListByRestaurant(ctx context.Context, restaurantID uint64) ([]ReviewDetail, error) {
	return s.list(ctx, restaurantID, 0)
}

// Latest returns the TopReviewsLimit newest reviews of a restaurant.
func (s *ReviewService) Latest(ctx context.Context, restaurantID uint64) ([]ReviewDetail, error) {
	return s.list(ctx, restaurantID, TopReviewsLimit)
}

func (s *ReviewService) list(ctx context.Context, restaurantID uint64, limit int) ([]ReviewDetail, error) {
	restaurant, err := s.restaurants.GetByID(ctx, restaurantID)
	if err != nil {
		return nil, restaurantNotFound(err, restaurantID)
	}
	rvs, err := s.reviews.ListByRestaurant(ctx, restaurantID, limit)
	if err != nil {
		return nil, err
	}
	out := make([]ReviewDetail, len(rvs))
	for i, rv := range rvs {
		out[i] = ReviewDetail{Review: rv, RestaurantName: restaurant.Name}
	}
	return out, nil
}
