package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/restaurant-booking/internal/model"
)

func TestReviewAddRecomputesRating(t *testing.T) {
	ctx := context.Background()
	restaurants := newMemRestaurants(model.Restaurant{ID: 1, Name: "Le Petit Zinc"})
	svc := NewReviewService(newMemReviews(restaurants), restaurants)

	for _, score := range []int{5, 4, 2} {
		got, err := svc.Add(ctx, ReviewInput{RestaurantID: 1, Comment: "ok", Score: score, AuthorName: "Bob"})
		require.NoError(t, err)
		assert.Equal(t, "Le Petit Zinc", got.RestaurantName)
	}

	r, err := restaurants.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.InDelta(t, 11.0/3, r.Rating, 1e-9)
	assert.Equal(t, 3, r.ReviewCount)
}

func TestReviewAddStoreFailureKeepsRating(t *testing.T) {
	ctx := context.Background()
	restaurants := newMemRestaurants(model.Restaurant{ID: 1, Name: "Le Petit Zinc"})
	reviews := newMemReviews(restaurants)
	svc := NewReviewService(reviews, restaurants)
	_, err := svc.Add(ctx, ReviewInput{RestaurantID: 1, Comment: "ok", Score: 4, AuthorName: "Bob"})
	require.NoError(t, err)

	reviews.err = errBoom
	_, err = svc.Add(ctx, ReviewInput{RestaurantID: 1, Comment: "meh", Score: 1, AuthorName: "Eve"})
	assert.ErrorIs(t, err, errBoom)
	assert.Len(t, reviews.rows, 1)

	r, err := restaurants.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 4.0, r.Rating)
	assert.Equal(t, 1, r.ReviewCount)
}

func TestReviewValidation(t *testing.T) {
	restaurants := newMemRestaurants(model.Restaurant{ID: 1})
	svc := NewReviewService(newMemReviews(restaurants), restaurants)
	for _, in := range []ReviewInput{
		{RestaurantID: 1, Comment: "ok", Score: 0, AuthorName: "Bob"},
		{RestaurantID: 1, Comment: "ok", Score: 6, AuthorName: "Bob"},
		{RestaurantID: 1, Comment: " ", Score: 3, AuthorName: "Bob"},
		{RestaurantID: 1, Comment: "ok", Score: 3},
	} {
		_, err := svc.Add(context.Background(), in)
		assert.ErrorIs(t, err, ErrValidation, "%+v", in)
	}
}

func TestReviewUnknownRestaurant(t *testing.T) {
	restaurants := newMemRestaurants()
	reviews := newMemReviews(restaurants)
	svc := NewReviewService(reviews, restaurants)
	_, err := svc.Add(context.Background(), ReviewInput{RestaurantID: 7, Comment: "ok", Score: 3, AuthorName: "Bob"})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, reviews.rows)

	_, err = svc.ListByRestaurant(context.Background(), 7)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReviewListing(t *testing.T) {
	ctx := context.Background()
	restaurants := newMemRestaurants(model.Restaurant{ID: 1, Name: "A"}, model.Restaurant{ID: 2, Name: "B"})
	svc := NewReviewService(newMemReviews(restaurants), restaurants)
	for i := range 7 {
		_, err := svc.Add(ctx, ReviewInput{RestaurantID: 1, Comment: "c", Score: 1 + i%5, AuthorName: "x"})
		require.NoError(t, err)
	}
	_, err := svc.Add(ctx, ReviewInput{RestaurantID: 2, Comment: "c", Score: 3, AuthorName: "y"})
	require.NoError(t, err)

	all, err := svc.ListByRestaurant(ctx, 1)
	require.NoError(t, err)
	require.Len(t, all, 7)
	assert.True(t, all[0].CreatedAt.After(all[6].CreatedAt))

	latest, err := svc.Latest(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, latest, TopReviewsLimit)
	assert.Equal(t, all[0].ID, latest[0].ID)
}
