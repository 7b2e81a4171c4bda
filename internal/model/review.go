package model

import "time"

// Review is a guest's rating of a restaurant, stored in the `reviews`
// table.  Reviews are append-only: creating one recomputes the owning
// restaurant's Rating and ReviewCount.
//
// Fields:
//  ID           – primary key identifier.
//  RestaurantID – owning restaurant.
//  Comment      – review text.
//  Score        – integer score in [1,5].
//  AuthorName   – name shown with the review.
//  CreatedAt    – creation timestamp.
type Review struct {
    ID           uint64    // reviews.id
    RestaurantID uint64    // reviews.restaurant_id
    Comment      string    // reviews.comment
    Score        int       // reviews.score
    AuthorName   string    // reviews.author_name
    CreatedAt    time.Time // reviews.created_at
}

// MinReviewScore and MaxReviewScore bound Review.Score.
const (
    MinReviewScore = 1
    MaxReviewScore = 5
)
