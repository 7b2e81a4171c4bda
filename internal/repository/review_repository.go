package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/restaurant-booking/internal/model"
)

// ReviewRepo stores reviews.  Reviews are never updated or deleted
// individually; they disappear with their restaurant.
type ReviewRepo struct {
	db *sql.DB
}

// NewReviewRepo returns a new ReviewRepo bound to the given database.
func NewReviewRepo(db *sql.DB) *ReviewRepo { return &ReviewRepo{db: db} }

// CreateAndRecompute inserts a review and rewrites its restaurant's rating
// and review_count from the reviews table, all in one transaction.  It
// populates the review's ID and creation time and returns the new mean and
// count.  Nothing is stored when any step fails.
func (r *ReviewRepo) CreateAndRecompute(ctx context.Context, rv *model.Review) (float64, int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO reviews (restaurant_id, comment, score, author_name) VALUES (?, ?, ?, ?)`,
		rv.RestaurantID, rv.Comment, rv.Score, rv.AuthorName)
	if err != nil {
		return 0, 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, 0, err
	}

	// Locks the restaurant row; concurrent reviews of it are serialised.
	res, err = tx.ExecContext(ctx,
		`UPDATE restaurants SET
			rating = (SELECT COALESCE(AVG(score), 0) FROM reviews WHERE restaurant_id = ?),
			review_count = (SELECT COUNT(*) FROM reviews WHERE restaurant_id = ?)
		WHERE id = ?`, rv.RestaurantID, rv.RestaurantID, rv.RestaurantID)
	if err != nil {
		return 0, 0, err
	}
	if n, err := res.RowsAffected(); err != nil {
		return 0, 0, err
	} else if n == 0 {
		return 0, 0, ErrRestaurantNotFound
	}

	var (
		avg   float64
		count int
		at    time.Time
	)
	if err := tx.QueryRowContext(ctx,
		`SELECT r.rating, r.review_count, v.created_at
		FROM restaurants r JOIN reviews v ON v.restaurant_id = r.id
		WHERE v.id = ?`, id).Scan(&avg, &count, &at); err != nil {
		return 0, 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, 0, err
	}
	rv.ID = uint64(id)
	rv.CreatedAt = at
	return avg, count, nil
}

// ListByRestaurant returns a restaurant's reviews, newest first.  A
// positive limit caps the number of rows.
func (r *ReviewRepo) ListByRestaurant(ctx context.Context, restaurantID uint64, limit int) ([]model.Review, error) {
	q := `SELECT id, restaurant_id, comment, score, author_name, created_at
		FROM reviews WHERE restaurant_id = ? ORDER BY created_at DESC, id DESC`
	args := []any{restaurantID}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Review{}
	for rows.Next() {
		var rv model.Review
		if err := rows.Scan(&rv.ID, &rv.RestaurantID, &rv.Comment, &rv.Score, &rv.AuthorName, &rv.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}
