package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/restaurant-booking/internal/model"
)

// RestaurantRepo provides CRUD and lookup queries over the restaurants
// table.  Rating and review_count are never written here; ReviewRepo
// recomputes them whenever a review is added.
type RestaurantRepo struct {
	db *sql.DB
}

// NewRestaurantRepo returns a new RestaurantRepo bound to the given database.
func NewRestaurantRepo(db *sql.DB) *RestaurantRepo { return &RestaurantRepo{db: db} }

const restaurantColumns = `id, name, address, latitude, longitude, cuisine_type, description,
	open_time, close_time, average_price, rating, review_count, total_capacity,
	created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

// scanRestaurant reads one row selected with restaurantColumns, followed
// by any extra destinations.
func scanRestaurant(s rowScanner, extra ...any) (model.Restaurant, error) {
	var (
		m           model.Restaurant
		description sql.NullString
		openTime    sql.NullString
		closeTime   sql.NullString
		price       sql.NullFloat64
		capacity    sql.NullInt64
	)
	dest := []any{
		&m.ID, &m.Name, &m.Address, &m.Latitude, &m.Longitude, &m.CuisineType, &description,
		&openTime, &closeTime, &price, &m.Rating, &m.ReviewCount, &capacity,
		&m.CreatedAt, &m.UpdatedAt,
	}
	if err := s.Scan(append(dest, extra...)...); err != nil {
		return model.Restaurant{}, err
	}
	m.Description = nullString(description)
	m.OpenTime = nullString(openTime)
	m.CloseTime = nullString(closeTime)
	if price.Valid {
		p := price.Float64
		m.AveragePrice = &p
	}
	if capacity.Valid {
		c := int(capacity.Int64)
		m.TotalCapacity = &c
	}
	return m, nil
}

func nullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func (r *RestaurantRepo) query(ctx context.Context, q string, args ...any) ([]model.Restaurant, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Restaurant{}
	for rows.Next() {
		m, err := scanRestaurant(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// List returns every restaurant ordered by ID.
func (r *RestaurantRepo) List(ctx context.Context) ([]model.Restaurant, error) {
	return r.query(ctx, `SELECT `+restaurantColumns+` FROM restaurants ORDER BY id`)
}

// GetByID returns the restaurant with the given ID or ErrRestaurantNotFound.
func (r *RestaurantRepo) GetByID(ctx context.Context, id uint64) (*model.Restaurant, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+restaurantColumns+` FROM restaurants WHERE id = ?`, id)
	m, err := scanRestaurant(row)
	if err == sql.ErrNoRows {
		return nil, ErrRestaurantNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Exists reports whether a restaurant with the given ID exists.
func (r *RestaurantRepo) Exists(ctx context.Context, id uint64) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM restaurants WHERE id = ? LIMIT 1`, id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	return err == nil, err
}

// Create inserts m and reloads it so that generated columns (ID,
// timestamps, rating defaults) are populated.
func (r *RestaurantRepo) Create(ctx context.Context, m *model.Restaurant) error {
	const q = `INSERT INTO restaurants (name, address, latitude, longitude, cuisine_type, description,
		open_time, close_time, average_price, total_capacity) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, m.Name, m.Address, m.Latitude, m.Longitude, m.CuisineType,
		m.Description, m.OpenTime, m.CloseTime, m.AveragePrice, m.TotalCapacity)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	created, err := r.GetByID(ctx, uint64(id))
	if err != nil {
		return err
	}
	*m = *created
	return nil
}

// Update overwrites the editable columns of m.  Rating and review count
// are left untouched.
func (r *RestaurantRepo) Update(ctx context.Context, m *model.Restaurant) error {
	const q = `UPDATE restaurants SET name = ?, address = ?, latitude = ?, longitude = ?, cuisine_type = ?,
		description = ?, open_time = ?, close_time = ?, average_price = ?, total_capacity = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, m.Name, m.Address, m.Latitude, m.Longitude, m.CuisineType,
		m.Description, m.OpenTime, m.CloseTime, m.AveragePrice, m.TotalCapacity, m.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// MySQL reports 0 affected rows for a no-op update, so confirm the row exists.
		if ok, err := r.Exists(ctx, m.ID); err != nil {
			return err
		} else if !ok {
			return ErrRestaurantNotFound
		}
	}
	updated, err := r.GetByID(ctx, m.ID)
	if err != nil {
		return err
	}
	*m = *updated
	return nil
}

// Delete removes the restaurant and, through the foreign key, its reviews.
func (r *RestaurantRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM restaurants WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrRestaurantNotFound
	}
	return nil
}

// FindWithinRadius returns restaurants whose great-circle distance from
// (lat, lon) is at most radiusKm, nearest first.
func (r *RestaurantRepo) FindWithinRadius(ctx context.Context, lat, lon, radiusKm float64) ([]model.Restaurant, error) {
	const q = `SELECT ` + restaurantColumns + `,
		(6371 * ACOS(LEAST(1, COS(RADIANS(?)) * COS(RADIANS(latitude)) *
			COS(RADIANS(longitude) - RADIANS(?)) + SIN(RADIANS(?)) * SIN(RADIANS(latitude))))) AS distance
		FROM restaurants
		HAVING distance <= ?
		ORDER BY distance`
	rows, err := r.db.QueryContext(ctx, q, lat, lon, lat, radiusKm)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Restaurant{}
	for rows.Next() {
		var distance float64
		m, err := scanRestaurant(rows, &distance)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// FindTopByPopularity returns the n restaurants with the most reviews.
func (r *RestaurantRepo) FindTopByPopularity(ctx context.Context, n int) ([]model.Restaurant, error) {
	return r.query(ctx, `SELECT `+restaurantColumns+` FROM restaurants ORDER BY review_count DESC, id LIMIT ?`, n)
}

// Cuisines returns the distinct cuisine types in alphabetical order.
func (r *RestaurantRepo) Cuisines(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT cuisine_type FROM restaurants ORDER BY cuisine_type`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []string{}
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}
	return out, rows.Err()
}
