package repository

import (
    "context"
    "database/sql"
    "time"

    "github.com/iliyamo/restaurant-booking/internal/model"
)

// ReservationRepo provides CRUD operations and lookups for reservations.
// All timestamp fields are stored in UTC; the connection is opened with
// loc=UTC so time.Time values round-trip unchanged.
type ReservationRepo struct {
    db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

const reservationColumns = `id, restaurant_id, user_id, customer_name, customer_email, customer_phone,
    reservation_time, guests, status, special_requests, created_at, updated_at`

func scanReservation(s rowScanner) (model.Reservation, error) {
    var (
        res      model.Reservation
        phone    sql.NullString
        requests sql.NullString
        status   string
    )
    err := s.Scan(&res.ID, &res.RestaurantID, &res.UserID, &res.CustomerName, &res.CustomerEmail, &phone,
        &res.DateTime, &res.Guests, &status, &requests, &res.CreatedAt, &res.UpdatedAt)
    if err != nil {
        return model.Reservation{}, err
    }
    res.Status = model.ReservationStatus(status)
    res.CustomerPhone = nullString(phone)
    res.SpecialRequests = nullString(requests)
    return res, nil
}

func (r *ReservationRepo) list(ctx context.Context, where string, args ...any) ([]model.Reservation, error) {
    rows, err := r.db.QueryContext(ctx, `SELECT `+reservationColumns+` FROM reservations `+where, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := []model.Reservation{}
    for rows.Next() {
        res, err := scanReservation(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, res)
    }
    return out, rows.Err()
}

// Create inserts a reservation and populates the generated ID and
// timestamps on res.
func (r *ReservationRepo) Create(ctx context.Context, res *model.Reservation) error {
    const q = `INSERT INTO reservations (restaurant_id, user_id, customer_name, customer_email, customer_phone,
        reservation_time, guests, status, special_requests) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
    result, err := r.db.ExecContext(ctx, q, res.RestaurantID, res.UserID, res.CustomerName, res.CustomerEmail,
        res.CustomerPhone, res.DateTime.UTC(), res.Guests, string(res.Status), res.SpecialRequests)
    if err != nil {
        return err
    }
    id, err := result.LastInsertId()
    if err != nil {
        return err
    }
    created, err := r.GetByID(ctx, uint64(id))
    if err != nil {
        return err
    }
    *res = *created
    return nil
}

// GetByID returns a single reservation or ErrReservationNotFound.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (*model.Reservation, error) {
    res, err := scanReservation(r.db.QueryRowContext(ctx,
        `SELECT `+reservationColumns+` FROM reservations WHERE id = ?`, id))
    if err == sql.ErrNoRows {
        return nil, ErrReservationNotFound
    }
    if err != nil {
        return nil, err
    }
    return &res, nil
}

// List returns every reservation ordered by ID.
func (r *ReservationRepo) List(ctx context.Context) ([]model.Reservation, error) {
    return r.list(ctx, `ORDER BY id`)
}

// ListByUser returns all reservations belonging to a user.
func (r *ReservationRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Reservation, error) {
    return r.list(ctx, `WHERE user_id = ? ORDER BY reservation_time`, userID)
}

// ListByRestaurant returns all reservations for a restaurant.
func (r *ReservationRepo) ListByRestaurant(ctx context.Context, restaurantID uint64) ([]model.Reservation, error) {
    return r.list(ctx, `WHERE restaurant_id = ? ORDER BY reservation_time`, restaurantID)
}

// FindUpcomingByUser returns a user's reservations strictly after now,
// soonest first.
func (r *ReservationRepo) FindUpcomingByUser(ctx context.Context, userID uint64, now time.Time) ([]model.Reservation, error) {
    return r.list(ctx, `WHERE user_id = ? AND reservation_time > ? ORDER BY reservation_time ASC`, userID, now.UTC())
}

// FindByDateRange returns a restaurant's reservations whose time falls in
// the inclusive range [start, end].
func (r *ReservationRepo) FindByDateRange(ctx context.Context, restaurantID uint64, start, end time.Time) ([]model.Reservation, error) {
    return r.list(ctx, `WHERE restaurant_id = ? AND reservation_time BETWEEN ? AND ? ORDER BY reservation_time`,
        restaurantID, start.UTC(), end.UTC())
}

// Update overwrites the contact snapshot, time, guest count and special
// requests of res.  Status changes go through UpdateStatus.
func (r *ReservationRepo) Update(ctx context.Context, res *model.Reservation) error {
    const q = `UPDATE reservations SET customer_name = ?, customer_email = ?, customer_phone = ?,
        reservation_time = ?, guests = ?, special_requests = ? WHERE id = ?`
    if _, err := r.db.ExecContext(ctx, q, res.CustomerName, res.CustomerEmail, res.CustomerPhone,
        res.DateTime.UTC(), res.Guests, res.SpecialRequests, res.ID); err != nil {
        return err
    }
    updated, err := r.GetByID(ctx, res.ID)
    if err != nil {
        return err
    }
    *res = *updated
    return nil
}

// UpdateStatus sets the status column of a reservation.
func (r *ReservationRepo) UpdateStatus(ctx context.Context, id uint64, status model.ReservationStatus) error {
    res, err := r.db.ExecContext(ctx, `UPDATE reservations SET status = ? WHERE id = ?`, string(status), id)
    if err != nil {
        return err
    }
    if n, _ := res.RowsAffected(); n == 0 {
        if _, err := r.GetByID(ctx, id); err != nil {
            return err
        }
    }
    return nil
}

// Delete removes a reservation.
func (r *ReservationRepo) Delete(ctx context.Context, id uint64) error {
    res, err := r.db.ExecContext(ctx, `DELETE FROM reservations WHERE id = ?`, id)
    if err != nil {
        return err
    }
    if n, _ := res.RowsAffected(); n == 0 {
        return ErrReservationNotFound
    }
    return nil
}
