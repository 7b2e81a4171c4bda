package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/restaurant-booking/internal/model"
)

// UserRepo mirrors the 'users' table of the reservation service.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = "id,external_id,first_name,last_name,email,phone,created_at"

func scanUser(s rowScanner) (model.User, error) {
	var (
		u     model.User
		phone sql.NullString
	)
	if err := s.Scan(&u.ID, &u.UserID, &u.FirstName, &u.LastName, &u.Email, &phone, &u.CreatedAt); err != nil {
		return model.User{}, err
	}
	u.Phone = nullString(phone)
	return u, nil
}

// Create inserts user and populates its ID and creation time.  Emails
// are stored lower-cased.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (external_id, first_name, last_name, email, phone) VALUES (?,?,?,?,?)",
		u.UserID, u.FirstName, u.LastName, u.Email, u.Phone)
	if err != nil {
		if msg, ok := duplicateKey(err); ok {
			if strings.Contains(msg, "external_id") {
				return ErrUserIDExists
			}
			return ErrEmailExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	u.ID = uint64(id)
	return r.DB.QueryRowContext(ctx, "SELECT created_at FROM users WHERE id=?", u.ID).Scan(&u.CreatedAt)
}

func (r *UserRepo) getBy(ctx context.Context, column string, v any) (*model.User, error) {
	u, err := scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE "+column+"=? LIMIT 1", v))
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (*model.User, error) {
	return r.getBy(ctx, "id", id)
}

// GetByExternalID fetches a user by the caller-supplied user id.
func (r *UserRepo) GetByExternalID(ctx context.Context, userID string) (*model.User, error) {
	return r.getBy(ctx, "external_id", strings.TrimSpace(userID))
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.getBy(ctx, "email", strings.ToLower(strings.TrimSpace(email)))
}

// List returns all users ordered by id.
func (r *UserRepo) List(ctx context.Context) ([]model.User, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT "+userColumns+" FROM users ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// Update overwrites the name and phone columns.
func (r *UserRepo) Update(ctx context.Context, u *model.User) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET first_name=?, last_name=?, phone=? WHERE id=?",
		u.FirstName, u.LastName, u.Phone, u.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(ctx, u.ID); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a user; the foreign key cascades to their reservations.
func (r *UserRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM users WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrUserNotFound
	}
	return nil
}
