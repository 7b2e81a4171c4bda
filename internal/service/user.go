package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"github.com/iliyamo/restaurant-booking/internal/model"
	"github.com/iliyamo/restaurant-booking/internal/repository"
)

// UserService manages reservation-service customers.
type UserService struct {
	users UserStore
}

// NewUserService returns a UserService.
func NewUserService(users UserStore) *UserService { return &UserService{users: users} }

// UserInput carries the fields of a new user.
type UserInput struct {
	UserID    string
	FirstName string
	LastName  string
	Email     string
	Phone     *string
}

// UserUpdate carries the editable fields of a user.
type UserUpdate struct {
	FirstName string
	LastName  string
	Phone     *string
}

func validEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}

func userNotFound(err error) error {
	if errors.Is(err, repository.ErrUserNotFound) {
		return notFoundf("user not found")
	}
	return err
}

// Create stores a new user.  Email and external user id must be unique.
func (s *UserService) Create(ctx context.Context, in UserInput) (*model.User, error) {
	u := model.User{
		UserID:    strings.TrimSpace(in.UserID),
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Email:     strings.ToLower(strings.TrimSpace(in.Email)),
		Phone:     in.Phone,
	}
	switch {
	case u.UserID == "":
		return nil, validationf("user id is required")
	case u.FirstName == "":
		return nil, validationf("first name is required")
	case u.LastName == "":
		return nil, validationf("last name is required")
	case !validEmail(u.Email):
		return nil, validationf("a valid email is required")
	}
	if err := s.users.Create(ctx, &u); err != nil {
		switch {
		case errors.Is(err, repository.ErrEmailExists):
			return nil, validationf("a user with email %s already exists", u.Email)
		case errors.Is(err, repository.ErrUserIDExists):
			return nil, validationf("user id %s is already taken", u.UserID)
		}
		return nil, err
	}
	return &u, nil
}

// Get returns a user by primary key.
func (s *UserService) Get(ctx context.Context, id uint64) (*model.User, error) {
	u, err := s.users.GetByID(ctx, id)
	return u, userNotFound(err)
}

// GetByUserID returns a user by external id.
func (s *UserService) GetByUserID(ctx context.Context, userID string) (*model.User, error) {
	u, err := s.users.GetByExternalID(ctx, userID)
	return u, userNotFound(err)
}

// GetByEmail returns a user by email.
func (s *UserService) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	u, err := s.users.GetByEmail(ctx, email)
	return u, userNotFound(err)
}

// List returns all users.
func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	return s.users.List(ctx)
}

// Update changes a user's names and phone.  Email and external id are
// immutable.
func (s *UserService) Update(ctx context.Context, id uint64, in UserUpdate) (*model.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, userNotFound(err)
	}
	first, last := strings.TrimSpace(in.FirstName), strings.TrimSpace(in.LastName)
	if first == "" || last == "" {
		return nil, validationf("first and last name are required")
	}
	u.FirstName, u.LastName, u.Phone = first, last, in.Phone
	if err := s.users.Update(ctx, u); err != nil {
		return nil, userNotFound(err)
	}
	return u, nil
}

// Delete removes a user together with their reservations.
func (s *UserService) Delete(ctx context.Context, id uint64) error {
	return userNotFound(s.users.Delete(ctx, id))
}
