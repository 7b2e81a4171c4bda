package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ada() UserInput {
	return UserInput{UserID: "u-1", FirstName: "Ada", LastName: "Lovelace", Email: "Ada@Example.com"}
}

func TestUserCreate(t *testing.T) {
	svc := NewUserService(newMemUsers())
	u, err := svc.Create(context.Background(), ada())
	require.NoError(t, err)
	assert.NotZero(t, u.ID)
	assert.Equal(t, "ada@example.com", u.Email)
}

func TestUserCreate_Duplicates(t *testing.T) {
	svc := NewUserService(newMemUsers())
	_, err := svc.Create(context.Background(), ada())
	require.NoError(t, err)

	dupEmail := ada()
	dupEmail.UserID = "u-2"
	_, err = svc.Create(context.Background(), dupEmail)
	assert.ErrorIs(t, err, ErrValidation)

	dupID := ada()
	dupID.Email = "other@example.com"
	_, err = svc.Create(context.Background(), dupID)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUserCreate_RequiredFields(t *testing.T) {
	svc := NewUserService(newMemUsers())
	for name, mutate := range map[string]func(*UserInput){
		"user id":    func(in *UserInput) { in.UserID = "" },
		"first name": func(in *UserInput) { in.FirstName = " " },
		"last name":  func(in *UserInput) { in.LastName = "" },
		"email":      func(in *UserInput) { in.Email = "ada" },
	} {
		in := ada()
		mutate(&in)
		_, err := svc.Create(context.Background(), in)
		assert.ErrorIs(t, err, ErrValidation, name)
	}
}

func TestUserLookupsAndUpdate(t *testing.T) {
	ctx := context.Background()
	svc := NewUserService(newMemUsers())
	u, err := svc.Create(ctx, ada())
	require.NoError(t, err)

	byExt, err := svc.GetByUserID(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byExt.ID)

	byEmail, err := svc.GetByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)

	_, err = svc.Get(ctx, 99)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.GetByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)

	updated, err := svc.Update(ctx, u.ID, UserUpdate{FirstName: "Augusta", LastName: "King", Phone: ptr("+44")})
	require.NoError(t, err)
	assert.Equal(t, "Augusta", updated.FirstName)
	assert.Equal(t, "ada@example.com", updated.Email)

	_, err = svc.Update(ctx, u.ID, UserUpdate{FirstName: "", LastName: "King"})
	assert.ErrorIs(t, err, ErrValidation)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, svc.Delete(ctx, u.ID))
	assert.ErrorIs(t, svc.Delete(ctx, u.ID), ErrNotFound)
}
