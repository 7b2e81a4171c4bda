package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/restaurant-booking/internal/model"
)

func TestUserRepo_CreateNormalisesEmail(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec("INSERT INTO users").
		WithArgs("u-1", "Ada", "Lovelace", "ada@example.com", nil).
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectQuery("SELECT created_at FROM users").WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(stamp))

	u := &model.User{UserID: "u-1", FirstName: "Ada", LastName: "Lovelace", Email: " Ada@Example.COM "}
	require.NoError(t, NewUserRepo(db).Create(context.Background(), u))
	assert.Equal(t, uint64(7), u.ID)
	assert.Equal(t, "ada@example.com", u.Email)
	assert.Equal(t, stamp, u.CreatedAt)
}

func TestUserRepo_CreateDuplicates(t *testing.T) {
	tests := []struct {
		msg  string
		want error
	}{
		{"Duplicate entry 'u-1' for key 'users.uq_users_external_id'", ErrUserIDExists},
		{"Duplicate entry 'a@b.co' for key 'users.uq_users_email'", ErrEmailExists},
	}
	for _, tt := range tests {
		db, mock := newMock(t)
		mock.ExpectExec("INSERT INTO users").
			WillReturnError(&mysql.MySQLError{Number: 1062, Message: tt.msg})
		err := NewUserRepo(db).Create(context.Background(), &model.User{UserID: "u-1", Email: "a@b.co"})
		assert.ErrorIs(t, err, tt.want)
	}
}

func TestUserRepo_GetByEmail(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery("FROM users WHERE email=").WithArgs("ada@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "external_id", "first_name", "last_name", "email", "phone", "created_at"}).
			AddRow(1, "u-1", "Ada", "Lovelace", "ada@example.com", "+44", stamp))
	mock.ExpectQuery("FROM users WHERE email=").WithArgs("nobody@example.com").WillReturnError(sql.ErrNoRows)

	repo := NewUserRepo(db)
	u, err := repo.GetByEmail(context.Background(), "ADA@example.com")
	require.NoError(t, err)
	assert.Equal(t, "+44", *u.Phone)

	_, err = repo.GetByEmail(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserRepo_DeleteMissing(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec("DELETE FROM users").WithArgs(uint64(4)).WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, NewUserRepo(db).Delete(context.Background(), 4), ErrUserNotFound)
}
