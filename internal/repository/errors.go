// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// services and handlers to distinguish between different failure
// scenarios without inspecting driver errors. For example,
// ErrRestaurantNotFound indicates that a lookup by primary key matched
// no row, while ErrEmailExists signals a unique-key violation on the
// users table.
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ErrRestaurantNotFound is returned when no restaurant matches the
// requested ID. Handlers should translate this into an HTTP 404 response.
var ErrRestaurantNotFound = errors.New("restaurant not found")

// ErrUserNotFound is returned when no user matches the lookup key.
var ErrUserNotFound = errors.New("user not found")

// ErrReservationNotFound is returned when no reservation matches the
// requested ID.
var ErrReservationNotFound = errors.New("reservation not found")

// ErrEmailExists is returned when a user insert violates the unique
// email constraint.
var ErrEmailExists = errors.New("email already exists")

// ErrUserIDExists is returned when a user insert violates the unique
// external user id constraint.
var ErrUserIDExists = errors.New("user id already exists")

// mysqlDuplicateEntry is the server error number for a unique key violation.
const mysqlDuplicateEntry = 1062

// duplicateKey reports whether err is a unique key violation and, if so,
// the message MySQL produced (which names the violated key).
func duplicateKey(err error) (string, bool) {
	var me *mysql.MySQLError
	if errors.As(err, &me) && me.Number == mysqlDuplicateEntry {
		return me.Message, true
	}
	return "", false
}
