package model

import "time"

// User represents a customer record in the reservation service's
// `users` table.  Reservations reference users by ID and are deleted
// together with their user.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – external, caller-supplied identifier (unique).
//  FirstName – given name.
//  LastName  – family name.
//  Email     – unique email address.
//  Phone     – optional phone number.
//  CreatedAt – timestamp of creation.
type User struct {
    ID        uint64    // users.id
    UserID    string    // users.external_id
    FirstName string    // users.first_name
    LastName  string    // users.last_name
    Email     string    // users.email
    Phone     *string   // users.phone (nullable)
    CreatedAt time.Time // users.created_at
}
