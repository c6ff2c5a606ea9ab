// Package model defines the data structures used throughout the application.
package model

import "time"

// User represents a registered account.
//
// The ID is an internal xid string generated at registration. Username and
// email are both unique — the sqlite schema enforces this with UNIQUE
// constraints, and the repository translates the constraint violations into
// duplicate-username / duplicate-email conflicts.
//
// PasswordHash is a bcrypt hash (the salt is embedded in the hash string).
// The raw password never leaves the auth service. A User is never mutated
// after creation and deletion is not supported.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // never serialized
	CreatedAt    time.Time `json:"createdAt"`
}
