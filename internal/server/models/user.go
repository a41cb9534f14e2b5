// Package models defines server-side data models.
package models

import "time"

// User is the durable account record. Unique on email. PasswordHash holds a
// bcrypt hash; the plaintext password is never persisted or logged.
type User struct {
	ID           string    `db:"id"`
	UserName     string    `db:"username"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}
