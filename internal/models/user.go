package models

import (
	"time"
)

// User represents an account holder. PasswordHash is nil for users that only
// ever signed in through Google; GoogleID is nil for password-only users.
type User struct {
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
	Email        string     `json:"email"`
	Username     *string    `json:"username,omitempty"`
	PasswordHash *string    `json:"-"`
	GoogleID     *string    `json:"-"`
	ID           int64      `json:"id"`
}

// UserProfile holds optional profile details, one row per user.
type UserProfile struct {
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`
	Address     *string    `json:"address,omitempty"`
	Phone       *string    `json:"phone,omitempty"`
	UserID      int64      `json:"user_id"`
	ID          int64      `json:"id"`
}
