package models

import (
	"time"
)

// Favorite links a user to a saved property. The (user_id, property_id) pair
// is unique, and favorites are deleted when their property is deleted.
type Favorite struct {
	CreatedAt  time.Time `json:"created_at"`
	UserID     int64     `json:"user_id"`
	PropertyID int64     `json:"property_id"`
	ID         int64     `json:"id"`
}
