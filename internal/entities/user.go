package entities

import "time"

// User represents a user entity in the database
type User struct {
	ID        string    `json:"id"` // UUID
	Email     string    `json:"email"`
	Name      *string   `json:"name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
