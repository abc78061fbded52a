package domain

import "time"

// User models a registered account. Every task in the system belongs to
// exactly one User, and all task queries are scoped by the user's ID.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}
