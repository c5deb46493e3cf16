package domain

import "time"

// User is the domain model for registered accounts. The auth subsystem only
// ever reads users by email after signup; nothing in the token path mutates
// them.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
