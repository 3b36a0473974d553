package domain

import "time"

// User represents an account record held by the credential store.
// PasswordHash must never be serialized into a response payload.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Name         string
	Age          *int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
