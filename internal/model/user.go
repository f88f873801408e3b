package model

import "time"

// User represents an account as stored in the `users` table.
//
// Fields:
//
//	ID           – UUID primary key.
//	Email        – unique address, compared case-sensitively.
//	PasswordHash – bcrypt hash; never serialised.
//	CreatedAt    – timestamp of registration.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Identity is the authenticated caller resolved from a session token.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}
