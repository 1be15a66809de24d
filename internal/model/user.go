package model

import "time"

// UserID uniquely identifies a user
type UserID int64

// User is an account that can own worlds
type User struct {
	ID           UserID
	Username     string // unique
	PasswordHash string // bcrypt hash
	Email        string // unique when non-empty
	CreatedAt    time.Time
}

// NewUser holds the fields needed to create a user
type NewUser struct {
	Username     string
	PasswordHash string
	Email        string
}
