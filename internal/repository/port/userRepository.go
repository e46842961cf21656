package repository

import (
	"context"
	"errors"
	"time"
)

// ErrUserNotFound signals a missing account in a typed way.
var ErrUserNotFound = errors.New("user repository: user not found")

// UserStatus gates whether an account may authenticate.
type UserStatus string

const (
	UserStatusActive  UserStatus = "ACTIVE"
	UserStatusBlocked UserStatus = "BLOCKED"
)

// User is the identity record consumed by the auth layer. Profile fields
// beyond what login and token claims need are out of scope here.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Avatar       *string
	Role         string
	Status       UserStatus
	CreatedAt    time.Time
}

// UserRepository resolves accounts for authentication.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
}
