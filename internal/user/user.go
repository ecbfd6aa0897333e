package user

import (
	"errors"
	"time"
)

var (
	ErrNotFound           = errors.New("user not found")
	ErrAlreadyExists      = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
)

// Type is the role of an authenticated user.
type Type string

const (
	TypeEmployee Type = "Employee"
	TypeAdmin    Type = "Admin"
)

func (t Type) Valid() bool {
	return t == TypeEmployee || t == TypeAdmin
}

// User is a registered account. PasswordHash holds a bcrypt hash.
type User struct {
	Email        string
	Type         Type
	PasswordHash string
	CreatedAt    time.Time
}
