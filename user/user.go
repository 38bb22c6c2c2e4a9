package user

import (
	"errors"
	"time"
)

// User is an account that can own meetups.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

type RegisterInput struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// UpdateInput carries a partial profile update. Changing the password
// requires proving knowledge of the old one.
type UpdateInput struct {
	Name        *string `json:"name"`
	Email       *string `json:"email" validate:"omitempty,email"`
	OldPassword *string `json:"oldPassword"`
	Password    *string `json:"password" validate:"omitempty,min=6"`
}

var (
	ErrNotFound           = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("email or password does not match")
	ErrPasswordMismatch   = errors.New("old password does not match")
)

// StoreError wraps a persistence failure from the account store.
type StoreError struct {
	Err error
}

func (e *StoreError) Error() string { return "store failure: " + e.Err.Error() }

func (e *StoreError) Unwrap() error { return e.Err }
