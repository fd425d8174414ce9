package service

import (
	"errors"
	"fmt"
)

// Domain errors for auth flows.
var (
	ErrDuplicateUsername  = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidUsername    = errors.New("username must be between 1 and 100 characters")
	ErrPersistence        = errors.New("persistence failure")
)

const maxUsernameLength = 100

func persistence(err error) error {
	return fmt.Errorf("%w: %w", ErrPersistence, err)
}
