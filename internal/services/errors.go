package services

import (
	"errors"
	"fmt"

	"github.com/Tayyab-RIT/Campus-Connect-Backend/internal/repository"
)

// Errors returned by the services. Handlers map them to status codes.
var (
	ErrUnauthenticated  = errors.New("unauthenticated")
	ErrForbidden        = errors.New("forbidden")
	ErrInvalidInput     = errors.New("invalid input")
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("conflict")
	ErrCapacityExceeded = errors.New("slot is fully booked")
)

// RegistrationError reports a sign-up whose identity was created but whose profile was not
type RegistrationError struct {
	UserID string
	Err    error
}

func (e *RegistrationError) Error() string {
	return fmt.Sprintf("user created but profile creation failed: %v", e.Err)
}

func (e *RegistrationError) Unwrap() error {
	return e.Err
}

// invalidInput builds an ErrInvalidInput carrying a readable reason
func invalidInput(reason string) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, reason)
}

// fromRepository translates storage sentinels into service errors
func fromRepository(err error, what string) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return fmt.Errorf("%s %w", what, ErrNotFound)
	case errors.Is(err, repository.ErrDuplicate):
		return fmt.Errorf("%w: %s already exists", ErrConflict, what)
	default:
		return err
	}
}
