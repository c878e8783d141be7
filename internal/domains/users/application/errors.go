package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/flower-shop-api/internal/domains/users/domain"
	"github.com/Apurer/flower-shop-api/internal/domains/users/ports"
)

var (
	// ErrInvalidInput signals the request violated a domain invariant.
	ErrInvalidInput = errors.New("invalid user input")
	// ErrAuthentication wraps authentication failures.
	ErrAuthentication = errors.New("authentication failed")
	// ErrAccountInactive is returned when a disabled account tries to log in.
	ErrAccountInactive = errors.New("account is inactive")
	// ErrInvalidResetToken covers expired, forged and already used reset links.
	ErrInvalidResetToken = errors.New("reset link is invalid or expired")
	// ErrConflict signals a uniqueness violation.
	ErrConflict = errors.New("user conflict")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, domain.ErrInvalidEmail),
		errors.Is(err, domain.ErrEmptyPassword),
		errors.Is(err, domain.ErrWeakPassword),
		errors.Is(err, domain.ErrPasswordTooLong),
		errors.Is(err, domain.ErrPasswordMismatch),
		errors.Is(err, domain.ErrInvalidRole),
		errors.Is(err, domain.ErrInvalidStatus):
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	case errors.Is(err, ports.ErrInvalidCredentials):
		return fmt.Errorf("%w: %w", ErrAuthentication, err)
	case errors.Is(err, ports.ErrDuplicateEmail):
		return fmt.Errorf("%w: %w", ErrConflict, err)
	}
	return err
}
