package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/flower-shop-api/internal/domains/cart/domain"
	"github.com/Apurer/flower-shop-api/internal/domains/cart/ports"
)

var (
	// ErrInvalidInput signals the request violated a cart invariant.
	ErrInvalidInput = errors.New("invalid cart input")
	// ErrNotFound is returned when the targeted line is not in the cart.
	ErrNotFound = errors.New("cart item not found")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, domain.ErrMissingUser),
		errors.Is(err, domain.ErrMissingProduct),
		errors.Is(err, domain.ErrQuantityOutOfRange),
		errors.Is(err, ports.ErrProductUnavailable):
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	case errors.Is(err, domain.ErrItemNotFound):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	return err
}
