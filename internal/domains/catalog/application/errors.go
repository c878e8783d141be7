package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/flower-shop-api/internal/domains/catalog/domain"
)

// ErrInvalidInput signals the request violated a product invariant.
var ErrInvalidInput = errors.New("invalid product input")

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrEmptyName) ||
		errors.Is(err, domain.ErrInvalidPrice) ||
		errors.Is(err, domain.ErrNoImages) ||
		errors.Is(err, domain.ErrInvalidImage) ||
		errors.Is(err, domain.ErrInvalidStatus) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
