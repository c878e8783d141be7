package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/flower-shop-api/internal/domains/orders/domain"
	"github.com/Apurer/flower-shop-api/internal/domains/orders/ports"
)

var (
	// ErrInvalidInput signals the request violated an order invariant.
	ErrInvalidInput = errors.New("invalid order input")
	// ErrConflict signals the order is in a state that does not allow the change.
	ErrConflict = errors.New("order state conflict")
	// ErrForbidden signals the actor may not touch this order.
	ErrForbidden = errors.New("order action forbidden")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, domain.ErrNoItems),
		errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrInvalidPrice),
		errors.Is(err, domain.ErrMissingProduct),
		errors.Is(err, domain.ErrInvalidStatus),
		errors.Is(err, domain.ErrInvalidPaymentMethod),
		errors.Is(err, domain.ErrMissingShipping),
		errors.Is(err, domain.ErrNegativeShipping),
		errors.Is(err, domain.ErrInvalidDiscount),
		errors.Is(err, domain.ErrCancelReasonRequired),
		errors.Is(err, ports.ErrProductUnavailable),
		errors.Is(err, ports.ErrVoucherRejected):
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	case errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrAlreadyPaid),
		errors.Is(err, domain.ErrOrderCancelled):
		return fmt.Errorf("%w: %w", ErrConflict, err)
	}
	return err
}
