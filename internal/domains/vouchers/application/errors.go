package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/flower-shop-api/internal/domains/vouchers/domain"
)

var (
	// ErrInvalidInput signals the voucher definition violated an invariant.
	ErrInvalidInput = errors.New("invalid voucher input")
	// ErrNotApplicable signals a valid voucher that cannot be used for this order.
	ErrNotApplicable = errors.New("voucher not applicable")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, domain.ErrEmptyCode),
		errors.Is(err, domain.ErrInvalidDiscount),
		errors.Is(err, domain.ErrInvalidStatus),
		errors.Is(err, domain.ErrInvalidDateRange),
		errors.Is(err, domain.ErrNegativeAmount):
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	case errors.Is(err, domain.ErrVoucherInactive),
		errors.Is(err, domain.ErrVoucherNotStarted),
		errors.Is(err, domain.ErrVoucherExpired),
		errors.Is(err, domain.ErrBelowMinimum):
		return fmt.Errorf("%w: %w", ErrNotApplicable, err)
	}
	return err
}
