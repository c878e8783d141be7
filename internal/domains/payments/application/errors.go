package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/flower-shop-api/internal/domains/payments/domain"
	"github.com/Apurer/flower-shop-api/internal/domains/payments/vnpay"
)

var (
	// ErrInvalidInput signals a payment request that cannot be charged.
	ErrInvalidInput = errors.New("invalid payment input")
	// ErrOrderNotPayable signals the order is paid or cancelled.
	ErrOrderNotPayable = errors.New("order cannot be paid")
	// ErrGatewayUnavailable signals the merchant credentials are missing.
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, domain.ErrMissingTxnRef),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, vnpay.ErrInvalidRequest):
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	case errors.Is(err, vnpay.ErrNotConfigured):
		return fmt.Errorf("%w: %w", ErrGatewayUnavailable, err)
	}
	return err
}
