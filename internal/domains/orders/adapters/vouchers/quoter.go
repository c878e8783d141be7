// Package vouchers adapts the vouchers context to the orders VoucherQuoter port.
package vouchers

import (
	"context"
	"errors"
	"fmt"

	"github.com/Apurer/flower-shop-api/internal/domains/orders/ports"
	voucherapp "github.com/Apurer/flower-shop-api/internal/domains/vouchers/application"
	voucherports "github.com/Apurer/flower-shop-api/internal/domains/vouchers/ports"
)

var _ ports.VoucherQuoter = (*Quoter)(nil)

type Quoter struct {
	vouchers voucherports.Service
}

func NewQuoter(vouchers voucherports.Service) *Quoter {
	return &Quoter{vouchers: vouchers}
}

// QuoteDiscount returns the discount; unknown or inapplicable codes become ErrVoucherRejected.
func (q *Quoter) QuoteDiscount(ctx context.Context, code string, subtotal int64) (int64, error) {
	if q == nil || q.vouchers == nil {
		return 0, errors.New("voucher quoter not configured")
	}
	quote, err := q.vouchers.Quote(ctx, code, subtotal)
	switch {
	case err == nil:
		return quote.Discount, nil
	case errors.Is(err, voucherports.ErrNotFound),
		errors.Is(err, voucherapp.ErrNotApplicable),
		errors.Is(err, voucherapp.ErrInvalidInput):
		return 0, fmt.Errorf("%w: %w", ports.ErrVoucherRejected, err)
	default:
		return 0, err
	}
}
