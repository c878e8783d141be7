package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/Apurer/flower-shop-api/internal/shared/money"
)

// Status toggles whether a voucher can be redeemed.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

var (
	ErrEmptyCode        = errors.New("voucher code is required")
	ErrInvalidDiscount  = errors.New("voucher discount must be between 1 and 100 percent")
	ErrInvalidStatus    = errors.New("voucher status is invalid")
	ErrInvalidDateRange = errors.New("voucher end date must be after its start date")
	ErrNegativeAmount   = errors.New("voucher amounts cannot be negative")

	ErrVoucherInactive   = errors.New("voucher is not active")
	ErrVoucherNotStarted = errors.New("voucher is not yet valid")
	ErrVoucherExpired    = errors.New("voucher has expired")
	ErrBelowMinimum      = errors.New("order subtotal is below the voucher minimum")
)

// Voucher grants a percentage discount, optionally capped and gated by a minimum subtotal.
type Voucher struct {
	ID          string
	Code        string
	Discount    int
	Status      Status
	Deleted     bool
	Description string
	StartDate   time.Time
	EndDate     time.Time
	// VoucherPrice caps the discount; zero means uncapped.
	VoucherPrice int64
	// ApplicablePrice is the minimum subtotal the voucher applies to.
	ApplicablePrice int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NormalizeCode upper-cases and trims a voucher code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Validate enforces invariants on the aggregate.
func (v *Voucher) Validate() error {
	if NormalizeCode(v.Code) == "" {
		return ErrEmptyCode
	}
	if v.Discount < 1 || v.Discount > 100 {
		return ErrInvalidDiscount
	}
	if _, err := ParseStatus(string(v.Status)); err != nil {
		return err
	}
	if !v.StartDate.IsZero() && !v.EndDate.IsZero() && !v.EndDate.After(v.StartDate) {
		return ErrInvalidDateRange
	}
	if v.VoucherPrice < 0 || v.ApplicablePrice < 0 {
		return ErrNegativeAmount
	}
	return nil
}

// Quote returns the discount for subtotal at the given instant.
func (v *Voucher) Quote(subtotal int64, now time.Time) (int64, error) {
	if v.Deleted || v.Status != StatusActive {
		return 0, ErrVoucherInactive
	}
	if !v.StartDate.IsZero() && now.Before(v.StartDate) {
		return 0, ErrVoucherNotStarted
	}
	if !v.EndDate.IsZero() && now.After(v.EndDate) {
		return 0, ErrVoucherExpired
	}
	if subtotal < v.ApplicablePrice {
		return 0, ErrBelowMinimum
	}
	discount := money.Percent(subtotal, v.Discount)
	if v.VoucherPrice > 0 {
		discount = money.Min(discount, v.VoucherPrice)
	}
	return money.Min(discount, subtotal), nil
}

// ParseStatus accepts the known statuses; empty defaults to active.
func ParseStatus(raw string) (Status, error) {
	switch Status(strings.ToLower(strings.TrimSpace(raw))) {
	case "", StatusActive:
		return StatusActive, nil
	case StatusInactive:
		return StatusInactive, nil
	default:
		return "", ErrInvalidStatus
	}
}
