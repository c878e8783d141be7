package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	start = time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	end   = time.Date(2025, 2, 28, 23, 59, 59, 0, time.UTC)
	mid   = time.Date(2025, 2, 14, 12, 0, 0, 0, time.UTC)
)

func valentine() *Voucher {
	return &Voucher{
		Code:            "LOVE10",
		Discount:        10,
		Status:          StatusActive,
		StartDate:       start,
		EndDate:         end,
		VoucherPrice:    50000,
		ApplicablePrice: 200000,
	}
}

func TestQuote(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(v *Voucher)
		subtotal int64
		now      time.Time
		want     int64
		wantErr  error
	}{
		{name: "percent of subtotal", subtotal: 300000, now: mid, want: 30000},
		{name: "capped by voucher price", subtotal: 900000, now: mid, want: 50000},
		{name: "uncapped", mutate: func(v *Voucher) { v.VoucherPrice = 0 }, subtotal: 900000, now: mid, want: 90000},
		{name: "half up rounding", mutate: func(v *Voucher) { v.ApplicablePrice = 0; v.Discount = 15 }, subtotal: 10, now: mid, want: 2},
		{name: "below minimum", subtotal: 199999, now: mid, wantErr: ErrBelowMinimum},
		{name: "not started", subtotal: 300000, now: start.Add(-time.Second), wantErr: ErrVoucherNotStarted},
		{name: "expired", subtotal: 300000, now: end.Add(time.Second), wantErr: ErrVoucherExpired},
		{name: "inactive", mutate: func(v *Voucher) { v.Status = StatusInactive }, subtotal: 300000, now: mid, wantErr: ErrVoucherInactive},
		{name: "deleted", mutate: func(v *Voucher) { v.Deleted = true }, subtotal: 300000, now: mid, wantErr: ErrVoucherInactive},
		{name: "never exceeds subtotal", mutate: func(v *Voucher) { v.Discount = 100; v.ApplicablePrice = 0; v.VoucherPrice = 0 }, subtotal: 1000, now: mid, want: 1000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := valentine()
			if tt.mutate != nil {
				tt.mutate(v)
			}
			got, err := v.Quote(tt.subtotal, tt.now)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidate(t *testing.T) {
	require.NoError(t, valentine().Validate())

	v := valentine()
	v.Code = "  "
	assert.ErrorIs(t, v.Validate(), ErrEmptyCode)

	v = valentine()
	v.Discount = 101
	assert.ErrorIs(t, v.Validate(), ErrInvalidDiscount)

	v = valentine()
	v.EndDate = v.StartDate
	assert.ErrorIs(t, v.Validate(), ErrInvalidDateRange)

	v = valentine()
	v.VoucherPrice = -1
	assert.ErrorIs(t, v.Validate(), ErrNegativeAmount)
}

func TestNormalizeCode(t *testing.T) {
	assert.Equal(t, "LOVE10", NormalizeCode(" love10 "))
}
