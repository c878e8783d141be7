package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/flower-shop-api/internal/domains/vouchers/adapters/memory"
	"github.com/Apurer/flower-shop-api/internal/domains/vouchers/domain"
	"github.com/Apurer/flower-shop-api/internal/domains/vouchers/ports"
)

var now = time.Date(2025, 3, 8, 10, 0, 0, 0, time.UTC)

func newTestService() *Service {
	return NewService(memory.NewRepository()).WithClock(func() time.Time { return now })
}

func womensDay() ports.CreateVoucherInput {
	return ports.CreateVoucherInput{
		Code:            " women8 ",
		Discount:        20,
		StartDate:       now.Add(-24 * time.Hour),
		EndDate:         now.Add(24 * time.Hour),
		VoucherPrice:    100000,
		ApplicablePrice: 300000,
	}
}

func TestCreate_NormalizesCodeAndRejectsDuplicates(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	voucher, err := svc.Create(ctx, womensDay())
	require.NoError(t, err)
	assert.Equal(t, "WOMEN8", voucher.Code)
	assert.Equal(t, domain.StatusActive, voucher.Status)

	_, err = svc.Create(ctx, womensDay())
	require.ErrorIs(t, err, ports.ErrDuplicateCode)
}

func TestCreate_InvalidInput(t *testing.T) {
	input := womensDay()
	input.Discount = 0
	_, err := newTestService().Create(context.Background(), input)
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, domain.ErrInvalidDiscount)
}

func TestQuote(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	_, err := svc.Create(ctx, womensDay())
	require.NoError(t, err)

	quote, err := svc.Quote(ctx, "women8", 400000)
	require.NoError(t, err)
	assert.Equal(t, int64(80000), quote.Discount)
	assert.Equal(t, int64(320000), quote.Total)

	quote, err = svc.Quote(ctx, "WOMEN8", 1000000)
	require.NoError(t, err)
	assert.Equal(t, int64(100000), quote.Discount)

	_, err = svc.Quote(ctx, "WOMEN8", 100000)
	require.ErrorIs(t, err, ErrNotApplicable)
	require.ErrorIs(t, err, domain.ErrBelowMinimum)

	_, err = svc.Quote(ctx, "NOPE", 100000)
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestDeleteIsSoftAndBlocksQuotes(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	voucher, err := svc.Create(ctx, womensDay())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, voucher.ID))

	stored, err := svc.Get(ctx, voucher.ID)
	require.NoError(t, err)
	assert.True(t, stored.Deleted)

	_, err = svc.Quote(ctx, voucher.Code, 500000)
	require.ErrorIs(t, err, domain.ErrVoucherInactive)

	deleted := false
	list, err := svc.List(ctx, ports.ListQuery{Deleted: &deleted})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestUpdate(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	first, err := svc.Create(ctx, womensDay())
	require.NoError(t, err)
	second := womensDay()
	second.Code = "SPRING"
	other, err := svc.Create(ctx, second)
	require.NoError(t, err)

	discount := 30
	updated, err := svc.Update(ctx, ports.UpdateVoucherInput{ID: first.ID, Discount: &discount})
	require.NoError(t, err)
	assert.Equal(t, 30, updated.Discount)

	taken := "women8"
	_, err = svc.Update(ctx, ports.UpdateVoucherInput{ID: other.ID, Code: &taken})
	require.ErrorIs(t, err, ports.ErrDuplicateCode)

	inactive := "inactive"
	updated, err = svc.Update(ctx, ports.UpdateVoucherInput{ID: first.ID, Status: &inactive})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInactive, updated.Status)
}
