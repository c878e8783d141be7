package mapper

import (
	"time"

	"github.com/Apurer/flower-shop-api/internal/domains/vouchers/domain"
	"github.com/Apurer/flower-shop-api/internal/domains/vouchers/ports"
)

// Voucher is the wire representation used by both front ends.
type Voucher struct {
	ID              string     `json:"_id"`
	Code            string     `json:"code"`
	Discount        int        `json:"discount"`
	Status          string     `json:"status"`
	Deleted         bool       `json:"is_deleted"`
	Description     string     `json:"desc"`
	StartDate       *time.Time `json:"startDate,omitempty"`
	EndDate         *time.Time `json:"endDate,omitempty"`
	VoucherPrice    int64      `json:"voucherPrice"`
	ApplicablePrice int64      `json:"applicablePrice"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// VoucherForm is the create/update body. Every field is optional on update.
type VoucherForm struct {
	Code            *string    `json:"code"`
	Discount        *int       `json:"discount"`
	Status          *string    `json:"status"`
	Description     *string    `json:"desc"`
	StartDate       *time.Time `json:"startDate"`
	EndDate         *time.Time `json:"endDate"`
	VoucherPrice    *int64     `json:"voucherPrice"`
	ApplicablePrice *int64     `json:"applicablePrice"`
}

// QuoteRequest asks for the discount a code yields on a subtotal.
type QuoteRequest struct {
	Code     string `json:"code" binding:"required"`
	Subtotal int64  `json:"subtotal"`
}

type Quote struct {
	Code     string `json:"code"`
	Subtotal int64  `json:"subtotal"`
	Discount int64  `json:"discount"`
	Total    int64  `json:"total"`
}

func FromDomain(v *domain.Voucher) Voucher {
	if v == nil {
		return Voucher{}
	}
	out := Voucher{
		ID:              v.ID,
		Code:            v.Code,
		Discount:        v.Discount,
		Status:          string(v.Status),
		Deleted:         v.Deleted,
		Description:     v.Description,
		VoucherPrice:    v.VoucherPrice,
		ApplicablePrice: v.ApplicablePrice,
		CreatedAt:       v.CreatedAt,
		UpdatedAt:       v.UpdatedAt,
	}
	if !v.StartDate.IsZero() {
		start := v.StartDate
		out.StartDate = &start
	}
	if !v.EndDate.IsZero() {
		end := v.EndDate
		out.EndDate = &end
	}
	return out
}

func FromDomainList(list []*domain.Voucher) []Voucher {
	out := make([]Voucher, 0, len(list))
	for _, v := range list {
		out = append(out, FromDomain(v))
	}
	return out
}

func FromQuote(q *ports.Quote) Quote {
	return Quote{Code: q.Code, Subtotal: q.Subtotal, Discount: q.Discount, Total: q.Total}
}

func ToCreateInput(form VoucherForm) ports.CreateVoucherInput {
	input := ports.CreateVoucherInput{}
	if form.Code != nil {
		input.Code = *form.Code
	}
	if form.Discount != nil {
		input.Discount = *form.Discount
	}
	if form.Status != nil {
		input.Status = *form.Status
	}
	if form.Description != nil {
		input.Description = *form.Description
	}
	if form.StartDate != nil {
		input.StartDate = *form.StartDate
	}
	if form.EndDate != nil {
		input.EndDate = *form.EndDate
	}
	if form.VoucherPrice != nil {
		input.VoucherPrice = *form.VoucherPrice
	}
	if form.ApplicablePrice != nil {
		input.ApplicablePrice = *form.ApplicablePrice
	}
	return input
}

func ToUpdateInput(id string, form VoucherForm) ports.UpdateVoucherInput {
	return ports.UpdateVoucherInput{
		ID:              id,
		Code:            form.Code,
		Discount:        form.Discount,
		Status:          form.Status,
		Description:     form.Description,
		StartDate:       form.StartDate,
		EndDate:         form.EndDate,
		VoucherPrice:    form.VoucherPrice,
		ApplicablePrice: form.ApplicablePrice,
	}
}
