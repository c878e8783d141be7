package shopserver

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	vouchermapper "github.com/Apurer/flower-shop-api/internal/domains/vouchers/adapters/http/mapper"
	voucherdomain "github.com/Apurer/flower-shop-api/internal/domains/vouchers/domain"
	voucherports "github.com/Apurer/flower-shop-api/internal/domains/vouchers/ports"
)

// VoucherAPI manages discount codes.
type VoucherAPI struct {
	service voucherports.Service
}

func NewVoucherAPI(service voucherports.Service) VoucherAPI {
	return VoucherAPI{service: service}
}

// Get /vouchers
func (api *VoucherAPI) ListVouchers(c *gin.Context) {
	query := voucherports.ListQuery{Q: strings.TrimSpace(c.Query("q"))}
	if raw := strings.TrimSpace(c.Query("status")); raw != "" {
		status, err := voucherdomain.ParseStatus(raw)
		if err != nil {
			respondBadRequest(c, fmt.Errorf("query status: %w", err))
			return
		}
		query.Status = &status
	}
	deleted, err := optionalBool(c, "deleted")
	if err != nil {
		respondBadRequest(c, err)
		return
	}
	query.Deleted = deleted
	vouchers, err := api.service.List(c.Request.Context(), query)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, "Vouchers fetched", vouchermapper.FromDomainList(vouchers))
}

// Get /voucher/:id
func (api *VoucherAPI) GetVoucher(c *gin.Context) {
	voucher, err := api.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, "Voucher fetched", vouchermapper.FromDomain(voucher))
}

// Post /voucher
func (api *VoucherAPI) CreateVoucher(c *gin.Context) {
	var payload vouchermapper.VoucherForm
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	voucher, err := api.service.Create(c.Request.Context(), vouchermapper.ToCreateInput(payload))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusCreated, "Voucher created", vouchermapper.FromDomain(voucher))
}

// Put /voucher/:id
func (api *VoucherAPI) UpdateVoucher(c *gin.Context) {
	var payload vouchermapper.VoucherForm
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	voucher, err := api.service.Update(c.Request.Context(), vouchermapper.ToUpdateInput(c.Param("id"), payload))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, "Voucher updated", vouchermapper.FromDomain(voucher))
}

// Delete /voucher/:id
// Soft deletes a voucher; its code stays reserved.
func (api *VoucherAPI) DeleteVoucher(c *gin.Context) {
	if err := api.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}
	respondMessage(c, "Voucher deleted")
}

// Post /voucher/quote
// Prices a voucher code against a cart subtotal
func (api *VoucherAPI) QuoteVoucher(c *gin.Context) {
	var payload vouchermapper.QuoteRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	quote, err := api.service.Quote(c.Request.Context(), payload.Code, payload.Subtotal)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, "Voucher applied", vouchermapper.FromQuote(quote))
}
