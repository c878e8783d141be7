package shopserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	paymentmapper "github.com/Apurer/flower-shop-api/internal/domains/payments/adapters/http/mapper"
	paymentports "github.com/Apurer/flower-shop-api/internal/domains/payments/ports"
)

// PaymentAPI connects the storefront and the VNPay gateway.
type PaymentAPI struct {
	service paymentports.Service
}

func NewPaymentAPI(service paymentports.Service) PaymentAPI {
	return PaymentAPI{service: service}
}

// Post /create_payment_url
// Records a pending transaction and returns the signed gateway URL
func (api *PaymentAPI) CreatePaymentURL(c *gin.Context) {
	var payload paymentmapper.CreatePaymentRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	result, err := api.service.CreatePaymentURL(c.Request.Context(), paymentmapper.ToCreateInput(payload, c.ClientIP()))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, "Payment URL created", paymentmapper.FromPaymentURL(result))
}

// Get /vnpay_ipn
// Server-to-server notification. The gateway always gets a 200 with its own reply codes.
func (api *PaymentAPI) PaymentIPN(c *gin.Context) {
	reply := api.service.HandleIPN(c.Request.Context(), c.Request.URL.Query())
	c.JSON(http.StatusOK, paymentmapper.FromReply(reply))
}

// Get /vnpay_return
// Browser redirect after the payment page
func (api *PaymentAPI) PaymentReturn(c *gin.Context) {
	result := api.service.HandleReturn(c.Request.Context(), c.Request.URL.Query())
	c.JSON(http.StatusOK, paymentmapper.FromReturn(result))
}

// Get /payments/:txnRef
func (api *PaymentAPI) GetTransaction(c *gin.Context) {
	txn, err := api.service.Get(c.Request.Context(), c.Param("txnRef"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, "Transaction fetched", paymentmapper.FromTransaction(txn))
}
