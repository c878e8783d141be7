package shopserver

import (
	"github.com/gin-gonic/gin"

	cartapp "github.com/Apurer/flower-shop-api/internal/domains/cart/application"
	catalogapp "github.com/Apurer/flower-shop-api/internal/domains/catalog/application"
	catalogports "github.com/Apurer/flower-shop-api/internal/domains/catalog/ports"
	chatapp "github.com/Apurer/flower-shop-api/internal/domains/chat/application"
	insightsports "github.com/Apurer/flower-shop-api/internal/domains/insights/ports"
	orderapp "github.com/Apurer/flower-shop-api/internal/domains/orders/application"
	orderports "github.com/Apurer/flower-shop-api/internal/domains/orders/ports"
	paymentapp "github.com/Apurer/flower-shop-api/internal/domains/payments/application"
	paymentports "github.com/Apurer/flower-shop-api/internal/domains/payments/ports"
	userapp "github.com/Apurer/flower-shop-api/internal/domains/users/application"
	userports "github.com/Apurer/flower-shop-api/internal/domains/users/ports"
	voucherapp "github.com/Apurer/flower-shop-api/internal/domains/vouchers/application"
	voucherports "github.com/Apurer/flower-shop-api/internal/domains/vouchers/ports"
	"github.com/Apurer/flower-shop-api/internal/platform/auth"
	apierrors "github.com/Apurer/flower-shop-api/internal/shared/errors"
)

// serviceErrors translates bounded-context errors; the first matching mapper wins.
var serviceErrors = apierrors.NewChainedResponder("",
	apierrors.Match(apierrors.ErrUnprocessable,
		voucherapp.ErrNotApplicable,
		orderports.ErrVoucherRejected,
		orderports.ErrProductUnavailable,
	),
	apierrors.Match(apierrors.ErrNotFound,
		catalogports.ErrNotFound,
		orderports.ErrNotFound,
		voucherports.ErrNotFound,
		userports.ErrNotFound,
		paymentports.ErrNotFound,
		paymentports.ErrOrderNotFound,
		cartapp.ErrNotFound,
	),
	apierrors.Match(apierrors.ErrConflict,
		voucherports.ErrDuplicateCode,
		userapp.ErrConflict,
		orderapp.ErrConflict,
		orderports.ErrIdempotencyConflict,
		orderports.ErrIdempotencyPending,
		paymentapp.ErrOrderNotPayable,
	),
	apierrors.Match(apierrors.ErrUnauthorized,
		userapp.ErrAuthentication,
		auth.ErrInvalidToken,
	),
	apierrors.Match(apierrors.ErrForbidden,
		orderapp.ErrForbidden,
		userapp.ErrAccountInactive,
	),
	apierrors.Match(apierrors.ErrBadRequest,
		userapp.ErrInvalidResetToken,
	),
	apierrors.Match(apierrors.ErrValidation,
		catalogapp.ErrInvalidInput,
		orderapp.ErrInvalidInput,
		voucherapp.ErrInvalidInput,
		userapp.ErrInvalidInput,
		cartapp.ErrInvalidInput,
		chatapp.ErrInvalidInput,
		paymentapp.ErrInvalidInput,
	),
	apierrors.Match(apierrors.ErrUpstream,
		insightsports.ErrUnavailable,
	),
	apierrors.Match(apierrors.ErrPaymentGateway,
		paymentapp.ErrGatewayUnavailable,
	),
)

// respondProblem maps a ProblemDetail through the shared responder.
func respondProblem(c *gin.Context, problem apierrors.ProblemDetail) {
	apierrors.Respond(c, problem)
}

// respondBadRequest reports a malformed request body or parameter.
func respondBadRequest(c *gin.Context, err error) {
	if err == nil {
		return
	}
	respondProblem(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
}

// respondServiceError maps an application error to its problem response.
func respondServiceError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	serviceErrors.RespondError(c, err)
}
