package staff

import (
	"errors"

	"github.com/fournil-next/internal/http/response"
	"github.com/fournil-next/internal/logger"
	"github.com/fournil-next/internal/service"

	"github.com/gin-gonic/gin"
)

// writeServiceError maps service sentinels onto envelope codes. Unknown
// errors are logged and hidden behind a generic message.
func writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrOrderNotFound),
		errors.Is(err, service.ErrProductNotFound),
		errors.Is(err, service.ErrCategoryNotFound),
		errors.Is(err, service.ErrShopNotFound),
		errors.Is(err, service.ErrUserNotFound):
		response.Error(c, response.CodeNotFound, err.Error())
	case errors.Is(err, service.ErrOrderConflict):
		response.Error(c, response.CodeConflict, err.Error())
	case errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrOrderNotEditable),
		errors.Is(err, service.ErrStockInsufficient),
		errors.Is(err, service.ErrShopInactive),
		errors.Is(err, service.ErrCancelReasonRequired),
		errors.Is(err, service.ErrShopRequired),
		errors.Is(err, service.ErrPickupDateRequired),
		errors.Is(err, service.ErrCustomerInfoRequired),
		errors.Is(err, service.ErrOrderLineRequired),
		errors.Is(err, service.ErrInvalidOrderLine):
		response.Error(c, response.CodeValidation, err.Error())
	case errors.Is(err, service.ErrStatusNotAllowed):
		response.Error(c, response.CodeForbidden, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrUserDisabled),
		errors.Is(err, service.ErrCaptchaInvalid):
		response.Error(c, response.CodeUnauthorized, err.Error())
	default:
		logger.Errorw("unhandled service error",
			"error", err,
			"path", c.Request.URL.Path,
			"request_id", c.GetString(response.RequestIDKey),
		)
		response.Error(c, response.CodeServerError, "internal error")
	}
}
