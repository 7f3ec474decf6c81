package service

import "errors"

// Validation errors surfaced to the API as 400s.
var (
	ErrShopRequired         = errors.New("shop is required")
	ErrShopNotFound         = errors.New("shop not found")
	ErrShopInactive         = errors.New("shop is inactive")
	ErrPickupDateRequired   = errors.New("pickup date is required")
	ErrCustomerInfoRequired = errors.New("customer name, firstname and phone are required")
	ErrOrderLineRequired    = errors.New("order must have at least one line")
	ErrInvalidOrderLine     = errors.New("order line has invalid product or quantity")
	ErrCancelReasonRequired = errors.New("cancellation requires a reason")
)

// Lookup and state errors.
var (
	ErrOrderNotFound      = errors.New("order not found")
	ErrProductNotFound    = errors.New("product not found")
	ErrCategoryNotFound   = errors.New("category not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrOrderNotEditable   = errors.New("order can no longer be edited")
	ErrInvalidTransition  = errors.New("status transition not allowed from current status")
	ErrStatusNotAllowed   = errors.New("role may not set this status")
	ErrStockInsufficient  = errors.New("insufficient stock for requested quantity")
	ErrOrderConflict      = errors.New("order was modified concurrently, reload and retry")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserDisabled       = errors.New("user account is disabled")
	ErrCaptchaInvalid     = errors.New("captcha verification failed")
)
