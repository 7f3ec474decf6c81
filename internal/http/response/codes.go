package response

// RequestIDKey is the gin context key carrying the request id.
const RequestIDKey = "request_id"

// Business status codes carried in the envelope.
const (
	CodeSuccess         = 0
	CodeBadRequest      = 40000
	CodeValidation      = 40001
	CodeUnauthorized    = 40100
	CodeForbidden       = 40300
	CodeNotFound        = 40400
	CodeConflict        = 40900
	CodeTooManyRequests = 42900
	CodeServerError     = 50000
)
