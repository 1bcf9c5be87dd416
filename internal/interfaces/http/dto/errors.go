package dto

import "net/http"

// General error codes
const (
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "INTERNAL_ERROR"
	// ErrCodeValidation is used when request binding or validation fails
	ErrCodeValidation = "VALIDATION_ERROR"
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "BAD_REQUEST"
	// ErrCodeUnauthorized is used when company identification is missing/invalid
	ErrCodeUnauthorized = "UNAUTHORIZED"
)

// Resource error codes shared with the domain error taxonomy
const (
	ErrCodeNotFound            = "NOT_FOUND"
	ErrCodeAlreadyExists       = "ALREADY_EXISTS"
	ErrCodeConcurrencyConflict = "CONCURRENCY_CONFLICT"
	ErrCodeInvalidState        = "INVALID_STATE"
	ErrCodeInvalidInput        = "INVALID_INPUT"
)

// Billing error codes raised by the entitlement and subscription services
const (
	ErrCodeFeatureNotEnabled    = "FEATURE_NOT_ENABLED"
	ErrCodePlanNotFound         = "PLAN_NOT_FOUND"
	ErrCodeNoActiveSubscription = "NO_ACTIVE_SUBSCRIPTION"
	ErrCodeInvalidCompany       = "INVALID_COMPANY"
	ErrCodeInvalidAmount        = "INVALID_AMOUNT"
	ErrCodeInvalidFeature       = "INVALID_FEATURE"
	ErrCodeInvalidRecipient     = "INVALID_RECIPIENT"
	ErrCodeInvalidBody          = "INVALID_BODY"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes.
// A quota denial is not listed: it is a 200 with allowed:false, not an error.
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:     http.StatusInternalServerError,
	ErrCodeValidation:   http.StatusBadRequest,
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeUnauthorized: http.StatusUnauthorized,

	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,
	ErrCodeInvalidState:        http.StatusUnprocessableEntity,
	ErrCodeInvalidInput:        http.StatusBadRequest,

	ErrCodeFeatureNotEnabled:    http.StatusForbidden,
	ErrCodePlanNotFound:         http.StatusNotFound,
	ErrCodeNoActiveSubscription: http.StatusConflict,
	ErrCodeInvalidCompany:       http.StatusBadRequest,
	ErrCodeInvalidAmount:        http.StatusBadRequest,
	ErrCodeInvalidFeature:       http.StatusBadRequest,
	ErrCodeInvalidRecipient:     http.StatusBadRequest,
	ErrCodeInvalidBody:          http.StatusBadRequest,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown codes map to 500 Internal Server Error.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
