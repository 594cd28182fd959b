package common

import (
	"errors"
	"net/http"
)

// Business logic errors
var (
	ErrNotFound  = errors.New("resource not found")
	ErrForbidden = errors.New("forbidden")

	// Auth errors
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserAlreadyExists  = errors.New("user already exists")

	// Validation errors
	ErrInvalidInput = errors.New("invalid input")
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("expired token")
)

// Application error codes surfaced to API clients
const (
	CodeNoSubscription       = "NO_SUBSCRIPTION"
	CodeSubscriptionInactive = "SUBSCRIPTION_INACTIVE"
	CodeFeatureDisabled      = "FEATURE_DISABLED"
	CodePlanLimitExceeded    = "PLAN_LIMIT_EXCEEDED"
	CodeInvalidKey           = "INVALID_KEY"
	CodePlanNotPayable       = "PLAN_NOT_PAYABLE"
	CodePlanNotFound         = "PLAN_NOT_FOUND"
	CodeSubscriptionNotFound = "SUBSCRIPTION_NOT_FOUND"
	CodeBadRequest           = "BAD_REQUEST"
	CodeNotFound             = "NOT_FOUND"
	CodeUnauthorized         = "UNAUTHORIZED"
	CodeInternal             = "INTERNAL_SERVER_ERROR"
)

// AppError is a typed application error carrying the HTTP status and
// tenant-visible error code for the global response mapper.
type AppError struct {
	Status  int
	Code    string
	Message string
}

func (e *AppError) Error() string {
	return e.Message
}

// NewAppError creates a typed application error
func NewAppError(status int, code, message string) *AppError {
	return &AppError{Status: status, Code: code, Message: message}
}

// Enforcement and billing error constructors
func ErrNoSubscription() *AppError {
	return NewAppError(http.StatusForbidden, CodeNoSubscription, "No subscription found for tenant")
}

func ErrSubscriptionInactive(status string) *AppError {
	return NewAppError(http.StatusForbidden, CodeSubscriptionInactive, "Subscription is "+status)
}

func ErrFeatureDisabled(key string) *AppError {
	return NewAppError(http.StatusForbidden, CodeFeatureDisabled, "Feature is not enabled on the current plan: "+key)
}

func ErrPlanLimitExceeded(key string) *AppError {
	return NewAppError(http.StatusForbidden, CodePlanLimitExceeded, "Plan limit reached: "+key)
}

func ErrInvalidConfigKey(key string) *AppError {
	return NewAppError(http.StatusBadRequest, CodeInvalidKey, "Unknown configuration key: "+key)
}

func ErrPlanNotPayable(code string) *AppError {
	return NewAppError(http.StatusBadRequest, CodePlanNotPayable, "Plan is not payable: "+code)
}

func ErrPlanNotFound(code string) *AppError {
	return NewAppError(http.StatusNotFound, CodePlanNotFound, "Plan not found: "+code)
}

func ErrSubscriptionNotFound() *AppError {
	return NewAppError(http.StatusNotFound, CodeSubscriptionNotFound, "Subscription not found for tenant")
}

func ErrBadRequest(message string) *AppError {
	return NewAppError(http.StatusBadRequest, CodeBadRequest, message)
}

// AsAppError unwraps err into an *AppError when possible
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
