package utils

import (
	"errors"
	"fmt"
	"net/http"

	"gorm.io/gorm"
)

// Sentinel errors shared by controllers and helpers
var (
	ErrSessionCartMissing  = errors.New("session cart not found")
	ErrCartNotFound        = errors.New("cart not found")
	ErrCartItemNotFound    = errors.New("item not found in cart")
	ErrOrderAlreadyPaid    = errors.New("order is already paid")
	ErrOrderNotPaid        = errors.New("order is not paid")
	ErrOrderCancelled      = errors.New("order was cancelled")
	ErrInsufficientStock   = errors.New("not enough stock")
	ErrPaymentUnavailable  = errors.New("payment provider unavailable")
	ErrInvalidSignature    = errors.New("invalid payment signature")
	ErrEventAlreadyApplied = errors.New("payment event already processed")
)

// PaymentUnavailableMessage is shown to shoppers when a provider call fails
const PaymentUnavailableMessage = "Payment provider unavailable, please try again later"

// AppError represents an application error
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap implements the unwrap interface
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// BadRequestError creates a 400 Bad Request error
func BadRequestError(message string, err error) *AppError {
	return NewAppError(http.StatusBadRequest, message, err)
}

// UnauthorizedError creates a 401 Unauthorized error
func UnauthorizedError(message string, err error) *AppError {
	return NewAppError(http.StatusUnauthorized, message, err)
}

// ForbiddenError creates a 403 Forbidden error
func ForbiddenError(message string, err error) *AppError {
	return NewAppError(http.StatusForbidden, message, err)
}

// NotFoundError creates a 404 Not Found error
func NotFoundError(message string, err error) *AppError {
	return NewAppError(http.StatusNotFound, message, err)
}

// ConflictError creates a 409 Conflict error
func ConflictError(message string, err error) *AppError {
	return NewAppError(http.StatusConflict, message, err)
}

// ServiceUnavailableError creates a 503 Service Unavailable error
func ServiceUnavailableError(message string, err error) *AppError {
	return NewAppError(http.StatusServiceUnavailable, message, err)
}

// GetAppError returns the AppError in err's chain, if any
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// WrapError wraps an error with additional context
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// IsNotFoundError checks if an error is a "not found" error
func IsNotFoundError(err error) bool {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return true
	}
	if appErr := GetAppError(err); appErr != nil {
		return appErr.Code == http.StatusNotFound
	}
	return false
}

// FormatError turns err into a message fit for a client
func FormatError(err error) string {
	if err == nil {
		return ""
	}
	var verrs ValidationErrors
	if AsValidationErrors(err, &verrs) {
		return verrs.Error()
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return "Record already exists"
	}
	return err.Error()
}
