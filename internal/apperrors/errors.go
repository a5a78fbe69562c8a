package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrPriceNotFound indicates that no price record is reachable for a product under any
// applicable price list, including the default fallback list. This is the engine's only
// hard failure.
var ErrPriceNotFound = errors.New("price not found")

// ErrRateNotFound indicates that a currency is absent from the current rate table.
// The conversion path recovers from this by degrading to the source currency.
var ErrRateNotFound = errors.New("exchange rate not found")

// ErrRateSourceUnavailable indicates that the external rate source failed or timed out.
// The previous rate table is retained; only explicit forced refreshes surface this.
var ErrRateSourceUnavailable = errors.New("rate source unavailable")

// ErrInvalidRateInput indicates a manual rate mutation with equal currencies or a
// non-positive rate.
var ErrInvalidRateInput = errors.New("invalid rate input")

// AppError carries a status code alongside the underlying error for layers that need to
// translate failures at the boundary.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError wrapping the given error.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}
