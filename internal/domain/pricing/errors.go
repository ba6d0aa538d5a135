package pricing

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidStay      = errors.New("pricing: check-out must be after check-in")
	ErrStayTooLong      = errors.New("pricing: stay is too long to quote")
	ErrBasePriceMissing = errors.New("pricing: base price must be positive")
	ErrNegativePrice    = errors.New("pricing: override prices cannot be negative")
	ErrUnknownWeekday   = errors.New("pricing: unknown weekday")
)

// ValidationError reports malformed pricing input. It is never retried.
type ValidationError struct {
	Field  string
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("pricing: invalid %s", e.Field)
	}
	return fmt.Sprintf("pricing: invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// IsValidationError returns the ValidationError in err's chain, or nil.
func IsValidationError(err error) *ValidationError {
	if err == nil {
		return nil
	}
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return validationErr
	}
	return nil
}

func invalid(field string, err error, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...), Err: err}
}
