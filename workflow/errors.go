package workflow

import (
	"errors"
	"fmt"

	"github.com/denysvitali/swapctl/swap"
)

// GenericFailureMessage is shown when a failed call carries no backend message.
const GenericFailureMessage = "request failed, please try again"

// ErrValidation marks input errors caught before any backend call.
var ErrValidation = errors.New("validation failed")

type ValidationError struct {
	Msg string
	Err error
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func invalid(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// Describe turns any workflow error into the line shown to the operator.
func Describe(err error) string {
	if err == nil {
		return ""
	}
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return validationErr.Msg
	}
	if errors.Is(err, swap.ErrInvalidRequest) {
		return err.Error()
	}
	var apiErr *swap.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return GenericFailureMessage
}
