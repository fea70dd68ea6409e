package core

import (
	"fmt"

	"github.com/pkg/errors"
)

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

// APIError is a non-2xx response from the backend. Detail carries the
// backend's `detail` field when present, or a synthesized "HTTP <status>".
type APIError struct {
	StatusCode int
	Detail     string
}

func NewAPIError(status int, detail string) error {
	if detail == "" {
		detail = fmt.Sprintf("HTTP %d", status)
	}
	return &APIError{StatusCode: status, Detail: detail}
}

func (err APIError) Error() string {
	return err.Detail
}

// AsAPIError unwraps err down to an *APIError if there is one.
func AsAPIError(err error) (*APIError, bool) {
	apiErr, ok := errors.Cause(err).(*APIError)
	return apiErr, ok
}

// IsNotFound reports whether err is a backend 404.
func IsNotFound(err error) bool {
	if apiErr, ok := AsAPIError(err); ok {
		return apiErr.StatusCode == 404
	}
	return false
}
