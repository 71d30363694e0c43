// Package errors defines the typed error taxonomy the API maps onto HTTP
// responses. Services return *Error values; the response writer resolves
// the code's metadata to pick a status and decide what the client may see.
package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
)

type Code string

const (
	CodeValidation    Code = "VALIDATION_ERROR"
	CodeUnauthorized  Code = "UNAUTHORIZED"
	CodeForbidden     Code = "FORBIDDEN"
	CodeNotFound      Code = "NOT_FOUND"
	CodeConflict      Code = "CONFLICT"
	CodeStateConflict Code = "STATE_CONFLICT"
	CodeInternal      Code = "INTERNAL_ERROR"
	CodeDependency    Code = "DEPENDENCY_ERROR"
)

// Metadata describes how a code surfaces over HTTP. PublicMessage is the
// fallback body text; DetailsAllowed gates whether error details reach the
// client at all.
type Metadata struct {
	HTTPStatus     int
	Retryable      bool
	PublicMessage  string
	DetailsAllowed bool
}

func MetadataFor(code Code) Metadata {
	switch code {
	case CodeValidation:
		return Metadata{
			HTTPStatus:     http.StatusBadRequest,
			PublicMessage:  "validation failed",
			DetailsAllowed: true,
		}
	case CodeUnauthorized:
		return Metadata{
			HTTPStatus:    http.StatusUnauthorized,
			PublicMessage: "authentication required",
		}
	case CodeForbidden:
		return Metadata{
			HTTPStatus:    http.StatusForbidden,
			PublicMessage: "access denied",
		}
	case CodeNotFound:
		return Metadata{
			HTTPStatus:    http.StatusNotFound,
			PublicMessage: "resource not found",
		}
	case CodeConflict:
		return Metadata{
			HTTPStatus:     http.StatusConflict,
			PublicMessage:  "conflict detected",
			DetailsAllowed: true,
		}
	case CodeStateConflict:
		return Metadata{
			HTTPStatus:     http.StatusUnprocessableEntity,
			PublicMessage:  "state transition disallowed",
			DetailsAllowed: true,
		}
	case CodeDependency:
		return Metadata{
			HTTPStatus:     http.StatusServiceUnavailable,
			Retryable:      true,
			PublicMessage:  "dependency unavailable",
			DetailsAllowed: true,
		}
	default:
		return Metadata{
			HTTPStatus:    http.StatusInternalServerError,
			Retryable:     true,
			PublicMessage: "internal server error",
		}
	}
}

type Error struct {
	code    Code
	message string
	details any
	cause   error
}

func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

func Wrap(code Code, err error, message string) *Error {
	return &Error{code: code, message: message, cause: err}
}

func (e *Error) Code() Code {
	if e == nil {
		return CodeInternal
	}
	return e.code
}

func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	return e.message
}

func (e *Error) Details() any {
	if e == nil {
		return nil
	}
	return e.details
}

func (e *Error) WithDetails(details any) *Error {
	if e == nil {
		return nil
	}
	e.details = details
	return e
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.code, e.message)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// As extracts the typed error from anywhere in err's chain.
func As(err error) *Error {
	var typed *Error
	if stdErrors.As(err, &typed) {
		return typed
	}
	return nil
}
