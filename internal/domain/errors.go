package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies application errors.
type ErrorKind string

const (
	KindValidation       ErrorKind = "validation"
	KindResourceNotFound ErrorKind = "resource_not_found"
	KindBusinessLogic    ErrorKind = "business_logic"
	KindExternalService  ErrorKind = "external_service"
	KindDatabase         ErrorKind = "database"
)

// Sentinels for errors.Is checks against an error's kind.
var (
	ErrValidation       = &Error{Kind: KindValidation}
	ErrResourceNotFound = &Error{Kind: KindResourceNotFound}
	ErrBusinessLogic    = &Error{Kind: KindBusinessLogic}
	ErrExternalService  = &Error{Kind: KindExternalService}
	ErrDatabase         = &Error{Kind: KindDatabase}
)

// Error is the application error type.
type Error struct {
	Kind    ErrorKind
	Code    string
	Message string
	Details map[string]any
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Code != "" {
		msg = msg + " - " + e.Code
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind, so errors.Is(err, ErrValidation) works.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf returns the kind of the first *Error in err's chain, or "" if none.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// NewValidationError reports a malformed or out-of-range domain value.
func NewValidationError(code, message string, details map[string]any) *Error {
	if code == "" {
		code = "VALIDATION_ERROR"
	}
	return &Error{Kind: KindValidation, Code: code, Message: message, Details: details}
}

// NewNotFoundError reports a missing resource.
func NewNotFoundError(resourceType, resourceID string) *Error {
	return &Error{
		Kind:    KindResourceNotFound,
		Code:    "RESOURCE_NOT_FOUND",
		Message: fmt.Sprintf("%s not found", resourceType),
		Details: map[string]any{"resource_type": resourceType, "resource_id": resourceID},
	}
}

// NewBusinessError reports a rule violation.
func NewBusinessError(message string, err error) *Error {
	return &Error{Kind: KindBusinessLogic, Code: "BUSINESS_LOGIC_ERROR", Message: message, Err: err}
}

// NewExternalServiceError reports a failure of an external capability.
func NewExternalServiceError(service string, err error) *Error {
	return &Error{
		Kind:    KindExternalService,
		Code:    "EXTERNAL_SERVICE_ERROR",
		Message: service + " call failed",
		Details: map[string]any{"service_name": service},
		Err:     err,
	}
}

// NewDatabaseError reports a persistence failure.
func NewDatabaseError(op string, err error) *Error {
	return &Error{Kind: KindDatabase, Code: "DATABASE_ERROR", Message: op, Err: err}
}
