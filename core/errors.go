package core

import (
	"github.com/go-playground/validator/v10"
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

// NewFieldError is a shortcut for a ValidationError on a single field.
func NewFieldError(field, msg string) error {
	return &ValidationError{Err: errors.New(msg), Fields: []FieldError{{Field: field, Error: msg}}}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return "invalid input"
	}
	return err.Err.Error()
}

// Authentication error codes.
const (
	AuthMissingToken       = "missing_token"
	AuthInvalidToken       = "invalid_token"
	AuthInvalidCredentials = "invalid_credentials"
)

// AuthError means the caller could not be authenticated.
type AuthError struct {
	Code    string
	Message string
}

func NewAuthError(code, msg string) error {
	return &AuthError{Code: code, Message: msg}
}

func (err AuthError) Error() string {
	return err.Message
}

// ForbiddenError means the caller is authenticated but may not perform the operation.
type ForbiddenError struct {
	Message string
}

func NewForbiddenError(msg string) error {
	if msg == "" {
		msg = "permission denied"
	}
	return &ForbiddenError{Message: msg}
}

func (err ForbiddenError) Error() string {
	return err.Message
}

type NotFoundError struct {
	Resource string
	Message  string
}

func NewNotFoundError(resource string) error {
	return &NotFoundError{Resource: resource}
}

// NewNotFoundMessage is a NotFoundError with a custom message.
func NewNotFoundMessage(resource, msg string) error {
	return &NotFoundError{Resource: resource, Message: msg}
}

func (err NotFoundError) Error() string {
	if err.Message != "" {
		return err.Message
	}
	return err.Resource + " not found"
}

// ConflictError is returned when a uniqueness constraint rejects a write.
type ConflictError struct {
	Field   string
	Message string
}

func NewConflictError(field, msg string) error {
	return &ConflictError{Field: field, Message: msg}
}

func (err ConflictError) Error() string {
	return err.Message
}

func IsNotFound(err error) bool {
	_, ok := errors.Cause(err).(*NotFoundError)
	return ok
}

func IsForbidden(err error) bool {
	_, ok := errors.Cause(err).(*ForbiddenError)
	return ok
}

func IsConflict(err error) bool {
	_, ok := errors.Cause(err).(*ConflictError)
	return ok
}

// IsValidation also matches raw validator errors.
func IsValidation(err error) bool {
	switch errors.Cause(err).(type) {
	case *ValidationError, validator.ValidationErrors:
		return true
	}
	return false
}

// AuthErrorCode returns the code of an AuthError, or "" if err is not one.
func AuthErrorCode(err error) string {
	if aErr, ok := errors.Cause(err).(*AuthError); ok {
		return aErr.Code
	}
	return ""
}

type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
