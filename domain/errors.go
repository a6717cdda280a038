package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies every failure the auth core can surface.
type ErrorKind string

const (
	KindValidation         ErrorKind = "VALIDATION_ERROR"
	KindBadRequest         ErrorKind = "BAD_REQUEST"
	KindInvalidCredentials ErrorKind = "INVALID_CREDENTIALS"
	KindUnauthorized       ErrorKind = "UNAUTHORIZED"
	KindForbidden          ErrorKind = "FORBIDDEN"
	KindNotFound           ErrorKind = "NOT_FOUND"
	KindConflict           ErrorKind = "CONFLICT"
	KindInvalidOTP         ErrorKind = "INVALID_OR_EXPIRED_OTP"
	KindInternal           ErrorKind = "INTERNAL_ERROR"
)

// Error is the single error type returned by domain services.
type Error struct {
	Kind      ErrorKind
	Message   string
	Details   []string
	Retryable bool
	Err       error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches on kind and, when the target carries one, on message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Message == "" || t.Message == e.Message)
}

// NewError creates a domain error of the given kind
func NewError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// ValidationFailed builds a validation error carrying per-field messages
func ValidationFailed(details []string) *Error {
	return &Error{Kind: KindValidation, Message: "validation failed", Details: details}
}

func BadRequest(message string) *Error { return NewError(KindBadRequest, message) }
func Unauthorized(message string) *Error { return NewError(KindUnauthorized, message) }
func Forbidden(message string) *Error { return NewError(KindForbidden, message) }
func NotFound(message string) *Error { return NewError(KindNotFound, message) }
func Conflict(message string) *Error { return NewError(KindConflict, message) }

// Internal wraps an unexpected infrastructure failure
func Internal(message string, err error) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}

// Timeout wraps a deadline hit on an external call; it is safe to retry.
func Timeout(message string, err error) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: err, Retryable: true}
}

// KindOf returns the kind of err, or KindInternal for foreign errors.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

// Authentication errors
var (
	ErrInvalidCredentials = NewError(KindInvalidCredentials, "invalid email or password")
	ErrEmailTaken         = Conflict("Email already registered")
	ErrUserNotFound       = NotFound("user not found")
	ErrCallerNotFound     = NotFound("caller not found")
	ErrTargetNotFound     = NotFound("target user not found")
)

// OTP and password reset errors
var (
	ErrInvalidOrExpiredOTP  = NewError(KindInvalidOTP, "invalid or expired otp")
	ErrInvalidResetTicket   = NewError(KindInvalidOTP, "invalid or expired reset token")
	ErrRefreshTokenRequired = ValidationFailed([]string{"refreshToken: cannot be blank"})
)

// Token errors
var (
	ErrTokenInvalid        = Unauthorized("invalid token")
	ErrTokenExpired        = Unauthorized("token has expired")
	ErrInvalidRefreshToken = Unauthorized("invalid or expired refresh token")
	ErrRefreshUserNotFound = Unauthorized("user not found")
	ErrRefreshTokenReused  = Unauthorized("refresh token has been revoked")
)

// Authorization errors
var (
	ErrUnknownRole       = BadRequest("role must be one of USER, ADMIN")
	ErrRootNotAssignable = Forbidden("ROOT role cannot be assigned: only one ROOT account may exist")
	ErrSelfRoleChange    = Forbidden("you cannot change your own role")
	ErrCannotAssignRoles = Forbidden("your role is not allowed to assign roles")
	ErrRoleAboveCaller   = Forbidden("cannot assign a role higher than your own")
	ErrRootImmutable     = Forbidden("the ROOT account role cannot be changed")
	ErrInsufficientRole  = Forbidden("insufficient role permissions")
)
