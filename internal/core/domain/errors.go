package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failure for the HTTP error translator.
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindBadRequest
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
	KindTooManyRequests
)

func (k ErrorKind) String() string {
	switch k {
	case KindBadRequest:
		return "bad_request"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindTooManyRequests:
		return "too_many_requests"
	default:
		return "internal"
	}
}

// Error is a classified failure. It is created where the failure is detected
// and travels up unchanged until the error handler renders it.
type Error struct {
	Kind    ErrorKind
	Message string
	// Violations holds every failed constraint for validation errors.
	Violations []string
	Err        error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func NewBadRequest(msg string) *Error   { return &Error{Kind: KindBadRequest, Message: msg} }
func NewUnauthorized(msg string) *Error { return &Error{Kind: KindUnauthorized, Message: msg} }
func NewForbidden(msg string) *Error    { return &Error{Kind: KindForbidden, Message: msg} }
func NewNotFound(msg string) *Error     { return &Error{Kind: KindNotFound, Message: msg} }
func NewConflict(msg string) *Error     { return &Error{Kind: KindConflict, Message: msg} }

// NewInternal wraps an unexpected cause. The cause is logged by the error
// handler and never rendered.
func NewInternal(op string, err error) *Error {
	return &Error{Kind: KindInternal, Message: op, Err: err}
}

// KindOf reports the kind of err, defaulting to KindInternal for errors that
// were never classified.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

var (
	ErrMissingToken       = NewUnauthorized("missing or malformed authorization header")
	ErrInvalidToken       = NewUnauthorized("invalid or expired token")
	ErrSubjectGone        = NewUnauthorized("account no longer exists")
	ErrForbidden          = NewForbidden("access forbidden")
	ErrBanned             = NewForbidden("account is banned")
	ErrWrongPassword      = NewBadRequest("Wrong password, please try again!")
	ErrUserNotFound       = NewNotFound("user not found")
	ErrUserExists         = NewConflict("Email address already exists")
	ErrCategoryNotFound   = NewNotFound("category not found")
	ErrProductNotFound    = NewNotFound("product not found")
	ErrOrderNotFound      = NewNotFound("order not found")
	ErrAdminSignupBlocked = NewForbidden("admin accounts cannot be self-registered")
	ErrTooManyAttempts    = &Error{Kind: KindTooManyRequests, Message: "too many failed login attempts, try again later"}
)
