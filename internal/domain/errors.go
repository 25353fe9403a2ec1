package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a domain failure so the transport layer can map it.
type ErrorKind string

const (
	KindDuplicateIdentity  ErrorKind = "duplicate_identity"
	KindInvalidKind        ErrorKind = "invalid_kind"
	KindInvalidCredentials ErrorKind = "invalid_credentials"
	KindInvalidToken       ErrorKind = "invalid_token"
	KindUnknownPrincipal   ErrorKind = "unknown_principal"
	KindNotFound           ErrorKind = "not_found"
	KindForbidden          ErrorKind = "forbidden"
	KindNoStatus           ErrorKind = "no_status"
	KindValidation         ErrorKind = "validation"
	KindConflict           ErrorKind = "conflict"
	KindUnexpected         ErrorKind = "unexpected"
)

// Error is a typed domain failure carrying a human readable message.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind, so errors.Is(err, domain.ErrForbidden) works.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind && t.Message == ""
}

// Sentinels for errors.Is checks. They carry only a kind.
var (
	ErrDuplicateIdentity  = &Error{Kind: KindDuplicateIdentity}
	ErrInvalidKind        = &Error{Kind: KindInvalidKind}
	ErrInvalidCredentials = &Error{Kind: KindInvalidCredentials}
	ErrInvalidToken       = &Error{Kind: KindInvalidToken}
	ErrUnknownPrincipal   = &Error{Kind: KindUnknownPrincipal}
	ErrNotFound           = &Error{Kind: KindNotFound}
	ErrForbidden          = &Error{Kind: KindForbidden}
	ErrNoStatus           = &Error{Kind: KindNoStatus}
	ErrValidation         = &Error{Kind: KindValidation}
	ErrConflict           = &Error{Kind: KindConflict}
)

func NewDuplicateIdentityError(message string) *Error {
	return &Error{Kind: KindDuplicateIdentity, Message: message}
}

func NewInvalidKindError(message string) *Error {
	return &Error{Kind: KindInvalidKind, Message: message}
}

// NewInvalidCredentialsError always returns the same message, whatever went wrong.
func NewInvalidCredentialsError() *Error {
	return &Error{Kind: KindInvalidCredentials, Message: "invalid credentials"}
}

func NewInvalidTokenError(err error) *Error {
	return &Error{Kind: KindInvalidToken, Message: "invalid token", Err: err}
}

func NewUnknownPrincipalError(kind, id string) *Error {
	return &Error{Kind: KindUnknownPrincipal, Message: fmt.Sprintf("%s %s no longer exists", kind, id)}
}

func NewNotFoundError(entity, id string) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("%s with id %s not found", entity, id)}
}

func NewForbiddenError(message string) *Error {
	return &Error{Kind: KindForbidden, Message: message}
}

func NewNoStatusError(petID string) *Error {
	return &Error{Kind: KindNoStatus, Message: fmt.Sprintf("no status recorded for pet %s", petID)}
}

func NewValidationError(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

func NewConflictError(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

// KindOf returns the kind of the first *Error in err's chain, or KindUnexpected.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindUnexpected
}
