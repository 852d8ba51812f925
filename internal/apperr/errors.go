// Package apperr holds the error taxonomy shared by the storefront services.
// Callers wrap these sentinels with context and classify with errors.Is.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("access denied")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
)

// Validation returns an ErrValidation carrying a client-facing message.
func Validation(msg string) error {
	return &detailed{kind: ErrValidation, msg: msg}
}

// NotFound returns an ErrNotFound naming what was missing, e.g. "product not found".
func NotFound(what string) error {
	return &detailed{kind: ErrNotFound, msg: what + " not found"}
}

func Conflict(msg string) error {
	return &detailed{kind: ErrConflict, msg: msg}
}

func Forbidden(msg string) error {
	return &detailed{kind: ErrForbidden, msg: msg}
}

func Unauthorized(msg string) error {
	return &detailed{kind: ErrUnauthorized, msg: msg}
}

type detailed struct {
	kind error
	msg  string
}

func (e *detailed) Error() string { return e.msg }

func (e *detailed) Unwrap() error { return e.kind }

// Message returns the client-facing text of err. Wrapped detail errors keep
// their own message; bare sentinels fall back to their text.
func Message(err error) string {
	var d *detailed
	if errors.As(err, &d) {
		return d.msg
	}
	return fmt.Sprint(err)
}
