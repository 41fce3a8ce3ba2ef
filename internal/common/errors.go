// Package common contains shared constants and sentinel errors used across
// the key backup service.
package common

import "errors"

var (

	// repository specific errors
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")

	// service specific errors
	ErrInternal     = errors.New("internal error")
	ErrUnauthorized = errors.New("unauthorized")

	// persona-specific errors
	ErrInvalidPersonaID   = errors.New("invalid persona id")
	ErrMissingContentType = errors.New("missing content type")
	ErrInvalidContent     = errors.New("invalid content")

	// password reset errors
	ErrInvalidAccount   = errors.New("account not registered")
	ErrInvalidResetCode = errors.New("invalid reset code")
)
