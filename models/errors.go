package models

import "errors"

// Business errors returned by services, mapped to HTTP codes in controllers.
var (
	ErrNotFound     = errors.New("record not found")
	ErrForbidden    = errors.New("access denied")
	ErrConflict     = errors.New("operation conflicts with current state")
	ErrOutOfStock   = errors.New("menu stock exhausted")
	ErrInvalidInput = errors.New("invalid input")
)
