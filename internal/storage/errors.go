package storage

import "errors"

// Store errors.
var (
	// ErrInvalidInput is returned when a chain, address, or token
	// argument is empty or nil.
	ErrInvalidInput = errors.New("invalid input")
)
