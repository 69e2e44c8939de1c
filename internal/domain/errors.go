package domain

import "errors"

// Sentinel errors for domain operations
var (
	// ErrRecordNotFound indicates the requested record is not in the store
	ErrRecordNotFound = errors.New("record not found")

	// ErrNothingSelected indicates a bulk operation was requested with an empty selection
	ErrNothingSelected = errors.New("no downloads selected")

	// ErrInvalidPin indicates a PIN that is not exactly four digits
	ErrInvalidPin = errors.New("pin must be 4 digits")

	// ErrPinMismatch indicates the entered PIN does not match the stored secret
	ErrPinMismatch = errors.New("incorrect pin")
)
