package repositories

import (
	"errors"
)

var (
	// ErrNotFound is returned when a specific record is not found.
	ErrNotFound = errors.New("requested record not found")

	// ErrDatabaseError is returned for unexpected storage errors.
	// It wraps the backend's own error.
	ErrDatabaseError = errors.New("database error")

	// ErrDuplicateKey is returned when a create would break a uniqueness rule.
	ErrDuplicateKey = errors.New("duplicate key value violates unique constraint")

	// ErrMalformedData is returned when a stored payload cannot be decoded.
	ErrMalformedData = errors.New("stored data is malformed")
)
