package contracts

import "errors"

var (
	// ErrNotFound is returned when a date, snapshot or ticker does not exist
	ErrNotFound = errors.New("not found")

	// ErrInvalidDate is returned for date keys that are not YYYYMMDD
	ErrInvalidDate = errors.New("invalid date key")

	// ErrInvalidSnapshot marks a snapshot that violates a structural invariant
	ErrInvalidSnapshot = errors.New("invalid snapshot")
)
