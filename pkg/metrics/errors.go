package metrics

import "errors"

var (
	// ErrInvalidCapacity is returned when a buffer or store is created
	// with a capacity of zero or less.
	ErrInvalidCapacity = errors.New("invalid capacity: must be > 0")
)
