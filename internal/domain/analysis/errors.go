package analysis

import "errors"

var (
	// ErrInvalidDuration is returned when a recording length is not a positive number of seconds.
	ErrInvalidDuration = errors.New("invalid duration")
	ErrNotFound        = errors.New("analysis not found")
	ErrAlreadyExists   = errors.New("analysis already exists")
)
