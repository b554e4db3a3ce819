package usecase

import "errors"

var (
	// ErrNotFound is returned by repositories when no record matches.
	ErrNotFound = errors.New("not found")
	// ErrInvalidRecord is returned when a write would violate the
	// required-field invariant of a record.
	ErrInvalidRecord = errors.New("invalid record")
)
