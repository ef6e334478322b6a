package domain

import "errors"

// Sentinel errors surfaced by the catalog. Callers branch with errors.Is.
var (
	// ErrValidation is returned when input is rejected before any mutation
	// (empty required field, non-numeric or non-positive capacity).
	ErrValidation = errors.New("invalid input")
	// ErrCapacityExceeded is returned when signing up for a full event.
	ErrCapacityExceeded = errors.New("capacity is full")
	// ErrNotFound is returned when neither an exact nor an acceptable fuzzy match exists.
	ErrNotFound = errors.New("not found")
	// ErrPersistence is returned when the backing store cannot be read or written.
	ErrPersistence = errors.New("persistence failure")
)
