package models

import "errors"

// Errors shared by repositories and services. Callers match them with errors.Is.
var (
	ErrNotFound               = errors.New("not found")
	ErrStoreUnavailable       = errors.New("store unavailable")
	ErrConcurrentModification = errors.New("concurrent modification")
	ErrForbidden              = errors.New("forbidden")
	ErrDuplicate              = errors.New("duplicate record")
)
