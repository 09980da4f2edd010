package repository

import "errors"

// ErrNotFound is returned by repositories when the target row does not
// exist. Implementations must return it (possibly wrapped) so callers
// can distinguish missing targets from upstream failures.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when an insert violates a uniqueness
// constraint, e.g. registering an email that already exists.
var ErrConflict = errors.New("conflict")
