package domain

import "errors"

var (
	// ErrValidation marks input that fails domain validation; maps to 400.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound marks a missing row; maps to 404.
	ErrNotFound = errors.New("not found")
	// ErrConflict marks an update rejected by the current row state; maps to 409.
	ErrConflict = errors.New("conflict")
	// ErrCascade marks a failure inside the decision cascade.
	ErrCascade = errors.New("cascade failed")
)
