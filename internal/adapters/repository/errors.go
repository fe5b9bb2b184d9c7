package repository

import "errors"

// Sentinel kinds for cohort store errors.
var (
	ErrNotFound         = errors.New("cohort not found")
	ErrInsufficientData = errors.New("cohort below minimum group size")
	ErrInvalidScore     = errors.New("score outside valid range")
)
