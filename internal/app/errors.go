package service

import "errors"

// Sentinel kinds for service errors. Handlers map these onto HTTP statuses.
var (
	ErrInvalidObservation = errors.New("observation missing required fields")
	ErrDuplicate          = errors.New("duplicate observation")
	ErrBackpressure       = errors.New("observation queue full")
	ErrUserNotFound       = errors.New("user not found")
	ErrSkillNotTracked    = errors.New("skill not tracked for user")
	ErrBenchmarkNotFound  = errors.New("no benchmark for skill and level")
	ErrSampleTooSmall     = errors.New("sample too small for analysis")
)
