package api

import "errors"

// Sentinel kinds for API errors.
var (
	ErrBadRoute     = errors.New("malformed route")
	ErrMissingSkill = errors.New("missing skill parameter")
)
