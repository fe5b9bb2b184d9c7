package progress

import "errors"

// Sentinel kinds for snapshot store errors.
var (
	ErrNotFound = errors.New("user not found")
)
