package dataset

import "errors"

// Sentinel kinds for dataset validation errors.
var (
	ErrEmptyCurve    = errors.New("benchmark has no percentile ranges")
	ErrInvalidRange  = errors.New("percentile range max below min")
	ErrUnsortedCurve = errors.New("percentile ranges not sorted by min score")
	ErrDuplicate     = errors.New("duplicate dataset entry")
)
