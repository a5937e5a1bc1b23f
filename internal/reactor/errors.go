package reactor

import "errors"

// Contract violations reported by Instance, Builder and Series. None of
// them is retryable: the same request fails the same way.
var (
	ErrEmptyBedList          = errors.New("reactor: at least one bed is required")
	ErrBedIndexOutOfRange    = errors.New("reactor: bed index out of range")
	ErrResultsExhausted      = errors.New("reactor: every bed already has a result")
	ErrPredecessorMissing    = errors.New("reactor: previous bed has no result yet")
	ErrResultExists          = errors.New("reactor: bed already has a result")
	ErrMalformedResult       = errors.New("reactor: malformed bed result")
	ErrInvalidComponentIndex = errors.New("reactor: component index out of range")
	ErrNoResults             = errors.New("reactor: no results stored")
)
