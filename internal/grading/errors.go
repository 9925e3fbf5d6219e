package grading

import "errors"

// Sentinel kinds for grading errors.
var (
	ErrRoundNotFound  = errors.New("round not found")
	ErrNoMatches      = errors.New("round has no matches")
	ErrMissingResults = errors.New("round has matches without a full-time result")
)
