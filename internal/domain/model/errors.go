package model

import "errors"

// Sentinel kinds for round state rules.
var (
	ErrRoundNotOpen = errors.New("round not open")
)
