package market

import "errors"

// Sentinel kinds for selection validation.
var (
	ErrUnknownMarket = errors.New("unknown market")
	ErrInvalidValue  = errors.New("invalid value for market")
)
