package cluster

import "errors"

var (
	ErrInvalidGridSize = errors.New("grid size must be a finite non-negative number")
	ErrInvalidMarker   = errors.New("marker coordinates must be finite")
	ErrUnknownTier     = errors.New("unknown zoom tier")
)
