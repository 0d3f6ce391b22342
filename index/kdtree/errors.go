package kdtree

import "github.com/viant/neighbourhood/index"

// ErrDimensionMismatch is returned for ragged input and is the panic value of
// queries whose point has the wrong dimension.
type ErrDimensionMismatch = index.ErrDimensionMismatch

var (
	// ErrInvalidDimension is returned when points have no coordinates.
	ErrInvalidDimension = index.ErrInvalidDimension
	// ErrInvalidCoordinate is returned when a coordinate is NaN.
	ErrInvalidCoordinate = index.ErrInvalidCoordinate
)
