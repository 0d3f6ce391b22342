package index

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidDimension is returned for points with no coordinates.
	ErrInvalidDimension = errors.New("invalid dimension")
	// ErrInvalidCoordinate is returned for points with a NaN coordinate.
	ErrInvalidCoordinate = errors.New("invalid coordinate")
)

// ErrDimensionMismatch reports a point whose dimension differs from the
// index dimension. Position is the offending point's position in the input,
// or -1 for a query point.
type ErrDimensionMismatch struct {
	Position int
	Expected int
	Actual   int
}

func (e *ErrDimensionMismatch) Error() string {
	if e.Position < 0 {
		return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
	}
	return fmt.Sprintf("dimension mismatch at point %d: expected %d, got %d", e.Position, e.Expected, e.Actual)
}
