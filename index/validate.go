package index

import (
	"fmt"
	"math"

	"github.com/viant/neighbourhood/vector"
)

// Validate checks that points share one positive dimension and hold no NaN
// coordinates, and returns that dimension (0 for no points).
func Validate[T vector.Float](points [][]T) (int, error) {
	if len(points) == 0 {
		return 0, nil
	}
	dims := len(points[0])
	if dims == 0 {
		return 0, fmt.Errorf("point 0: %w", ErrInvalidDimension)
	}
	for i, p := range points {
		if len(p) != dims {
			return 0, &ErrDimensionMismatch{Position: i, Expected: dims, Actual: len(p)}
		}
		for axis, v := range p {
			if math.IsNaN(float64(v)) {
				return 0, fmt.Errorf("point %d axis %d: %w", i, axis, ErrInvalidCoordinate)
			}
		}
	}
	return dims, nil
}

// CheckQuery panics with *ErrDimensionMismatch when query does not have dims
// coordinates.
func CheckQuery[T vector.Float](query []T, dims int) {
	if len(query) != dims {
		panic(&ErrDimensionMismatch{Position: -1, Expected: dims, Actual: len(query)})
	}
}
