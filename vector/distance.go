package vector

import (
	"fmt"
	"math"

	"github.com/viant/vec/search"
)

// SquaredDistance returns the squared Euclidean distance between a and b.
// b must be at least as long as a.
func SquaredDistance[T Float](a, b []T) T {
	b = b[:len(a)]
	var sum T
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

// Distance returns the Euclidean distance between a and b.
func Distance[T Float](a, b []T) T {
	return T(math.Sqrt(float64(SquaredDistance(a, b))))
}

// Norm returns the Euclidean length of v.
func Norm[T Float](v []T) T {
	var sum T
	for _, x := range v {
		sum += x * x
	}
	return T(math.Sqrt(float64(sum)))
}

// L2Distance computes the Euclidean (L2) distance between two float32 points.
// It returns an error if the points have different lengths.
func L2Distance(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("vector: L2 distance dimension mismatch: %d vs %d", len(a), len(b))
	}
	if len(a) == 0 {
		return 0, nil
	}
	return float64(search.Float32s(a).EuclideanDistance(b)), nil
}
