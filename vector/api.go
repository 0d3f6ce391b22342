package vector

import (
	"context"
)

// Point is a stored point with a caller-assigned identifier.
type Point struct {
	// ID is the logical identifier of the point.
	ID string

	// Coords holds the point coordinates; every point in a store shares the
	// same dimension.
	Coords []float32
}

// Store defines the application-level point store API. The spatial indexes in
// this module are static, so a store is the mutable source a new index gets
// built from.
type Store interface {
	// AddPoints inserts or replaces points and returns their IDs.
	AddPoints(ctx context.Context, points []Point) ([]string, error)

	// Points returns every stored point in insertion order.
	Points(ctx context.Context) ([]Point, error)

	// Remove deletes the point with the given ID.
	Remove(ctx context.Context, id string) error
}
